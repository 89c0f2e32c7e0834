package availability

import (
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
)

// ResolveWindow возвращает окно работы по шаблону дня недели
// nil означает, что в этот день услуга не работает
func ResolveWindow(tpl *domain.ScheduleTemplate) *domain.Window {
	if tpl == nil {
		return nil
	}
	return &domain.Window{Start: tpl.StartTime.Minutes(), End: tpl.EndTime.Minutes()}
}

// IsFullyClosed возвращает true, если дата целиком закрыта хотя бы одним planned-off
func IsFullyClosed(offs []domain.PlannedOff, date time.Time) bool {
	for i := range offs {
		if offs[i].IsFullDay() && offs[i].Covers(date) {
			return true
		}
	}
	return false
}

// applicableBreaks перерывы, действующие в день недели даты (включая ежедневные)
func applicableBreaks(breaks []domain.ServiceBreak, date time.Time) []domain.Interval {
	result := make([]domain.Interval, 0, len(breaks))
	for i := range breaks {
		if !breaks[i].AppliesTo(date) {
			continue
		}
		result = append(result, domain.Interval{
			Start: breaks[i].StartTime.Minutes(),
			End:   breaks[i].EndTime.Minutes(),
		})
	}
	return result
}

// partialClosures частичные закрытия, покрывающие дату
func partialClosures(offs []domain.PlannedOff, date time.Time) []domain.Interval {
	result := make([]domain.Interval, 0, len(offs))
	for i := range offs {
		off := offs[i]
		if off.IsFullDay() || !off.Covers(date) || off.StartTime == nil || off.EndTime == nil {
			continue
		}
		result = append(result, domain.Interval{
			Start: off.StartTime.Minutes(),
			End:   off.EndTime.Minutes(),
		})
	}
	return result
}
