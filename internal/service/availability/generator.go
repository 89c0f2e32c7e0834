package availability

import "github.com/m04kA/SMC-SlotBooking/internal/domain"

// GenerateParams входные данные генератора слотов
type GenerateParams struct {
	Window          domain.Window
	SlotDuration    int
	CleanupBreak    int
	Capacity        int
	Breaks          []domain.Interval
	PartialClosures []domain.Interval
	Booked          map[domain.SlotKey]int
	// IncludeFull возвращать и полностью занятые слоты (Available = 0), для проверки при бронировании
	IncludeFull bool
}

// GenerateSlots проходит окно курсором и возвращает слоты со свободными местами.
//
// Кандидат [cursor, cursor+duration) после конца окна завершает обход.
// Пересечение с перерывом переносит курсор на конец перерыва, сетка выравнивается заново от него.
// Пересечение с частичным закрытием пропускает кандидата без смены сетки.
// Полностью занятые слоты не возвращаются, если не задан IncludeFull.
// После каждого кандидата курсор сдвигается на duration + cleanup.
func GenerateSlots(p GenerateParams) []domain.Slot {
	slots := make([]domain.Slot, 0)
	if p.SlotDuration <= 0 || p.CleanupBreak < 0 {
		return slots
	}

	cursor := p.Window.Start
	for {
		candidate := domain.Interval{Start: cursor, End: cursor + p.SlotDuration}
		if candidate.End > p.Window.End {
			break
		}

		if brk, ok := firstOverlap(candidate, p.Breaks); ok {
			// конец перерыва всегда правее курсора, обход конечен
			cursor = brk.End
			continue
		}

		if _, ok := firstOverlap(candidate, p.PartialClosures); !ok {
			slot := domain.Slot{Start: candidate.Start, End: candidate.End}
			slot.Available = p.Capacity - p.Booked[slot.Key()]
			if slot.Available < 0 {
				slot.Available = 0
			}
			if slot.Available > 0 || p.IncludeFull {
				slots = append(slots, slot)
			}
		}

		cursor = candidate.End + p.CleanupBreak
	}

	return slots
}

// FindSlot ищет слот с точно совпадающими границами
func FindSlot(slots []domain.Slot, start, end int) (domain.Slot, bool) {
	for _, s := range slots {
		if s.Start == start && s.End == end {
			return s, true
		}
	}
	return domain.Slot{}, false
}

func firstOverlap(candidate domain.Interval, intervals []domain.Interval) (domain.Interval, bool) {
	for _, in := range intervals {
		if candidate.Overlaps(in) {
			return in, true
		}
	}
	return domain.Interval{}, false
}
