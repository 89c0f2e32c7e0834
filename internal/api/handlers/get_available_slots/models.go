package get_available_slots

import (
	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SlotBooking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Service ServiceSummary  `json:"service"`
	Date    string          `json:"date"`
	Slots   []AvailableSlot `json:"slots"`
}

// ServiceSummary краткое описание услуги
type ServiceSummary struct {
	ID                  int64  `json:"id"`
	Slug                string `json:"slug"`
	Name                string `json:"name"`
	SlotDurationMinutes int    `json:"slotDurationMinutes"`
	CleanupBreakMinutes int    `json:"cleanupBreakMinutes"`
	MaxClientsPerSlot   int    `json:"maxClientsPerSlot"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	AvailableSpots int    `json:"availableSpots"`
	IsAvailable    bool   `json:"isAvailable"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime:      slot.StartTime.String(),
			EndTime:        slot.EndTime.String(),
			AvailableSpots: slot.AvailableSpots,
			IsAvailable:    slot.AvailableSpots > 0,
		}
	}

	return &AvailableSlotsResponse{
		Service: ServiceSummary{
			ID:                  resp.Service.ID,
			Slug:                resp.Service.Slug,
			Name:                resp.Service.Name,
			SlotDurationMinutes: resp.Service.SlotDurationMinutes,
			CleanupBreakMinutes: resp.Service.CleanupBreakMinutes,
			MaxClientsPerSlot:   resp.Service.MaxClientsPerSlot,
		},
		Date:  resp.Date.Format(domain.DateFormat),
		Slots: slots,
	}
}
