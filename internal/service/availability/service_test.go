package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	serviceRepo "github.com/m04kA/SMC-SlotBooking/internal/infra/storage/service"
	"github.com/m04kA/SMC-SlotBooking/pkg/logger"
	"github.com/m04kA/SMC-SlotBooking/pkg/ptr"
	"github.com/m04kA/SMC-SlotBooking/pkg/types"
)

type scheduleRepoMock struct {
	mock.Mock
}

func (m *scheduleRepoMock) GetScheduleTemplate(ctx context.Context, serviceID int64, dayOfWeek int) (*domain.ScheduleTemplate, error) {
	args := m.Called(ctx, serviceID, dayOfWeek)
	tpl, _ := args.Get(0).(*domain.ScheduleTemplate)
	return tpl, args.Error(1)
}

func (m *scheduleRepoMock) ListBreaks(ctx context.Context, serviceID int64) ([]domain.ServiceBreak, error) {
	args := m.Called(ctx, serviceID)
	breaks, _ := args.Get(0).([]domain.ServiceBreak)
	return breaks, args.Error(1)
}

func (m *scheduleRepoMock) ListPlannedOffs(ctx context.Context, serviceID int64, date time.Time) ([]domain.PlannedOff, error) {
	args := m.Called(ctx, serviceID, date)
	offs, _ := args.Get(0).([]domain.PlannedOff)
	return offs, args.Error(1)
}

type capacityRepoMock struct {
	mock.Mock
}

func (m *capacityRepoMock) CountAttendeesBySlot(ctx context.Context, serviceID int64, date time.Time) (map[domain.SlotKey]int, error) {
	args := m.Called(ctx, serviceID, date)
	booked, _ := args.Get(0).(map[domain.SlotKey]int)
	return booked, args.Error(1)
}

var (
	// 2026-03-09 понедельник
	monday = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	yoga   = &domain.Service{
		ID:                  1,
		Slug:                "yoga",
		SlotDurationMinutes: 10,
		CleanupBreakMinutes: 5,
		MaxClientsPerSlot:   3,
		MaxDaysInFuture:     30,
		IsActive:            true,
	}
	mondayTemplate = &domain.ScheduleTemplate{ServiceID: 1, DayOfWeek: 1, StartTime: "08:00", EndTime: "09:00"}
)

func TestService_SlotsForDate(t *testing.T) {
	ctx := context.Background()

	t.Run("no template yields empty list", func(t *testing.T) {
		schedule := new(scheduleRepoMock)
		capacity := new(capacityRepoMock)
		schedule.On("GetScheduleTemplate", ctx, int64(1), 1).Return(nil, serviceRepo.ErrTemplateNotFound)

		slots, err := NewService(schedule, capacity, logger.Nop()).SlotsForDate(ctx, yoga, monday)

		require.NoError(t, err)
		assert.Empty(t, slots)
		capacity.AssertNotCalled(t, "CountAttendeesBySlot", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("full day planned off yields empty list", func(t *testing.T) {
		schedule := new(scheduleRepoMock)
		capacity := new(capacityRepoMock)
		schedule.On("GetScheduleTemplate", ctx, int64(1), 1).Return(mondayTemplate, nil)
		schedule.On("ListPlannedOffs", ctx, int64(1), monday).Return([]domain.PlannedOff{
			{StartDate: monday.AddDate(0, 0, -1), EndDate: monday.AddDate(0, 0, 2)},
		}, nil)

		slots, err := NewService(schedule, capacity, logger.Nop()).SlotsForDate(ctx, yoga, monday)

		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("applies breaks of the weekday, partial closures and bookings", func(t *testing.T) {
		schedule := new(scheduleRepoMock)
		capacity := new(capacityRepoMock)
		schedule.On("GetScheduleTemplate", ctx, int64(1), 1).Return(mondayTemplate, nil)
		schedule.On("ListPlannedOffs", ctx, int64(1), monday).Return([]domain.PlannedOff{
			{
				StartDate: monday,
				EndDate:   monday,
				StartTime: ptr.Ptr(types.TimeString("08:45")),
				EndTime:   ptr.Ptr(types.TimeString("09:00")),
			},
		}, nil)
		schedule.On("ListBreaks", ctx, int64(1)).Return([]domain.ServiceBreak{
			{DayOfWeek: ptr.Ptr(1), StartTime: "08:15", EndTime: "08:30"},
			{DayOfWeek: ptr.Ptr(2), StartTime: "08:00", EndTime: "09:00"}, // вторник, не применяется
		}, nil)
		capacity.On("CountAttendeesBySlot", ctx, int64(1), monday).Return(map[domain.SlotKey]int{
			{Start: 480, End: 490}: 1,
		}, nil)

		slots, err := NewService(schedule, capacity, logger.Nop()).SlotsForDate(ctx, yoga, monday)

		require.NoError(t, err)
		// 08:00 (2 места), перерыв до 08:30, 08:30, 08:45 закрыт
		assert.Equal(t, []domain.Slot{
			{Start: 480, End: 490, Available: 2},
			{Start: 510, End: 520, Available: 3},
		}, slots)
		capacity.AssertNumberOfCalls(t, "CountAttendeesBySlot", 1)
	})

	t.Run("repository failure is internal", func(t *testing.T) {
		schedule := new(scheduleRepoMock)
		capacity := new(capacityRepoMock)
		schedule.On("GetScheduleTemplate", ctx, int64(1), 1).Return(nil, errors.New("connection reset"))

		_, err := NewService(schedule, capacity, logger.Nop()).SlotsForDate(ctx, yoga, monday)

		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestService_GridForDate_IncludesFullSlots(t *testing.T) {
	ctx := context.Background()
	schedule := new(scheduleRepoMock)
	capacity := new(capacityRepoMock)
	schedule.On("GetScheduleTemplate", ctx, int64(1), 1).Return(mondayTemplate, nil)
	schedule.On("ListPlannedOffs", ctx, int64(1), monday).Return(nil, nil)
	schedule.On("ListBreaks", ctx, int64(1)).Return(nil, nil)
	capacity.On("CountAttendeesBySlot", ctx, int64(1), monday).Return(map[domain.SlotKey]int{
		{Start: 480, End: 490}: 3,
	}, nil)

	svc := NewService(schedule, capacity, logger.Nop())

	grid, err := svc.GridForDate(ctx, yoga, monday)
	require.NoError(t, err)
	require.NotEmpty(t, grid)
	assert.Equal(t, domain.Slot{Start: 480, End: 490, Available: 0}, grid[0])

	slots, err := svc.SlotsForDate(ctx, yoga, monday)
	require.NoError(t, err)
	assert.Equal(t, 495, slots[0].Start)
}

func TestService_SlotsForDate_InvalidServiceConfiguration(t *testing.T) {
	schedule := new(scheduleRepoMock)
	capacity := new(capacityRepoMock)
	broken := *yoga
	broken.MaxClientsPerSlot = 0

	_, err := NewService(schedule, capacity, logger.Nop()).SlotsForDate(context.Background(), &broken, monday)

	assert.ErrorIs(t, err, ErrInvalidSchedule)
	assert.ErrorIs(t, err, domain.ErrInvalidService)
	schedule.AssertNotCalled(t, "GetScheduleTemplate", mock.Anything, mock.Anything, mock.Anything)
}
