package get_availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/FGV-BookingService/internal/domain"
)

// ErrInternal - внутренняя ошибка
var ErrInternal = errors.New("internal error")

// UseCase use case для чтения доступности сада
type UseCase struct {
	scheduleRepo ScheduleRepository
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(scheduleRepo ScheduleRepository, bookingRepo BookingRepository, logger Logger) *UseCase {
	return &UseCase{
		scheduleRepo: scheduleRepo,
		bookingRepo:  bookingRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute собирает свободные слоты начиная с запрошенной даты, но не раньше
// сегодняшнего дня. Слот попадает в выдачу, только если он не legacy и оба
// потолка строго не выбраны. Дни без единого свободного слота опускаются целиком.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	now := uc.timeProvider.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !req.From.IsZero() {
		requested := time.Date(req.From.Year(), req.From.Month(), req.From.Day(), 0, 0, 0, 0, time.UTC)
		if requested.After(from) {
			from = requested
		}
	}

	openDays, err := uc.scheduleRepo.ListOpenDaysFrom(ctx, from)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list open days: %v", err)
		return nil, fmt.Errorf("%w: failed to list open days: %v", ErrInternal, err)
	}

	slots, err := uc.scheduleRepo.ListActiveSlotsFrom(ctx, from)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	usageEntries, err := uc.bookingRepo.ListSlotUsageFrom(ctx, from)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list slot usage: %v", err)
		return nil, fmt.Errorf("%w: failed to list slot usage: %v", ErrInternal, err)
	}

	usage := make(map[string]domain.SlotUsage, len(usageEntries))
	for _, entry := range usageEntries {
		usage[usageKey(entry.Date, entry.Label)] = entry.Usage
	}

	openDates := make(map[string]struct{}, len(openDays))
	for _, day := range openDays {
		openDates[day.Date.Format(domain.DateFormat)] = struct{}{}
	}

	var until time.Time
	if req.Days > 0 {
		until = from.AddDate(0, 0, req.Days)
	}

	byDate := make(map[string][]SlotAvailability)
	for _, slot := range slots {
		if !until.IsZero() && slot.Date.After(until) {
			continue
		}

		dateKey := slot.Date.Format(domain.DateFormat)
		if _, open := openDates[dateKey]; !open {
			continue
		}

		slotUsage := usage[usageKey(slot.Date, slot.Label)]
		if !slot.IsAvailable(slotUsage) {
			continue
		}

		byDate[dateKey] = append(byDate[dateKey], SlotAvailability{
			TimeLabel:         string(slot.Label),
			RemainingBookings: slot.MaxBookings - slotUsage.BookingCount,
			RemainingBouquets: slot.MaxBouquets - slotUsage.BouquetCount,
		})
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	resp := &Response{Days: make([]DayAvailability, 0, len(dates))}
	for _, date := range dates {
		resp.Days = append(resp.Days, DayAvailability{Date: date, Slots: byDate[date]})
	}

	return resp, nil
}

func usageKey(date time.Time, label domain.TimeLabel) string {
	return date.Format(domain.DateFormat) + "/" + string(label)
}
