package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/FGV-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/FGV-BookingService/internal/infra/storage/booking"
	scheduleRepo "github.com/m04kA/FGV-BookingService/internal/infra/storage/schedule"
	"github.com/m04kA/FGV-BookingService/pkg/txmanager"
)

// UseCase use case для переноса бронирования на другой слот
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	auditRepo    AuditRepository
	txManager    TransactionManager
	notifier     Notifier
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	auditRepo AuditRepository,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет перенос бронирования.
// Проверка вместимости целевого слота и перезапись даты идут в одной
// сериализуемой транзакции: бронирование либо остаётся на старом слоте,
// либо целиком переезжает на новый.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: id=%d, new_date=%s, new_label=%s",
		req.BookingID, req.NewDate.Format(domain.DateFormat), req.NewLabel)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	if err := validateDate(req.NewDate, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("RescheduleBooking: date %s is in the past", req.NewDate.Format(domain.DateFormat))
		return nil, err
	}

	var result *domain.Booking
	moved := false

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if booking.IsCancelled() {
			return ErrBookingCancelled
		}

		// Перенос на тот же слот - no-op
		if sameDay(booking.Date, req.NewDate) && booking.Label == req.NewLabel {
			uc.logger.Info("RescheduleBooking: id=%d already on target slot", req.BookingID)
			result = booking
			return nil
		}

		// Целевой слот с блокировкой (FOR UPDATE)
		slot, err := uc.scheduleRepo.GetSlotByDateAndLabel(txCtx, req.NewDate, req.NewLabel)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: failed to get target slot: %v", ErrInternal, err)
		}

		if slot.IsLegacy {
			return ErrSlotNotFound
		}

		usage, err := uc.bookingRepo.GetSlotUsage(txCtx, req.NewDate, req.NewLabel)
		if err != nil {
			return fmt.Errorf("%w: failed to get target slot usage: %v", ErrInternal, err)
		}

		if !slot.HasBookingCapacity(usage) || !slot.HasBouquetCapacity(usage, booking.BouquetCount) {
			uc.logger.Warn("RescheduleBooking: target slot full, bookings=%d/%d, bouquets=%d+%d/%d",
				usage.BookingCount, slot.MaxBookings, usage.BouquetCount, booking.BouquetCount, slot.MaxBouquets)
			return ErrTargetCapacityExceeded
		}

		before := domain.SnapshotOf(booking)

		if err := uc.bookingRepo.UpdateSchedule(txCtx, booking.ID, req.NewDate, req.NewLabel); err != nil {
			return fmt.Errorf("%w: failed to update booking schedule: %v", ErrInternal, err)
		}

		booking.Date = req.NewDate
		booking.Label = req.NewLabel
		after := domain.SnapshotOf(booking)

		details, err := domain.AuditDetails{Before: &before, After: &after, Reason: req.Reason}.Marshal()
		if err != nil {
			return fmt.Errorf("%w: failed to marshal audit details: %v", ErrInternal, err)
		}

		if _, err := uc.auditRepo.Append(txCtx, &domain.AuditEntry{
			BookingID: booking.ID,
			Action:    domain.AuditActionRescheduled,
			Actor:     req.Actor,
			Details:   details,
		}); err != nil {
			return fmt.Errorf("%w: failed to append audit: %v", ErrInternal, err)
		}

		result = booking
		moved = true
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("RescheduleBooking: serialization failure, slot is busy")
			return nil, ErrSlotBusy
		}
		return nil, err
	}

	if moved {
		uc.logger.Info("RescheduleBooking: id=%d moved to date=%s, label=%s",
			result.ID, result.Date.Format(domain.DateFormat), result.Label)
		uc.notifier.BookingRescheduled(result)
	}

	return toResponse(result, moved), nil
}

func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.NewDate.IsZero() {
		return fmt.Errorf("%w: newDate is required", ErrInvalidInput)
	}
	if strings.TrimSpace(string(req.NewLabel)) == "" {
		return fmt.Errorf("%w: newTimeLabel is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Actor) == "" {
		return fmt.Errorf("%w: actor is required", ErrInvalidInput)
	}
	if req.Reason != nil && len(*req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}
	return nil
}

func validateDate(visitDate time.Time, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	visit := time.Date(visitDate.Year(), visitDate.Month(), visitDate.Day(), 0, 0, 0, 0, time.UTC)
	if visit.Before(today) {
		return ErrPastDate
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
