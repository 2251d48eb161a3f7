package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/FGV-BookingService/internal/domain"
	scheduleRepo "github.com/m04kA/FGV-BookingService/internal/infra/storage/schedule"
	"github.com/m04kA/FGV-BookingService/pkg/txmanager"
)

// UseCase use case для создания бронирования
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

// Execute выполняет use case создания бронирования
// Использует сериализуемую транзакцию: оба потолка слота (бронирования и
// букеты) проверяются и подтверждаются атомарно, овербукинг невозможен
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: date=%s, label=%s, bouquets=%d",
		req.Date.Format(domain.DateFormat), req.TimeLabel, req.BouquetCount)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата визита не должна быть в прошлом
	if err := validateDate(req.Date, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateBooking: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, err
	}

	var result *domain.Booking

	// 3. Проверка вместимости и запись - в одной сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Находим слот с блокировкой (FOR UPDATE)
		slot, err := uc.scheduleRepo.GetSlotByDateAndLabel(txCtx, req.Date, req.TimeLabel)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		// Legacy-слот существует только ради старых бронирований
		if slot.IsLegacy {
			return ErrSlotNotFound
		}

		// 3.2. Текущая загрузка слота по подтверждённым бронированиям
		usage, err := uc.bookingRepo.GetSlotUsage(txCtx, req.Date, req.TimeLabel)
		if err != nil {
			return fmt.Errorf("%w: failed to get slot usage: %v", ErrInternal, err)
		}

		// 3.3. Потолки проверяются независимо друг от друга
		if !slot.HasBookingCapacity(usage) {
			uc.logger.Warn("CreateBooking: booking limit reached, %d/%d", usage.BookingCount, slot.MaxBookings)
			return ErrBookingLimitReached
		}

		if !slot.HasBouquetCapacity(usage, req.BouquetCount) {
			uc.logger.Warn("CreateBooking: bouquet limit reached, %d+%d/%d",
				usage.BouquetCount, req.BouquetCount, slot.MaxBouquets)
			return ErrBouquetLimitReached
		}

		// 3.4. Создаем бронирование
		booking := &domain.Booking{
			Date:              req.Date,
			Label:             req.TimeLabel,
			BouquetCount:      req.BouquetCount,
			Status:            domain.StatusConfirmed,
			CustomerName:      strings.TrimSpace(req.CustomerName),
			CustomerPhone:     strings.TrimSpace(req.CustomerPhone),
			CustomerEmail:     req.CustomerEmail,
			Notes:             req.Notes,
			CancellationToken: uuid.NewString(),
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 3.5. Запись журнала в той же транзакции
		after := domain.SnapshotOf(created)
		details, err := domain.AuditDetails{After: &after}.Marshal()
		if err != nil {
			return fmt.Errorf("%w: failed to marshal audit details: %v", ErrInternal, err)
		}

		if _, err := uc.auditRepo.Append(txCtx, &domain.AuditEntry{
			BookingID: created.ID,
			Action:    domain.AuditActionCreated,
			Actor:     "customer",
			Details:   details,
		}); err != nil {
			return fmt.Errorf("%w: failed to append audit: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("CreateBooking: serialization failure, slot is busy")
			return nil, ErrSlotBusy
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking id=%d, date=%s, label=%s",
		result.ID, result.Date.Format(domain.DateFormat), result.Label)

	uc.notifier.BookingCreated(result)

	return toResponse(result), nil
}
