package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/FGV-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/FGV-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/FGV-BookingService/internal/service/bookings/models"
)

// ActorCustomer актор записей журнала для действий посетителя
const ActorCustomer = "customer"

// Service сервис для работы с существующими бронированиями
type Service struct {
	bookingRepo BookingRepository
	auditRepo   AuditRepository
	txManager   TxManager
	notifier    Notifier
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	auditRepo AuditRepository,
	txManager TxManager,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		notifier:    notifier,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	booking, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(booking), nil
}

// GetByToken получает бронирование по токену отмены
func (s *Service) GetByToken(ctx context.Context, token string) (*models.BookingResponse, error) {
	booking, err := s.getByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(booking), nil
}

// CancelByToken отменяет бронирование по токену отмены (действие посетителя)
func (s *Service) CancelByToken(ctx context.Context, token string, reason *string) (*models.BookingResponse, error) {
	booking, err := s.getByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, booking, ActorCustomer, reason)
}

// CancelByID отменяет бронирование по ID от имени администратора
func (s *Service) CancelByID(ctx context.Context, id int64, actor string, reason *string) (*models.BookingResponse, error) {
	booking, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, booking, actor, reason)
}

// ListDayBookings возвращает бронирования на указанную дату
func (s *Service) ListDayBookings(ctx context.Context, date time.Time, includeCancelled bool) (*models.BookingListResponse, error) {
	list, err := s.bookingRepo.ListByDate(ctx, date, includeCancelled)
	if err != nil {
		s.logger.Error("ListDayBookings: repository error for date=%s: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: ListDayBookings - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainBookings(list), nil
}

// GetAuditTrail возвращает журнал переходов бронирования в порядке записи
func (s *Service) GetAuditTrail(ctx context.Context, bookingID int64) (*models.AuditTrailResponse, error) {
	if _, err := s.getByID(ctx, bookingID); err != nil {
		return nil, err
	}

	entries, err := s.auditRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		s.logger.Error("GetAuditTrail: repository error for booking=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetAuditTrail - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainAuditEntries(entries), nil
}

// cancel переводит бронирование в cancelled и пишет запись журнала в одной
// транзакции. Повторная отмена возвращает ErrAlreadyCancelled, место при этом
// не освобождается дважды.
func (s *Service) cancel(ctx context.Context, booking *domain.Booking, actor string, reason *string) (*models.BookingResponse, error) {
	if booking.IsCancelled() {
		s.logger.Warn("cancel: booking id=%d already cancelled", booking.ID)
		return nil, fmt.Errorf("%w: booking id=%d", ErrAlreadyCancelled, booking.ID)
	}

	cancelReason := ""
	if reason != nil {
		cancelReason = strings.TrimSpace(*reason)
		if len(cancelReason) > domain.MaxCancellationReasonLength {
			return nil, fmt.Errorf("%w: cancellation reason too long", ErrInvalidInput)
		}
	}

	before := domain.SnapshotOf(booking)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.Cancel(txCtx, booking.ID, cancelReason); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return fmt.Errorf("%w: booking id=%d", ErrAlreadyCancelled, booking.ID)
			}
			return fmt.Errorf("%w: cancel - repository error: %v", ErrInternal, err)
		}

		booking.Status = domain.StatusCancelled
		after := domain.SnapshotOf(booking)

		details, err := domain.AuditDetails{Before: &before, After: &after, Reason: reason}.Marshal()
		if err != nil {
			return fmt.Errorf("%w: cancel - marshal audit details: %v", ErrInternal, err)
		}

		if _, err := s.auditRepo.Append(txCtx, &domain.AuditEntry{
			BookingID: booking.ID,
			Action:    domain.AuditActionCancelled,
			Actor:     actor,
			Details:   details,
		}); err != nil {
			return fmt.Errorf("%w: cancel - append audit: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.getByID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking cancelled: id=%d actor=%s", booking.ID, actor)
	s.notifier.BookingCancelled(updated)

	return models.FromDomainBooking(updated), nil
}

func (s *Service) getByID(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("getByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: getByID - repository error: %v", ErrInternal, err)
	}
	return booking, nil
}

func (s *Service) getByToken(ctx context.Context, token string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("booking with token not found")
			return nil, ErrBookingNotFound
		}
		s.logger.Error("getByToken: repository error: %v", err)
		return nil, fmt.Errorf("%w: getByToken - repository error: %v", ErrInternal, err)
	}
	return booking, nil
}
