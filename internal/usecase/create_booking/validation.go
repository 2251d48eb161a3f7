package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/FGV-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if strings.TrimSpace(string(req.TimeLabel)) == "" {
		return fmt.Errorf("%w: timeLabel is required", ErrInvalidInput)
	}

	if req.BouquetCount < domain.MinBouquetsPerBooking || req.BouquetCount > domain.MaxBouquetsPerBooking {
		return fmt.Errorf("%w: bouquetCount must be between %d and %d",
			ErrInvalidInput, domain.MinBouquetsPerBooking, domain.MaxBouquetsPerBooking)
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" || len(name) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customerName must be 1..%d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
	}

	if strings.TrimSpace(req.CustomerPhone) == "" {
		return fmt.Errorf("%w: customerPhone is required", ErrInvalidInput)
	}

	if req.CustomerEmail != nil && !strings.Contains(*req.CustomerEmail, "@") {
		return fmt.Errorf("%w: customerEmail is malformed", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата визита не в прошлом.
// Сравнение идёт по календарным дням: бронирование на сегодня допустимо.
func validateDate(visitDate time.Time, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	visit := time.Date(visitDate.Year(), visitDate.Month(), visitDate.Day(), 0, 0, 0, 0, time.UTC)

	if visit.Before(today) {
		return ErrPastDate
	}
	return nil
}
