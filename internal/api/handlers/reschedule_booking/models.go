package reschedule_booking

import (
	"time"

	"github.com/m04kA/FGV-BookingService/internal/domain"
	rescheduleBooking "github.com/m04kA/FGV-BookingService/internal/usecase/reschedule_booking"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	NewDate      string  `json:"newDate"` // "2025-07-11"
	NewTimeLabel string  `json:"newTimeLabel"`
	Reason       *string `json:"reason,omitempty"`
}

// RescheduleBookingResponse HTTP response model
type RescheduleBookingResponse struct {
	ID           int64  `json:"id"`
	Date         string `json:"date"`
	TimeLabel    string `json:"timeLabel"`
	BouquetCount int    `json:"bouquetCount"`
	Status       string `json:"status"`
	Moved        bool   `json:"moved"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleBookingRequest) ToUseCaseRequest(bookingID int64, actor string) (*rescheduleBooking.Request, error) {
	newDate, err := time.Parse(domain.DateFormat, r.NewDate)
	if err != nil {
		return nil, err
	}

	return &rescheduleBooking.Request{
		BookingID: bookingID,
		NewDate:   newDate,
		NewLabel:  domain.TimeLabel(r.NewTimeLabel),
		Actor:     actor,
		Reason:    r.Reason,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response) *RescheduleBookingResponse {
	return &RescheduleBookingResponse{
		ID:           resp.ID,
		Date:         resp.Date.Format(domain.DateFormat),
		TimeLabel:    string(resp.TimeLabel),
		BouquetCount: resp.BouquetCount,
		Status:       resp.Status,
		Moved:        resp.Moved,
	}
}
