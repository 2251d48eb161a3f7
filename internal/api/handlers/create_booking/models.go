package create_booking

import (
	"time"

	"github.com/m04kA/FGV-BookingService/internal/domain"
	createBooking "github.com/m04kA/FGV-BookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Date          string  `json:"date"` // "2025-07-04"
	TimeLabel     string  `json:"timeLabel"`
	BouquetCount  int     `json:"bouquetCount"`
	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                int64   `json:"id"`
	Date              string  `json:"date"`
	TimeLabel         string  `json:"timeLabel"`
	BouquetCount      int     `json:"bouquetCount"`
	Status            string  `json:"status"`
	CustomerName      string  `json:"customerName"`
	CustomerPhone     string  `json:"customerPhone"`
	CustomerEmail     *string `json:"customerEmail,omitempty"`
	Notes             *string `json:"notes,omitempty"`
	CancellationToken string  `json:"cancellationToken"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		Date:          date,
		TimeLabel:     domain.TimeLabel(r.TimeLabel),
		BouquetCount:  r.BouquetCount,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                resp.ID,
		Date:              resp.Date.Format(domain.DateFormat),
		TimeLabel:         string(resp.TimeLabel),
		BouquetCount:      resp.BouquetCount,
		Status:            resp.Status,
		CustomerName:      resp.CustomerName,
		CustomerPhone:     resp.CustomerPhone,
		CustomerEmail:     resp.CustomerEmail,
		Notes:             resp.Notes,
		CancellationToken: resp.CancellationToken,
		CreatedAt:         resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         resp.UpdatedAt.Format(time.RFC3339),
	}
}
