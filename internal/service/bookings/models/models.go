package models

import (
	"encoding/json"

	"github.com/m04kA/FGV-BookingService/internal/domain"
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                 int64   `json:"id"`
	Date               string  `json:"date"` // "2025-07-04"
	TimeLabel          string  `json:"timeLabel"`
	BouquetCount       int     `json:"bouquetCount"`
	Status             string  `json:"status"`
	CustomerName       string  `json:"customerName"`
	CustomerPhone      string  `json:"customerPhone"`
	CustomerEmail      *string `json:"customerEmail,omitempty"`
	Notes              *string `json:"notes,omitempty"`
	CancellationToken  string  `json:"cancellationToken"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
}

// AuditEntryResponse запись журнала бронирования
type AuditEntryResponse struct {
	ID        int64           `json:"id"`
	BookingID int64           `json:"bookingId"`
	Action    string          `json:"action"`
	Actor     string          `json:"actor"`
	Details   json.RawMessage `json:"details"`
	CreatedAt string          `json:"createdAt"`
}

// AuditTrailResponse ответ с журналом бронирования
type AuditTrailResponse struct {
	Entries []*AuditEntryResponse `json:"entries"`
	Total   int                   `json:"total"`
}

// FromDomainBooking конвертирует domain модель в response
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:                 b.ID,
		Date:               b.Date.Format(domain.DateFormat),
		TimeLabel:          string(b.Label),
		BouquetCount:       b.BouquetCount,
		Status:             string(b.Status),
		CustomerName:       b.CustomerName,
		CustomerPhone:      b.CustomerPhone,
		CustomerEmail:      b.CustomerEmail,
		Notes:              b.Notes,
		CancellationToken:  b.CancellationToken,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:          b.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if b.CancelledAt != nil {
		cancelledAt := b.CancelledAt.Format("2006-01-02T15:04:05Z07:00")
		resp.CancelledAt = &cancelledAt
	}
	return resp
}

// FromDomainBookings конвертирует список domain моделей в response
func FromDomainBookings(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]*BookingResponse, 0, len(bookings)),
		Total:    len(bookings),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, FromDomainBooking(b))
	}
	return resp
}

// FromDomainAuditEntries конвертирует журнал в response
func FromDomainAuditEntries(entries []*domain.AuditEntry) *AuditTrailResponse {
	resp := &AuditTrailResponse{
		Entries: make([]*AuditEntryResponse, 0, len(entries)),
		Total:   len(entries),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, &AuditEntryResponse{
			ID:        e.ID,
			BookingID: e.BookingID,
			Action:    string(e.Action),
			Actor:     e.Actor,
			Details:   e.Details,
			CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return resp
}
