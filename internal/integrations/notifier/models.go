package notifier

// Event типы отправляемых событий
const (
	EventBookingCreated     = "booking.created"
	EventBookingCancelled   = "booking.cancelled"
	EventBookingRescheduled = "booking.rescheduled"
)

// Payload тело webhook-уведомления
type Payload struct {
	Event         string  `json:"event"`
	BookingID     int64   `json:"bookingId"`
	Date          string  `json:"date"` // "2025-07-04"
	TimeLabel     string  `json:"timeLabel"`
	BouquetCount  int     `json:"bouquetCount"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
}
