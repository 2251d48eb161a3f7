package create_holiday

import (
	"time"

	"github.com/m04kA/FGV-BookingService/internal/domain"
)

// CreateHolidayRequest HTTP request model
type CreateHolidayRequest struct {
	Date  string `json:"date"` // "2025-07-04"
	Title string `json:"title"`
}

// HolidayResponse HTTP response model
type HolidayResponse struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	Title     string `json:"title"`
	Disabled  bool   `json:"disabled"`
	CreatedAt string `json:"createdAt"`
}

// FromDomainHoliday конвертирует domain модель в HTTP response
func FromDomainHoliday(h *domain.Holiday) *HolidayResponse {
	return &HolidayResponse{
		ID:        h.ID,
		Date:      h.Date.Format(domain.DateFormat),
		Title:     h.Title,
		Disabled:  h.Disabled,
		CreatedAt: h.CreatedAt.Format(time.RFC3339),
	}
}
