package list_holidays

import (
	"net/http"
	"time"

	"github.com/m04kA/FGV-BookingService/internal/api/handlers"
	"github.com/m04kA/FGV-BookingService/internal/domain"
)

// HolidayResponse HTTP response model
type HolidayResponse struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	Title     string `json:"title"`
	Disabled  bool   `json:"disabled"`
	CreatedAt string `json:"createdAt"`
}

// HolidayListResponse HTTP response model со списком праздников
type HolidayListResponse struct {
	Holidays []*HolidayResponse `json:"holidays"`
	Total    int                `json:"total"`
}

type Handler struct {
	service RulesService
	logger  Logger
}

func NewHandler(service RulesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/holidays?includeDisabled=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	includeDisabled := r.URL.Query().Get("includeDisabled") == "true"

	holidays, err := h.service.ListHolidays(r.Context(), includeDisabled)
	if err != nil {
		h.logger.Error("GET /admin/holidays - Failed to list holidays: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	resp := &HolidayListResponse{
		Holidays: make([]*HolidayResponse, 0, len(holidays)),
		Total:    len(holidays),
	}
	for _, holiday := range holidays {
		resp.Holidays = append(resp.Holidays, &HolidayResponse{
			ID:        holiday.ID,
			Date:      holiday.Date.Format(domain.DateFormat),
			Title:     holiday.Title,
			Disabled:  holiday.Disabled,
			CreatedAt: holiday.CreatedAt.Format(time.RFC3339),
		})
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
