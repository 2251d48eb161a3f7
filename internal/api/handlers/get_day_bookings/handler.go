package get_day_bookings

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/FGV-BookingService/internal/api/handlers"
	"github.com/m04kA/FGV-BookingService/internal/domain"
)

const msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/days/{date}/bookings?includeCancelled=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["date"]
	date, err := time.Parse(domain.DateFormat, raw)
	if err != nil {
		h.logger.Warn("GET /admin/days/{date}/bookings - Invalid date: %s", raw)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	includeCancelled := r.URL.Query().Get("includeCancelled") == "true"

	result, err := h.service.ListDayBookings(r.Context(), date, includeCancelled)
	if err != nil {
		h.logger.Error("GET /admin/days/{date}/bookings - Failed to list bookings: date=%s, error=%v", raw, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
