package disable_holiday

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/FGV-BookingService/internal/api/handlers"
	"github.com/m04kA/FGV-BookingService/internal/service/rules"
)

const (
	msgInvalidHolidayID = "некорректный идентификатор праздника"
	msgHolidayNotFound  = "праздник не найден"
)

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

// Handle POST /api/v1/admin/holidays/{id}/disable
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		h.logger.Warn("POST /admin/holidays/{id}/disable - Invalid id: %s", mux.Vars(r)["id"])
		handlers.RespondBadRequest(w, msgInvalidHolidayID)
		return
	}

	if err := h.service.DisableHoliday(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, rules.ErrHolidayNotFound):
			h.logger.Warn("POST /admin/holidays/{id}/disable - Holiday not found: id=%d", id)
			handlers.RespondNotFound(w, msgHolidayNotFound)
		default:
			h.logger.Error("POST /admin/holidays/{id}/disable - Failed to disable holiday: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/holidays/{id}/disable - Holiday disabled: id=%d", id)
	w.WriteHeader(http.StatusNoContent)
}
