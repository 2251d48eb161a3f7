package update_schedule_rules

import (
	"errors"
	"net/http"

	"github.com/m04kA/FGV-BookingService/internal/api/handlers"
	"github.com/m04kA/FGV-BookingService/internal/service/rules"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRules       = "некорректные правила расписания"
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

// Handle PUT /api/v1/admin/schedule-rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req UpdateScheduleRulesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/schedule-rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	domainRules, err := req.ToDomainRules()
	if err != nil {
		h.logger.Warn("PUT /admin/schedule-rules - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRules)
		return
	}

	result, err := h.service.UpdateRules(r.Context(), domainRules)
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrInvalidRules):
			h.logger.Warn("PUT /admin/schedule-rules - Invalid rules: %v", err)
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("PUT /admin/schedule-rules - Failed to update rules: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/schedule-rules - Rules updated")
	handlers.RespondJSON(w, http.StatusOK, FromDomainRules(result))
}
