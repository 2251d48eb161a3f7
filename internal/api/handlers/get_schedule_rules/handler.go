package get_schedule_rules

import (
	"errors"
	"net/http"

	"github.com/m04kA/FGV-BookingService/internal/api/handlers"
	"github.com/m04kA/FGV-BookingService/internal/service/rules"
)

const msgRulesNotConfigured = "правила расписания ещё не заданы"

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

// Handle GET /api/v1/admin/schedule-rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetRules(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrRulesNotConfigured):
			h.logger.Warn("GET /admin/schedule-rules - Rules not configured")
			handlers.RespondNotFound(w, msgRulesNotConfigured)
		default:
			h.logger.Error("GET /admin/schedule-rules - Failed to get rules: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainRules(result))
}
