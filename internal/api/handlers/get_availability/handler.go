package get_availability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/FGV-BookingService/internal/api/handlers"
	"github.com/m04kA/FGV-BookingService/internal/domain"
	getAvailability "github.com/m04kA/FGV-BookingService/internal/usecase/get_availability"
)

const (
	msgInvalidDays = "некорректное значение параметра days"
	msgInvalidFrom = "некорректный формат параметра from, ожидается YYYY-MM-DD"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability?from=YYYY-MM-DD&days=N
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.logger.Warn("GET /availability - Invalid days param: %s", raw)
			handlers.RespondBadRequest(w, msgInvalidDays)
			return
		}
		days = parsed
	}

	var from time.Time
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /availability - Invalid from param: %s", raw)
			handlers.RespondBadRequest(w, msgInvalidFrom)
			return
		}
		from = parsed
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{From: from, Days: days})
	if err != nil {
		h.logger.Error("GET /availability - Failed to get availability: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
