package create_holiday

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/FGV-BookingService/internal/api/handlers"
	"github.com/m04kA/FGV-BookingService/internal/domain"
	"github.com/m04kA/FGV-BookingService/internal/service/rules"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgHolidayExists      = "праздник на эту дату уже существует"
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

// Handle POST /api/v1/admin/holidays
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/holidays - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		h.logger.Warn("POST /admin/holidays - Invalid date: %s", req.Date)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.CreateHoliday(r.Context(), date, req.Title)
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrInvalidHoliday):
			h.logger.Warn("POST /admin/holidays - Invalid holiday: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, rules.ErrHolidayExists):
			h.logger.Warn("POST /admin/holidays - Holiday exists: date=%s", req.Date)
			handlers.RespondError(w, http.StatusConflict, msgHolidayExists)

		default:
			h.logger.Error("POST /admin/holidays - Failed to create holiday: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/holidays - Holiday created: id=%d, date=%s", result.ID, req.Date)
	handlers.RespondJSON(w, http.StatusCreated, FromDomainHoliday(result))
}
