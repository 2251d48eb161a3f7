package reschedule_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/FGV-BookingService/internal/api/handlers"
	rescheduleBooking "github.com/m04kA/FGV-BookingService/internal/usecase/reschedule_booking"
)

const (
	actorAdmin = "admin"

	msgInvalidBookingID       = "некорректный идентификатор бронирования"
	msgInvalidRequestBody     = "некорректное тело запроса"
	msgInvalidDate            = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgPastDate               = "новая дата визита уже прошла"
	msgBookingNotFound        = "бронирование не найдено"
	msgBookingCancelled       = "отменённое бронирование нельзя перенести"
	msgSlotNotFound           = "целевой временной слот не найден"
	msgTargetCapacityExceeded = "в целевом слоте нет места"
	msgSlotBusy               = "слот занят другой операцией, повторите запрос"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/bookings/{id}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		h.logger.Warn("POST /admin/bookings/{id}/reschedule - Invalid id: %s", mux.Vars(r)["id"])
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req RescheduleBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/bookings/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(id, actorAdmin)
	if err != nil {
		h.logger.Warn("POST /admin/bookings/{id}/reschedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("POST /admin/bookings/{id}/reschedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, rescheduleBooking.ErrPastDate):
			h.logger.Warn("POST /admin/bookings/{id}/reschedule - Past date: %s", req.NewDate)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			h.logger.Warn("POST /admin/bookings/{id}/reschedule - Booking not found: id=%d", id)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, rescheduleBooking.ErrBookingCancelled):
			h.logger.Warn("POST /admin/bookings/{id}/reschedule - Booking cancelled: id=%d", id)
			handlers.RespondError(w, http.StatusConflict, msgBookingCancelled)

		case errors.Is(err, rescheduleBooking.ErrSlotNotFound):
			h.logger.Warn("POST /admin/bookings/{id}/reschedule - Target slot not found: date=%s, label=%s",
				req.NewDate, req.NewTimeLabel)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, rescheduleBooking.ErrTargetCapacityExceeded):
			h.logger.Warn("POST /admin/bookings/{id}/reschedule - Target capacity exceeded: date=%s, label=%s",
				req.NewDate, req.NewTimeLabel)
			handlers.RespondError(w, http.StatusConflict, msgTargetCapacityExceeded)

		case errors.Is(err, rescheduleBooking.ErrSlotBusy):
			h.logger.Warn("POST /admin/bookings/{id}/reschedule - Slot busy: id=%d", id)
			handlers.RespondError(w, http.StatusConflict, msgSlotBusy)

		default:
			h.logger.Error("POST /admin/bookings/{id}/reschedule - Failed to reschedule: id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/bookings/{id}/reschedule - Booking rescheduled: id=%d, moved=%t", result.ID, result.Moved)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
