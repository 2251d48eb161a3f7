package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/FGV-BookingService/internal/api/handlers"
	createBooking "github.com/m04kA/FGV-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDate         = "некорректный формат даты визита, ожидается YYYY-MM-DD"
	msgPastDate            = "дата визита уже прошла"
	msgSlotNotFound        = "временной слот не найден"
	msgBookingLimitReached = "в этом слоте не осталось мест"
	msgBouquetLimitReached = "в этом слоте не осталось букетов"
	msgSlotBusy            = "слот занят другой операцией, повторите запрос"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createBooking.ErrPastDate):
			h.logger.Warn("POST /bookings - Past date: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, createBooking.ErrSlotNotFound):
			h.logger.Warn("POST /bookings - Slot not found: date=%s, label=%s", req.Date, req.TimeLabel)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, createBooking.ErrBookingLimitReached):
			h.logger.Warn("POST /bookings - Booking limit reached: date=%s, label=%s", req.Date, req.TimeLabel)
			handlers.RespondError(w, http.StatusConflict, msgBookingLimitReached)

		case errors.Is(err, createBooking.ErrBouquetLimitReached):
			h.logger.Warn("POST /bookings - Bouquet limit reached: date=%s, label=%s", req.Date, req.TimeLabel)
			handlers.RespondError(w, http.StatusConflict, msgBouquetLimitReached)

		case errors.Is(err, createBooking.ErrSlotBusy):
			h.logger.Warn("POST /bookings - Slot busy: date=%s, label=%s", req.Date, req.TimeLabel)
			handlers.RespondError(w, http.StatusConflict, msgSlotBusy)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: date=%s, label=%s, error=%v",
				req.Date, req.TimeLabel, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, date=%s, label=%s",
		result.ID, req.Date, req.TimeLabel)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
