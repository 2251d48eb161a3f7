package bookings

import "errors"

var (
	// ErrBookingNotFound - бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")
	// ErrAlreadyCancelled - бронирование уже отменено
	ErrAlreadyCancelled = errors.New("booking already cancelled")
	// ErrInvalidInput - некорректные входные данные
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal        - внутренняя ошибка сервиса
	ErrInternal = errors.New("internal service error")
)
