package create_booking

import "errors"

var (
	// ErrInvalidInput - некорректные входные данные
	ErrInvalidInput = errors.New("invalid input")
	// ErrPastDate - дата визита в прошлом
	ErrPastDate = errors.New("visit date is in the past")
	// ErrSlotNotFound - слот не найден или больше не принимает бронирования
	ErrSlotNotFound = errors.New("time slot not found")
	// ErrBookingLimitReached - достигнут лимит бронирований на слот
	ErrBookingLimitReached = errors.New("booking limit reached for this slot")
	// ErrBouquetLimitReached - достигнут лимит букетов на слот
	ErrBouquetLimitReached = errors.New("bouquet limit reached for this slot")
	// ErrSlotBusy - слот занят конкурентной операцией, нужно повторить запрос
	ErrSlotBusy = errors.New("slot is busy, please retry")
	// ErrInternal               - внутренняя ошибка
	ErrInternal = errors.New("internal error")
)
