package reschedule_booking

import "errors"

var (
	// ErrInvalidInput - некорректные входные данные
	ErrInvalidInput = errors.New("invalid input")
	// ErrBookingNotFound - бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")
	// ErrBookingCancelled - отменённое бронирование нельзя перенести
	ErrBookingCancelled = errors.New("booking is cancelled")
	// ErrPastDate - новая дата визита в прошлом
	ErrPastDate = errors.New("visit date is in the past")
	// ErrSlotNotFound - целевой слот не найден или больше не принимает бронирования
	ErrSlotNotFound = errors.New("target time slot not found")
	// ErrTargetCapacityExceeded - в целевом слоте нет места
	ErrTargetCapacityExceeded = errors.New("target slot has no capacity")
	// ErrSlotBusy - слот занят конкурентной операцией, нужно повторить запрос
	ErrSlotBusy = errors.New("slot is busy, please retry")
	// ErrInternal                - внутренняя ошибка
	ErrInternal = errors.New("internal error")
)
