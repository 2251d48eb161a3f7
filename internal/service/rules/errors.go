package rules

import "errors"

var (
	// ErrRulesNotConfigured - правила расписания не заданы
	ErrRulesNotConfigured = errors.New("schedule rules are not configured")
	// ErrInvalidRules - переданы некорректные правила расписания
	ErrInvalidRules = errors.New("invalid schedule rules")
	// ErrInvalidHoliday - переданы некорректные данные праздника
	ErrInvalidHoliday = errors.New("invalid holiday")
	// ErrHolidayNotFound - праздник не найден
	ErrHolidayNotFound = errors.New("holiday not found")
	// ErrHolidayExists - праздник на эту дату уже существует
	ErrHolidayExists = errors.New("holiday already exists")
	// ErrInternal            - внутренняя ошибка сервиса
	ErrInternal = errors.New("internal service error")
)
