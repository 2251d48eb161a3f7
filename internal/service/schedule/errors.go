package schedule

import "errors"

var (
	// ErrRulesNotConfigured - правила расписания не заданы
	ErrRulesNotConfigured = errors.New("schedule rules are not configured")
	// ErrInvalidRules - правила расписания вырождены, материализация невозможна
	ErrInvalidRules = errors.New("schedule rules are invalid")
	// ErrInternal                   - внутренняя ошибка сервиса
	ErrInternal = errors.New("internal service error")
)
