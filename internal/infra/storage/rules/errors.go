package rules

import "errors"

var (
	// ErrRulesNotFound возвращается, когда правила расписания ещё не настроены
	ErrRulesNotFound = errors.New("rules.repository: schedule rules not found")

	// ErrHolidayNotFound возвращается, когда праздник не найден
	ErrHolidayNotFound = errors.New("rules.repository: holiday not found")

	// ErrHolidayExists возвращается при попытке создать праздник на уже занятую дату
	ErrHolidayExists = errors.New("rules.repository: holiday already exists for this date")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("rules.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("rules.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("rules.repository: failed to scan row")
)
