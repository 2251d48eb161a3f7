package schedule

import "errors"

var (
	// ErrSlotNotFound возвращается, когда временной слот не найден
	ErrSlotNotFound = errors.New("schedule.repository: time slot not found")

	// ErrNoDays возвращается, когда расписание ещё не материализовано
	ErrNoDays = errors.New("schedule.repository: no materialized days")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
