package domain

import "time"

// OpenDay материализованный календарный день
// IsOpen - кэш результата оценки правил на момент последней материализации,
// на чтении заново не вычисляется
type OpenDay struct {
	Date      time.Time
	IsOpen    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
