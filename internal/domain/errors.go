package domain

import "errors"

// ErrInvalidRules возвращается при попытке использовать
// неполный или некорректный набор правил расписания
var ErrInvalidRules = errors.New("domain: invalid schedule rules")
