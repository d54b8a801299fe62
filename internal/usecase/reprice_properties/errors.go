package reprice_properties

import "errors"

var (
	// ErrInternal возвращается, когда не удалось получить список объектов
	ErrInternal = errors.New("reprice_properties: internal error")
)
