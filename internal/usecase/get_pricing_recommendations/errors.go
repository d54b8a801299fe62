package get_pricing_recommendations

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_pricing_recommendations: invalid input data")

	// ErrRangeTooWide возвращается, когда диапазон дат шире допустимого
	ErrRangeTooWide = errors.New("get_pricing_recommendations: date range is too wide")

	// ErrPropertyNotFound возвращается, когда объект не найден
	ErrPropertyNotFound = errors.New("get_pricing_recommendations: property not found")

	// ErrAccessDenied возвращается, когда пользователь не является хозяином объекта
	ErrAccessDenied = errors.New("get_pricing_recommendations: access denied")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("get_pricing_recommendations: internal error")
)
