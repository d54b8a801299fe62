package calendar

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных данных дня календаря
	ErrInvalidInput = errors.New("calendar: invalid input data")

	// ErrInvalidRange возвращается, когда конец диапазона раньше начала
	ErrInvalidRange = errors.New("calendar: invalid date range")

	// ErrRangeTooWide возвращается, когда диапазон превышает допустимую ширину
	ErrRangeTooWide = errors.New("calendar: date range is too wide")

	// ErrInvalidRule возвращается для правила, которое нельзя развернуть в даты
	ErrInvalidRule = errors.New("calendar: invalid calendar rule")

	// ErrPropertyNotFound возвращается, когда объект не найден
	ErrPropertyNotFound = errors.New("calendar: property not found")

	// ErrAccessDenied возвращается, когда пользователь не является хозяином объекта
	ErrAccessDenied = errors.New("calendar: access denied")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("calendar: internal error")
)
