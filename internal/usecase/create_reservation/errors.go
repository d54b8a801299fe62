package create_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrPropertyNotFound возвращается, когда объект не найден
	ErrPropertyNotFound = errors.New("create_reservation: property not found")

	// ErrPropertyInactive возвращается, когда объект снят с публикации
	ErrPropertyInactive = errors.New("create_reservation: property is not active")

	// ErrTooManyGuests возвращается, когда гостей больше вместимости объекта
	ErrTooManyGuests = errors.New("create_reservation: too many guests")

	// ErrStayTooShort возвращается, когда число ночей меньше минимального
	ErrStayTooShort = errors.New("create_reservation: stay is shorter than minimum")

	// ErrStayTooLong возвращается, когда число ночей больше максимального для объекта
	ErrStayTooLong = errors.New("create_reservation: stay is longer than maximum")

	// ErrAdvanceNotice возвращается, когда до заезда меньше требуемого числа часов
	ErrAdvanceNotice = errors.New("create_reservation: check-in requires more advance notice")

	// ErrDatesUnavailable возвращается, когда даты заняты бронированием или закрыты хозяином
	ErrDatesUnavailable = errors.New("create_reservation: dates are unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
