package conflicts

import "errors"

var (
	// ErrInvalidRange возвращается, когда checkOut не позже checkIn
	ErrInvalidRange = errors.New("conflicts: check-out must be after check-in")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("conflicts: internal error")
)
