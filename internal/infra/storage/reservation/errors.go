package reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrOverlap возвращается, когда даты пересекаются с другим блокирующим бронированием
	// (нарушение ограничения reservations_no_overlap)
	ErrOverlap = errors.New("reservation.repository: reservation overlaps another one")

	// ErrLock возвращается при ошибке взятия advisory lock
	ErrLock = errors.New("reservation.repository: failed to acquire property lock")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
