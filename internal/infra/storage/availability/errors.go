package availability

import "errors"

var (
	// ErrUnsupportedAction возвращается для действия правила без соответствующей колонки
	ErrUnsupportedAction = errors.New("availability.repository: unsupported rule action")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("availability.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("availability.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("availability.repository: failed to scan row")
)
