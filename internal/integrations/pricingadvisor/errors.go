package pricingadvisor

import "errors"

var (
	// ErrNoAdvice возвращается, когда советник не дал рекомендации (204)
	ErrNoAdvice = errors.New("pricingadvisor client: no advice")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("pricingadvisor client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("pricingadvisor client: invalid response")
)
