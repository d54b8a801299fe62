package pricingadvisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент внешнего советника по ценам
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента советника
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Advise запрашивает корректировку цены для контекста
// Возвращает ErrNoAdvice, если советнику нечего предложить
func (c *Client) Advise(ctx context.Context, advice *AdviceRequest) (float64, error) {
	url := fmt.Sprintf("%s/v1/advise", c.baseURL)

	body, err := json.Marshal(advice)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNoContent:
		return 0, ErrNoAdvice
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	var parsed AdviceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if parsed.Adjustment == nil {
		return 0, ErrNoAdvice
	}
	if math.IsNaN(*parsed.Adjustment) || math.IsInf(*parsed.Adjustment, 0) {
		return 0, fmt.Errorf("%w: adjustment is not a finite number", ErrInvalidResponse)
	}

	c.log.Info("Advise: property_id=%d adjustment=%.4f", advice.PropertyID, *parsed.Adjustment)
	return *parsed.Adjustment, nil
}
