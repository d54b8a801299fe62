package pricingadvisor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestClient_Advise(t *testing.T) {
	var got AdviceRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/advise", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"adjustment": 0.12}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nopLogger{})
	adj, err := client.Advise(context.Background(), &AdviceRequest{PropertyID: 7, City: "Salvador"})

	require.NoError(t, err)
	assert.InDelta(t, 0.12, adj, 1e-9)
	assert.Equal(t, int64(7), got.PropertyID)
	assert.Equal(t, "Salvador", got.City)
}

func TestClient_Advise_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"no content", http.StatusNoContent, "", ErrNoAdvice},
		{"null adjustment", http.StatusOK, `{"adjustment": null}`, ErrNoAdvice},
		{"server error", http.StatusInternalServerError, "boom", ErrInvalidResponse},
		{"broken json", http.StatusOK, "{", ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second, nopLogger{}).Advise(context.Background(), &AdviceRequest{})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_Advise_Unreachable(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1", 100*time.Millisecond, nopLogger{}).
		Advise(context.Background(), &AdviceRequest{})
	assert.ErrorIs(t, err, ErrInternal)
}
