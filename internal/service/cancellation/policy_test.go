package cancellation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

func TestComputeRefund_Boundaries(t *testing.T) {
	checkIn := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		cancelledAt time.Time
		wantPct     int
		wantAmount  float64
	}{
		{"exactly at window", checkIn.Add(-48 * time.Hour), 100, 1000},
		{"well before window", checkIn.Add(-30 * 24 * time.Hour), 100, 1000},
		{"just inside window", checkIn.Add(-48*time.Hour + time.Nanosecond), 50, 500},
		{"one hour before check-in", checkIn.Add(-time.Hour), 50, 500},
		{"at check-in", checkIn, 50, 500},
		{"after check-in", checkIn.Add(time.Second), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refund := ComputeRefund(1000, checkIn, tt.cancelledAt, 48)
			assert.Equal(t, tt.wantPct, refund.Percentage)
			assert.InDelta(t, tt.wantAmount, refund.Amount, 1e-9)
		})
	}
}

func TestComputeRefund_RoundsToCents(t *testing.T) {
	checkIn := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	refund := ComputeRefund(250.25, checkIn, checkIn.Add(-time.Hour), 48)
	assert.Equal(t, 50, refund.Percentage)
	assert.InDelta(t, 125.13, refund.Amount, 1e-9)
}

func TestComputeRefund_ZeroWindow(t *testing.T) {
	checkIn := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, 100, ComputeRefund(100, checkIn, checkIn, 0).Percentage)
	assert.Equal(t, 0, ComputeRefund(100, checkIn, checkIn.Add(time.Minute), 0).Percentage)
}

func TestPolicy_UsesCheckInHour(t *testing.T) {
	policy := NewPolicy(48, 15)
	r := &domain.Reservation{
		CheckIn:    time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		TotalPrice: 600,
	}

	assert.Equal(t, time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC), policy.CheckInInstant(r.CheckIn))
	assert.Equal(t, 100, policy.Refund(r, time.Date(2026, 3, 8, 15, 0, 0, 0, time.UTC)).Percentage)
	assert.Equal(t, 50, policy.Refund(r, time.Date(2026, 3, 8, 15, 0, 1, 0, time.UTC)).Percentage)
}
