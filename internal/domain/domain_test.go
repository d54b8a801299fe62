package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRangesOverlap_HalfOpen(t *testing.T) {
	tests := []struct {
		name           string
		a1, a2, b1, b2 string
		want           bool
	}{
		{"identical", "2026-03-01", "2026-03-04", "2026-03-01", "2026-03-04", true},
		{"partial", "2026-03-01", "2026-03-04", "2026-03-03", "2026-03-06", true},
		{"contained", "2026-03-01", "2026-03-10", "2026-03-03", "2026-03-04", true},
		{"checkout equals checkin", "2026-03-01", "2026-03-04", "2026-03-04", "2026-03-06", false},
		{"checkin equals checkout", "2026-03-04", "2026-03-06", "2026-03-01", "2026-03-04", false},
		{"disjoint", "2026-03-01", "2026-03-02", "2026-03-05", "2026-03-06", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RangesOverlap(date(tt.a1), date(tt.a2), date(tt.b1), date(tt.b2)))
		})
	}
}

func TestReservationStatus_IsBlocking(t *testing.T) {
	assert.True(t, StatusPending.IsBlocking())
	assert.True(t, StatusConfirmed.IsBlocking())
	assert.True(t, StatusInProgress.IsBlocking())
	assert.False(t, StatusCompleted.IsBlocking())
	assert.False(t, StatusCancelled.IsBlocking())
	assert.False(t, StatusNoShow.IsBlocking())
}

func TestDatesInRange(t *testing.T) {
	dates := DatesInRange(date("2026-02-27"), date("2026-03-02"))
	require.Len(t, dates, 4)
	assert.Equal(t, date("2026-02-27"), dates[0])
	assert.Equal(t, date("2026-03-02"), dates[3])

	assert.Empty(t, DatesInRange(date("2026-03-02"), date("2026-03-01")))
}

func TestTruncateToDay_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	in := time.Date(2026, 1, 10, 22, 30, 0, 0, loc)

	assert.Equal(t, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), TruncateToDay(in))
}

func TestParseRuleAction(t *testing.T) {
	v := func(f float64) *float64 { return &f }

	action, err := ParseRuleAction("block", nil)
	require.NoError(t, err)
	assert.Equal(t, BlockAction{}, action)

	action, err = ParseRuleAction("PRICE", v(250))
	require.NoError(t, err)
	assert.Equal(t, PriceOverrideAction{Price: 250}, action)

	action, err = ParseRuleAction("MIN_STAY", v(3))
	require.NoError(t, err)
	assert.Equal(t, MinStayAction{Nights: 3}, action)

	action, err = ParseRuleAction("ADVANCE_NOTICE", v(0))
	require.NoError(t, err)
	assert.Equal(t, AdvanceNoticeAction{Hours: 0}, action)

	_, err = ParseRuleAction("PRICE", nil)
	assert.ErrorIs(t, err, ErrRuleValueRequired)

	_, err = ParseRuleAction("PRICE", v(-1))
	assert.ErrorIs(t, err, ErrRuleValueInvalid)

	_, err = ParseRuleAction("MIN_STAY", v(1.5))
	assert.ErrorIs(t, err, ErrRuleValueInvalid)

	_, err = ParseRuleAction("DISCOUNT", v(10))
	assert.ErrorIs(t, err, ErrUnknownRuleType)
}

func TestRuleAction_TouchesOnlyItsColumn(t *testing.T) {
	price := 300.0
	day := &AvailabilityDay{IsBlocked: true, Price: &price}

	MinStayAction{Nights: 2}.Apply(day)
	assert.True(t, day.IsBlocked)
	assert.Equal(t, 300.0, *day.Price)
	assert.Equal(t, 2, *day.MinStay)

	UnblockAction{}.Apply(day)
	assert.False(t, day.IsBlocked)
	assert.Equal(t, 300.0, *day.Price)

	PriceOverrideAction{Price: 180}.Apply(day)
	assert.Equal(t, 180.0, day.EffectivePrice(200))
	assert.Nil(t, day.AdvanceNoticeHours)
}

func TestBucketFor(t *testing.T) {
	assert.Equal(t, SeasonalityPeak, BucketFor(time.January, LocationBeach))
	assert.Equal(t, SeasonalityHigh, BucketFor(time.December, LocationNone))
	assert.Equal(t, SeasonalityPeak, BucketFor(time.July, LocationMountain))
	assert.Equal(t, SeasonalityLow, BucketFor(time.August, LocationBeach))
	assert.Equal(t, SeasonalityMedium, BucketFor(time.June, LocationNone))
	assert.Equal(t, SeasonalityMedium, BucketFor(time.October, LocationBeach))
}

func TestProperty_HasPremiumAmenity(t *testing.T) {
	assert.True(t, (&Property{Amenities: []string{"TV", " WiFi "}}).HasPremiumAmenity())
	assert.True(t, (&Property{Amenities: []string{"Air Conditioning"}}).HasPremiumAmenity())
	assert.False(t, (&Property{Amenities: []string{"tv", "balcony"}}).HasPremiumAmenity())
}

func TestCohort_CacheKey(t *testing.T) {
	c := Cohort{City: "Florianópolis", State: "SC", PropertyType: "Apartment", Bedrooms: 2}
	assert.Equal(t, "market:florianópolis:sc:apartment:2", c.CacheKey())
}
