package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrUnknownRuleType is returned for an unsupported rule type
	ErrUnknownRuleType = errors.New("domain: unknown calendar rule type")

	// ErrRuleValueRequired is returned when a value-carrying rule has no value
	ErrRuleValueRequired = errors.New("domain: calendar rule value is required")

	// ErrRuleValueInvalid is returned when a rule value is out of range
	ErrRuleValueInvalid = errors.New("domain: calendar rule value is invalid")
)

// RuleType is the wire name of a rule action
type RuleType string

const (
	RuleBlock         RuleType = "BLOCK"
	RuleUnblock       RuleType = "UNBLOCK"
	RulePrice         RuleType = "PRICE"
	RuleMinStay       RuleType = "MIN_STAY"
	RuleAdvanceNotice RuleType = "ADVANCE_NOTICE"
)

// RuleAction is what a calendar rule does to each day it touches.
// The set of variants is closed: BlockAction, UnblockAction, PriceOverrideAction,
// MinStayAction and AdvanceNoticeAction. Each variant owns exactly one column of
// AvailabilityDay and Apply never touches the others.
type RuleAction interface {
	Type() RuleType
	Apply(day *AvailabilityDay)
	isRuleAction()
}

// BlockAction marks days as unavailable
type BlockAction struct{}

// UnblockAction makes days available again
type UnblockAction struct{}

// PriceOverrideAction sets the nightly price for the days
type PriceOverrideAction struct {
	Price float64
}

// MinStayAction sets the minimum stay for check-ins on the days
type MinStayAction struct {
	Nights int
}

// AdvanceNoticeAction sets how many hours ahead a check-in on the days must be booked
type AdvanceNoticeAction struct {
	Hours int
}

func (BlockAction) Type() RuleType         { return RuleBlock }
func (UnblockAction) Type() RuleType       { return RuleUnblock }
func (PriceOverrideAction) Type() RuleType { return RulePrice }
func (MinStayAction) Type() RuleType       { return RuleMinStay }
func (AdvanceNoticeAction) Type() RuleType { return RuleAdvanceNotice }

func (BlockAction) Apply(day *AvailabilityDay)   { day.IsBlocked = true }
func (UnblockAction) Apply(day *AvailabilityDay) { day.IsBlocked = false }

func (a PriceOverrideAction) Apply(day *AvailabilityDay) {
	price := a.Price
	day.Price = &price
}

func (a MinStayAction) Apply(day *AvailabilityDay) {
	nights := a.Nights
	day.MinStay = &nights
}

func (a AdvanceNoticeAction) Apply(day *AvailabilityDay) {
	hours := a.Hours
	day.AdvanceNoticeHours = &hours
}

func (BlockAction) isRuleAction()         {}
func (UnblockAction) isRuleAction()       {}
func (PriceOverrideAction) isRuleAction() {}
func (MinStayAction) isRuleAction()       {}
func (AdvanceNoticeAction) isRuleAction() {}

// ParseRuleAction builds the action variant from its wire form
func ParseRuleAction(ruleType string, value *float64) (RuleAction, error) {
	switch RuleType(strings.ToUpper(strings.TrimSpace(ruleType))) {
	case RuleBlock:
		return BlockAction{}, nil
	case RuleUnblock:
		return UnblockAction{}, nil
	case RulePrice:
		if value == nil {
			return nil, fmt.Errorf("%w: %s", ErrRuleValueRequired, RulePrice)
		}
		if *value <= 0 {
			return nil, fmt.Errorf("%w: price must be positive", ErrRuleValueInvalid)
		}
		return PriceOverrideAction{Price: *value}, nil
	case RuleMinStay:
		if value == nil {
			return nil, fmt.Errorf("%w: %s", ErrRuleValueRequired, RuleMinStay)
		}
		if *value < 1 || *value != float64(int(*value)) {
			return nil, fmt.Errorf("%w: min stay must be a positive whole number", ErrRuleValueInvalid)
		}
		return MinStayAction{Nights: int(*value)}, nil
	case RuleAdvanceNotice:
		if value == nil {
			return nil, fmt.Errorf("%w: %s", ErrRuleValueRequired, RuleAdvanceNotice)
		}
		if *value < 0 || *value != float64(int(*value)) {
			return nil, fmt.Errorf("%w: advance notice must be a non-negative whole number of hours", ErrRuleValueInvalid)
		}
		return AdvanceNoticeAction{Hours: int(*value)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRuleType, ruleType)
	}
}

// ActionValue returns the payload of a value-carrying action
func ActionValue(action RuleAction) *float64 {
	var v float64
	switch a := action.(type) {
	case PriceOverrideAction:
		v = a.Price
	case MinStayAction:
		v = float64(a.Nights)
	case AdvanceNoticeAction:
		v = float64(a.Hours)
	default:
		return nil
	}
	return &v
}

// Frequency of a recurring rule
type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
)

// IsValid returns true for supported frequencies
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Recurrence describes how a rule repeats inside its window
type Recurrence struct {
	Frequency  Frequency
	Interval   int
	DaysOfWeek []time.Weekday // optional filter, intersected with the frequency dates
	EndDate    *time.Time
}

// CalendarRule is a write-time instruction expanded into day mutations and then discarded
type CalendarRule struct {
	StartDate  time.Time
	EndDate    time.Time // inclusive
	Action     RuleAction
	Recurrence *Recurrence
	Notes      *string
}

// DayMutation is the concrete per-day write produced by rule expansion
type DayMutation struct {
	Date   time.Time
	Action RuleAction
}
