package plans

import (
	"math"
	"time"
)

// renewalDay is the generic billing anchor: subscriptions renew on the
// 15th of each month unless the user has a personal anchor.
const renewalDay = 15

// RenewalState classifies how close a user is to the next renewal.
type RenewalState string

const (
	RenewalOverdue  RenewalState = "overdue"
	RenewalDueSoon  RenewalState = "due_soon"
	RenewalDueLater RenewalState = "due_later"
)

// PendingChange is a scheduled tier change. It does not take effect
// until ScheduledFor; at most one may exist per user.
type PendingChange struct {
	Target       Tier      `json:"target"`
	ScheduledFor time.Time `json:"scheduled_for"`
	RequestedAt  time.Time `json:"requested_at"`
}

// Due reports whether the change should already be active.
func (p *PendingChange) Due(now time.Time) bool {
	return p != nil && !now.Before(p.ScheduledFor)
}

// NextRenewalDate returns the next generic renewal date after ref:
// the 15th of the current month, or of the following month once the
// 15th has been reached. December rolls over into January.
func NextRenewalDate(ref time.Time) time.Time {
	return nextAnchorDate(ref, renewalDay)
}

// NextPaymentDate returns the user's next billing date. Users keep a
// personal anchor derived from the day of month they registered;
// a zero createdAt falls back to the generic 15th.
func NextPaymentDate(createdAt, now time.Time) time.Time {
	anchor := renewalDay
	if !createdAt.IsZero() {
		anchor = createdAt.Day()
	}
	return nextAnchorDate(now, anchor)
}

func nextAnchorDate(ref time.Time, anchor int) time.Time {
	year, month := ref.Year(), ref.Month()
	if ref.Day() >= anchor {
		month++
	}
	// time.Date normalizes month 13 and anchors past the end of the
	// month, matching the rollover the billing cycle expects.
	return time.Date(year, month, anchor, 0, 0, 0, 0, ref.Location())
}

// DaysUntil returns the number of whole days until date, rounding up.
// Zero means the date is today (or this instant); negative means past.
func DaysUntil(date, now time.Time) int {
	return int(math.Ceil(date.Sub(now).Hours() / 24))
}

// Classify maps a days-until-renewal count onto a display state.
func Classify(days int) RenewalState {
	switch {
	case days <= 0:
		return RenewalOverdue
	case days <= 5:
		return RenewalDueSoon
	default:
		return RenewalDueLater
	}
}

// RequestChange builds the pending change for switching from current
// to target. Returns nil and false when target is already the current
// tier (the request is a no-op the caller reports as already active).
func RequestChange(current, target Tier, now time.Time) (*PendingChange, bool) {
	if target == current {
		return nil, false
	}
	return &PendingChange{
		Target:       target,
		ScheduledFor: NextRenewalDate(now),
		RequestedAt:  now,
	}, true
}

// EffectiveTier returns the tier billing should use: the pending
// target when a change is scheduled, else the current tier. Payments
// made between the request and the renewal are for the upcoming plan.
func EffectiveTier(current Tier, pending *PendingChange) Tier {
	if pending != nil {
		return pending.Target
	}
	return current
}
