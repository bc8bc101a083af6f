// Package booking contains the pre-persistence half of the kernel:
// the factory that turns a service selection into a priced, time-
// bounded bill draft, the availability checker that proposes candidate
// rooms, and the store that holds drafts between the propose and
// confirm calls.
package booking

import (
    "errors"
    "math"
    "time"

    "github.com/jirayuth/lounge-booking/internal/catalog"
    "github.com/jirayuth/lounge-booking/internal/model"
    "github.com/jirayuth/lounge-booking/internal/vip"
)

// ErrEmptyServiceList is returned when a booking request names no
// services at all.
var ErrEmptyServiceList = errors.New("empty service list")

// ErrInvalidStartTime is returned when the requested start time is
// zero or lies further in the past than the configured grace window.
var ErrInvalidStartTime = errors.New("invalid start time")

// ErrEmptyWindow is returned when a selection requires a room but its
// total duration is zero.  A degenerate [t, t) interval cannot take
// part in the room overlap invariant, so such selections are rejected
// rather than assigned a room.
var ErrEmptyWindow = errors.New("empty booking window")

// Factory computes bill drafts from booking requests.  It has no side
// effects and is deterministic given the catalog and tier registry,
// both of which are immutable after startup.
type Factory struct {
    Catalog *catalog.Catalog
    Tiers   *vip.Registry
    // Grace is how far in the past a start time may lie and still be
    // accepted; walk-ins are often keyed in a few minutes late.
    Grace time.Duration
}

// NewFactory returns a Factory over the given catalog and tier
// registry.
func NewFactory(c *catalog.Catalog, t *vip.Registry, grace time.Duration) *Factory {
    return &Factory{Catalog: c, Tiers: t, Grace: grace}
}

// NewDraft validates a booking request and computes its window and
// price: end = start + sum of durations, price = round(sum of prices
// × tier multiplier).  The tier is optional; an empty tier means no
// discount, an unrecognized one fails with vip.ErrUnknownTier.  All
// errors here are caller-input errors raised before any persistence.
func (f *Factory) NewDraft(customer string, services []string, start time.Time, tier string) (*model.BillDraft, error) {
    if len(services) == 0 {
        return nil, ErrEmptyServiceList
    }
    if start.IsZero() {
        return nil, ErrInvalidStartTime
    }
    if start.Before(time.Now().Add(-f.Grace)) {
        return nil, ErrInvalidStartTime
    }
    total, err := f.Catalog.TotalPrice(services)
    if err != nil {
        return nil, err
    }
    duration, err := f.Catalog.TotalDuration(services)
    if err != nil {
        return nil, err
    }
    requiresRoom, err := f.Catalog.RequiresRoom(services)
    if err != nil {
        return nil, err
    }
    if requiresRoom && duration == 0 {
        return nil, ErrEmptyWindow
    }
    mult, err := f.Tiers.MultiplierFor(tier)
    if err != nil {
        return nil, err
    }
    start = start.UTC()
    return &model.BillDraft{
        Customer:     customer,
        Services:     append([]string(nil), services...),
        Price:        int64(math.Round(float64(total) * mult)),
        Start:        start,
        End:          start.Add(duration),
        RequiresRoom: requiresRoom,
    }, nil
}
