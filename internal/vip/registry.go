// Package vip holds the loyalty tier registry consulted by the
// booking factory for discount multipliers.  The registry is built at
// startup and read-only afterwards; tier and streak updates happen
// outside this service.
package vip

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
)

// ErrUnknownTier is returned when an explicitly supplied tier is not
// recognized.  An absent tier is not an error; callers get the neutral
// multiplier 1.0 for it.
var ErrUnknownTier = errors.New("unknown tier")

// Registry maps tier names to price multipliers in (0, 1].
type Registry struct {
    multipliers map[string]float64
}

// New builds a registry, rejecting multipliers outside (0, 1] so a
// bad tiers file cannot inflate or zero a price.
func New(multipliers map[string]float64) (*Registry, error) {
    for tier, m := range multipliers {
        if m <= 0 || m > 1 {
            return nil, fmt.Errorf("vip: multiplier for %q out of range: %v", tier, m)
        }
    }
    cp := make(map[string]float64, len(multipliers))
    for k, v := range multipliers {
        cp[k] = v
    }
    return &Registry{multipliers: cp}, nil
}

// MultiplierFor returns the discount multiplier for tier.  The empty
// tier means "no discount" and yields 1.0; any other unrecognized
// tier fails with ErrUnknownTier.
func (r *Registry) MultiplierFor(tier string) (float64, error) {
    if tier == "" {
        return 1.0, nil
    }
    m, ok := r.multipliers[tier]
    if !ok {
        return 0, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
    }
    return m, nil
}

// Load reads a JSON object mapping tier names to multipliers.  Used
// when VIP_TIERS_PATH is set.
func Load(path string) (*Registry, error) {
    raw, err := os.ReadFile(path)
    if err != nil {
        return nil, fmt.Errorf("vip: read %s: %w", path, err)
    }
    var m map[string]float64
    if err := json.Unmarshal(raw, &m); err != nil {
        return nil, fmt.Errorf("vip: parse %s: %w", path, err)
    }
    return New(m)
}

// Default returns the built-in tier table.
func Default() *Registry {
    r, err := New(map[string]float64{
        "SILVER":   0.95,
        "GOLD":     0.90,
        "PLATINUM": 0.85,
    })
    if err != nil {
        panic(err)
    }
    return r
}
