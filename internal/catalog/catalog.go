// Package catalog holds the static service menu: for every bookable
// service its price, its duration and whether it occupies a physical
// room.  The catalog is built once at startup and is read-only
// afterwards, so all methods are safe to call concurrently without
// synchronization.
package catalog

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "time"

    "github.com/jirayuth/lounge-booking/internal/model"
)

// ErrUnknownService is returned when a requested service name does not
// exist in the catalog.  Handlers should translate this into an HTTP
// 400 response.
var ErrUnknownService = errors.New("unknown service")

// Catalog maps service names to their definitions.  The insertion
// order of the source slice is preserved for listing.
type Catalog struct {
    byName map[string]model.ServiceDefinition
    order  []string
}

// New builds a catalog from the given definitions.  Duplicate names
// are rejected so that a menu file with a repeated entry fails loudly
// at startup instead of silently shadowing a price.
func New(defs []model.ServiceDefinition) (*Catalog, error) {
    c := &Catalog{byName: make(map[string]model.ServiceDefinition, len(defs))}
    for _, d := range defs {
        if d.Name == "" {
            return nil, errors.New("catalog: empty service name")
        }
        if d.Duration < 0 {
            return nil, fmt.Errorf("catalog: negative duration for %q", d.Name)
        }
        if _, dup := c.byName[d.Name]; dup {
            return nil, fmt.Errorf("catalog: duplicate service %q", d.Name)
        }
        c.byName[d.Name] = d
        c.order = append(c.order, d.Name)
    }
    return c, nil
}

// Lookup returns the definition for name.  It fails with
// ErrUnknownService when the name is not on the menu.
func (c *Catalog) Lookup(name string) (model.ServiceDefinition, error) {
    d, ok := c.byName[name]
    if !ok {
        return model.ServiceDefinition{}, fmt.Errorf("%w: %q", ErrUnknownService, name)
    }
    return d, nil
}

// TotalDuration sums the durations of the named services.  Any unknown
// name fails the whole computation.
func (c *Catalog) TotalDuration(names []string) (time.Duration, error) {
    var total time.Duration
    for _, n := range names {
        d, err := c.Lookup(n)
        if err != nil {
            return 0, err
        }
        total += d.Duration
    }
    return total, nil
}

// TotalPrice sums the prices of the named services before any tier
// discount is applied.
func (c *Catalog) TotalPrice(names []string) (int64, error) {
    var total int64
    for _, n := range names {
        d, err := c.Lookup(n)
        if err != nil {
            return 0, err
        }
        total += d.Price
    }
    return total, nil
}

// RequiresRoom reports whether any of the named services needs a
// physical room.
func (c *Catalog) RequiresRoom(names []string) (bool, error) {
    for _, n := range names {
        d, err := c.Lookup(n)
        if err != nil {
            return false, err
        }
        if d.RequiresRoom {
            return true, nil
        }
    }
    return false, nil
}

// List returns all definitions in menu order.
func (c *Catalog) List() []model.ServiceDefinition {
    out := make([]model.ServiceDefinition, 0, len(c.order))
    for _, n := range c.order {
        out = append(out, c.byName[n])
    }
    return out
}

// fileEntry is the on-disk shape of one catalog row.  Durations are
// given in minutes in the file.
type fileEntry struct {
    Name            string `json:"name"`
    Price           int64  `json:"price"`
    DurationMinutes int64  `json:"duration_minutes"`
    RequiresRoom    bool   `json:"requires_room"`
}

// Load reads a JSON catalog file (an array of entries) and builds a
// catalog from it.  It is used when CATALOG_PATH is set; otherwise the
// built-in Default menu applies.
func Load(path string) (*Catalog, error) {
    raw, err := os.ReadFile(path)
    if err != nil {
        return nil, fmt.Errorf("catalog: read %s: %w", path, err)
    }
    var entries []fileEntry
    if err := json.Unmarshal(raw, &entries); err != nil {
        return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
    }
    defs := make([]model.ServiceDefinition, 0, len(entries))
    for _, e := range entries {
        defs = append(defs, model.ServiceDefinition{
            Name:         e.Name,
            Price:        e.Price,
            Duration:     time.Duration(e.DurationMinutes) * time.Minute,
            RequiresRoom: e.RequiresRoom,
        })
    }
    return New(defs)
}

// Default returns the built-in lounge menu.  Host sessions occupy a
// room for the stated time; drink add-ons are instantaneous and do not
// occupy a room on their own.
func Default() *Catalog {
    c, err := New([]model.ServiceDefinition{
        {Name: "Host 60 นาที", Price: 2800, Duration: 60 * time.Minute, RequiresRoom: true},
        {Name: "Host 90 นาที", Price: 4000, Duration: 90 * time.Minute, RequiresRoom: true},
        {Name: "Host 120 นาที", Price: 5200, Duration: 120 * time.Minute, RequiresRoom: true},
        {Name: "คาราโอเกะ 30 นาที", Price: 500, Duration: 30 * time.Minute, RequiresRoom: true},
        {Name: "เหล้าช็อต", Price: 300, Duration: 0, RequiresRoom: false},
        {Name: "มิกเซอร์", Price: 150, Duration: 0, RequiresRoom: false},
    })
    if err != nil {
        // the built-in menu is constant; a failure here is a programming error
        panic(err)
    }
    return c
}
