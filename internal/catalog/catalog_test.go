package catalog

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/jirayuth/lounge-booking/internal/model"
)

func TestLookup(t *testing.T) {
    c := Default()

    def, err := c.Lookup("Host 60 นาที")
    require.NoError(t, err)
    assert.Equal(t, int64(2800), def.Price)
    assert.Equal(t, 60*time.Minute, def.Duration)
    assert.True(t, def.RequiresRoom)

    _, err = c.Lookup("Host 45 นาที")
    assert.ErrorIs(t, err, ErrUnknownService)
}

func TestTotals(t *testing.T) {
    c := Default()
    names := []string{"Host 60 นาที", "เหล้าช็อต"}

    price, err := c.TotalPrice(names)
    require.NoError(t, err)
    assert.Equal(t, int64(3100), price)

    dur, err := c.TotalDuration(names)
    require.NoError(t, err)
    assert.Equal(t, 60*time.Minute, dur)

    requires, err := c.RequiresRoom(names)
    require.NoError(t, err)
    assert.True(t, requires)

    requires, err = c.RequiresRoom([]string{"เหล้าช็อต", "มิกเซอร์"})
    require.NoError(t, err)
    assert.False(t, requires)
}

func TestTotalsUnknownName(t *testing.T) {
    c := Default()
    _, err := c.TotalPrice([]string{"Host 60 นาที", "nope"})
    assert.ErrorIs(t, err, ErrUnknownService)
    _, err = c.TotalDuration([]string{"nope"})
    assert.ErrorIs(t, err, ErrUnknownService)
}

func TestNewRejectsBadDefinitions(t *testing.T) {
    _, err := New([]model.ServiceDefinition{
        {Name: "a", Price: 1},
        {Name: "a", Price: 2},
    })
    assert.Error(t, err)

    _, err = New([]model.ServiceDefinition{{Name: "", Price: 1}})
    assert.Error(t, err)

    _, err = New([]model.ServiceDefinition{{Name: "x", Duration: -time.Minute}})
    assert.Error(t, err)
}

func TestListPreservesMenuOrder(t *testing.T) {
    c, err := New([]model.ServiceDefinition{
        {Name: "b"}, {Name: "a"}, {Name: "c"},
    })
    require.NoError(t, err)
    got := c.List()
    require.Len(t, got, 3)
    assert.Equal(t, "b", got[0].Name)
    assert.Equal(t, "a", got[1].Name)
    assert.Equal(t, "c", got[2].Name)
}
