package booking

import (
    "context"
    "time"

    "github.com/jirayuth/lounge-booking/internal/model"
)

// RoomBills is the read-only slice of the ledger the checker needs:
// every bill ever assigned to a room.  *repository.BillRepo and
// *repository.MemoryLedger both satisfy it.
type RoomBills interface {
    ListByRoom(ctx context.Context, room string) ([]model.Bill, error)
}

// Checker decides which rooms are free for a proposed window by
// scanning the fixed room list against existing bills.  Results are
// advisory: the ledger re-validates atomically at insertion time, so
// a candidate may still be lost to a concurrent booking.
type Checker struct {
    Rooms  []string
    Ledger RoomBills
}

// NewChecker returns a Checker over the configured room list.
func NewChecker(rooms []string, ledger RoomBills) *Checker {
    return &Checker{Rooms: rooms, Ledger: ledger}
}

// CandidateRooms returns every room free for [start, end).  A room is
// free when no bill assigned to it in status AWAITING_PAYMENT or PAID
// overlaps the window; cancelled bills never block a room.  An empty
// result means no room is available; that is a normal outcome to
// report to the requester, not an error.
func (c *Checker) CandidateRooms(ctx context.Context, start, end time.Time) ([]string, error) {
    candidates := make([]string, 0, len(c.Rooms))
    for _, room := range c.Rooms {
        bills, err := c.Ledger.ListByRoom(ctx, room)
        if err != nil {
            return nil, err
        }
        free := true
        for _, b := range bills {
            if b.Status == model.StatusCancelled {
                continue
            }
            if Overlaps(start, end, b.Start, b.End) {
                free = false
                break
            }
        }
        if free {
            candidates = append(candidates, room)
        }
    }
    return candidates, nil
}

// Has reports whether name is one of the configured rooms.
func (c *Checker) Has(name string) bool {
    for _, r := range c.Rooms {
        if r == name {
            return true
        }
    }
    return false
}

// Overlaps implements the half-open interval test: [aStart, aEnd) and
// [bStart, bEnd) overlap iff aStart < bEnd and aEnd > bStart.  A
// booking ending at 20:00 does not conflict with one starting at
// 20:00.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
    return aStart.Before(bEnd) && aEnd.After(bStart)
}
