package repository

import (
    "context"
    "sort"
    "sync"
    "time"

    "github.com/jirayuth/lounge-booking/internal/model"
)

// MemoryLedger is an in-process BillLedger with the same semantics as
// BillRepo: the overlap re-check is atomic with the insert and
// Transition is a compare-and-set.  A single mutex guards the whole
// ledger, which makes both operations trivially serializable.  It
// backs the test suite and lets the server run without a database
// (APP_ENV=dev with no DB configured).
type MemoryLedger struct {
    mu     sync.Mutex
    nextID uint64
    bills  map[uint64]*model.Bill
}

// NewMemoryLedger returns an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
    return &MemoryLedger{nextID: 1, bills: make(map[uint64]*model.Bill)}
}

// Create checks the overlap invariant and inserts under one lock
// acquisition, closing the check-then-act race by construction.
func (l *MemoryLedger) Create(ctx context.Context, draft *model.BillDraft, room string) (*model.Bill, error) {
    l.mu.Lock()
    defer l.mu.Unlock()
    if room != "" {
        for _, b := range l.bills {
            if b.Room != room || b.Status == model.StatusCancelled {
                continue
            }
            // half-open [start, end): touching endpoints do not conflict
            if draft.Start.Before(b.End) && draft.End.After(b.Start) {
                return nil, ErrRoomConflict
            }
        }
    }
    now := time.Now().UTC()
    b := &model.Bill{
        ID:        l.nextID,
        Customer:  draft.Customer,
        Services:  append([]string(nil), draft.Services...),
        Price:     draft.Price,
        Start:     draft.Start.UTC(),
        End:       draft.End.UTC(),
        Room:      room,
        Status:    model.StatusAwaitingPayment,
        Strike:    0,
        CreatedAt: now,
        UpdatedAt: now,
    }
    l.nextID++
    l.bills[b.ID] = b
    return copyBill(b), nil
}

// Get returns a copy of the bill with the given id.
func (l *MemoryLedger) Get(ctx context.Context, id uint64) (*model.Bill, error) {
    l.mu.Lock()
    defer l.mu.Unlock()
    b, ok := l.bills[id]
    if !ok {
        return nil, ErrNotFound
    }
    return copyBill(b), nil
}

// Transition applies the compare-and-set under the ledger lock.  The
// strike bump for AWAITING_PAYMENT -> CANCELLED happens in the same
// critical section, so exactly one of a racing confirm/timeout pair
// wins and a strike can never be counted twice.
func (l *MemoryLedger) Transition(ctx context.Context, id uint64, from, to model.BillStatus) (*model.Bill, error) {
    l.mu.Lock()
    defer l.mu.Unlock()
    b, ok := l.bills[id]
    if !ok {
        return nil, ErrNotFound
    }
    if b.Status != from {
        return nil, ErrStaleTransition
    }
    if from == model.StatusAwaitingPayment && to == model.StatusCancelled {
        b.Strike++
    }
    b.Status = to
    b.UpdatedAt = time.Now().UTC()
    return copyBill(b), nil
}

// ListByRoom returns all bills assigned to a room, newest first.
func (l *MemoryLedger) ListByRoom(ctx context.Context, room string) ([]model.Bill, error) {
    l.mu.Lock()
    defer l.mu.Unlock()
    out := make([]model.Bill, 0)
    for _, b := range l.bills {
        if b.Room == room {
            out = append(out, *copyBill(b))
        }
    }
    sort.Slice(out, func(i, j int) bool { return out[i].Start.After(out[j].Start) })
    return out, nil
}

// ListAll returns every bill, newest first.
func (l *MemoryLedger) ListAll(ctx context.Context) ([]model.Bill, error) {
    l.mu.Lock()
    defer l.mu.Unlock()
    out := make([]model.Bill, 0, len(l.bills))
    for _, b := range l.bills {
        out = append(out, *copyBill(b))
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
    return out, nil
}

func copyBill(b *model.Bill) *model.Bill {
    cp := *b
    cp.Services = append([]string(nil), b.Services...)
    return &cp
}
