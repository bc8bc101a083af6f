// Package payment orchestrates the post-booking deadline: every bill
// entering AWAITING_PAYMENT gets exactly one timer, and whichever of
// confirmation or expiry reaches the ledger's compare-and-set first
// decides the bill's terminal state.  The losing side is a no-op.
package payment

import (
    "context"
    "errors"
    "log"
    "sync"
    "time"

    "github.com/jirayuth/lounge-booking/internal/model"
    "github.com/jirayuth/lounge-booking/internal/repository"
)

// ErrLatePayment is returned by Confirm when the bill was already
// cancelled by deadline expiry.  Funds received after cancellation
// require manual reconciliation; the condition must be surfaced to
// the operator, never silently converted into a paid bill.
var ErrLatePayment = errors.New("payment received after cancellation")

// Manager runs one deadline timer per bill.  Timers are never renewed
// or rescheduled; a successful confirmation stops the timer early,
// and an expiry that loses the race against a confirmation does
// nothing.  All state decisions go through the ledger's atomic
// Transition, so the manager itself holds no authority over status.
type Manager struct {
    ledger   repository.BillLedger
    deadline time.Duration
    // retry is the delay before an expiry that failed on a transient
    // ledger error is attempted again.
    retry time.Duration

    mu     sync.Mutex
    timers map[uint64]*time.Timer

    // OnCancelled fires after a timeout cancellation has been
    // committed (bill already carries the incremented strike).
    OnCancelled func(bill *model.Bill)
    // OnLatePayment fires when a confirmation arrives for an already
    // cancelled bill, for manual reconciliation.
    OnLatePayment func(bill *model.Bill)
}

// NewManager returns a Manager cancelling unpaid bills after the
// given deadline.
func NewManager(ledger repository.BillLedger, deadline time.Duration) *Manager {
    return &Manager{
        ledger:   ledger,
        deadline: deadline,
        retry:    5 * time.Second,
        timers:   make(map[uint64]*time.Timer),
    }
}

// Deadline returns the configured payment deadline.
func (m *Manager) Deadline() time.Duration { return m.deadline }

// Track starts the single deadline timer for a freshly created bill.
// Calling Track twice for the same id is a no-op; the first timer
// stands.
func (m *Manager) Track(billID uint64) {
    m.trackAfter(billID, m.deadline)
}

func (m *Manager) trackAfter(billID uint64, d time.Duration) {
    m.mu.Lock()
    defer m.mu.Unlock()
    if _, exists := m.timers[billID]; exists {
        return
    }
    m.timers[billID] = time.AfterFunc(d, func() { m.expire(billID) })
}

// expire runs on timer fire.  It attempts the timeout cancellation;
// losing the compare-and-set means the bill was already confirmed (or
// already cancelled) and the expiry must do nothing further.  It must
// never overwrite PAID or add a second strike.  A transient ledger
// error re-arms a short retry timer so the bill cannot sit awaiting
// payment until the next restart.
func (m *Manager) expire(billID uint64) {
    m.forget(billID)
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    bill, err := m.ledger.Transition(ctx, billID, model.StatusAwaitingPayment, model.StatusCancelled)
    if err != nil {
        if errors.Is(err, repository.ErrStaleTransition) {
            return // resolved by another path; silent no-op
        }
        if errors.Is(err, repository.ErrNotFound) {
            log.Printf("payment: cancel bill %d on deadline: %v", billID, err)
            return
        }
        log.Printf("payment: cancel bill %d on deadline: %v; retrying in %s", billID, err, m.retry)
        m.trackAfter(billID, m.retry)
        return
    }
    log.Printf("payment: bill %d cancelled on deadline, strike=%d", billID, bill.Strike)
    if m.OnCancelled != nil {
        m.OnCancelled(bill)
    }
}

// Confirm applies an external payment confirmation.  Exactly one of
// Confirm and the deadline expiry ever succeeds for a bill.  When the
// bill was already cancelled, ErrLatePayment is returned and the
// late-payment hook fires; when it was already paid, the stale signal
// is passed through unchanged.
func (m *Manager) Confirm(ctx context.Context, billID uint64) (*model.Bill, error) {
    bill, err := m.ledger.Transition(ctx, billID, model.StatusAwaitingPayment, model.StatusPaid)
    if err == nil {
        m.stop(billID)
        return bill, nil
    }
    if !errors.Is(err, repository.ErrStaleTransition) {
        return nil, err
    }
    current, getErr := m.ledger.Get(ctx, billID)
    if getErr != nil {
        return nil, getErr
    }
    if current.Status == model.StatusCancelled {
        if m.OnLatePayment != nil {
            m.OnLatePayment(current)
        }
        return nil, ErrLatePayment
    }
    return nil, err
}

// Resume re-arms deadline timers after a restart for every bill still
// awaiting payment: the remaining time when the deadline lies ahead,
// an immediate expiry when it has already passed.  Without this a
// crash between Create and expiry would leave a bill awaiting payment
// forever.
func (m *Manager) Resume(ctx context.Context) error {
    bills, err := m.ledger.ListAll(ctx)
    if err != nil {
        return err
    }
    resumed := 0
    for _, b := range bills {
        if b.Status != model.StatusAwaitingPayment {
            continue
        }
        remaining := time.Until(b.CreatedAt.Add(m.deadline))
        if remaining < 0 {
            remaining = 0
        }
        m.trackAfter(b.ID, remaining)
        resumed++
    }
    if resumed > 0 {
        log.Printf("payment: resumed %d deadline timer(s)", resumed)
    }
    return nil
}

// stop cancels and forgets the timer for billID, if any.
func (m *Manager) stop(billID uint64) {
    m.mu.Lock()
    defer m.mu.Unlock()
    if t, ok := m.timers[billID]; ok {
        t.Stop()
        delete(m.timers, billID)
    }
}

func (m *Manager) forget(billID uint64) {
    m.mu.Lock()
    delete(m.timers, billID)
    m.mu.Unlock()
}
