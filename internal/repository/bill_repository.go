package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/jirayuth/lounge-booking/internal/model"
)

// BillLedger is the narrow interface through which every other
// component reads and mutates bills.  All status mutation funnels
// through the compare-and-set Transition; Create re-validates the
// room/time overlap invariant atomically with the insert.  Two
// implementations exist: BillRepo (MySQL) and MemoryLedger.
type BillLedger interface {
    // Create persists a draft with the chosen room (empty when no
    // room is required) in status AWAITING_PAYMENT with strike 0.
    // It fails with ErrRoomConflict when the room's existing
    // non-cancelled bills overlap the draft's [start, end) window.
    Create(ctx context.Context, draft *model.BillDraft, room string) (*model.Bill, error)

    // Get returns the bill with the given id or ErrNotFound.
    Get(ctx context.Context, id uint64) (*model.Bill, error)

    // Transition atomically moves a bill from one status to another.
    // It fails with ErrStaleTransition when the bill's current status
    // differs from the expected one and with ErrNotFound for an
    // unknown id.  Moving AWAITING_PAYMENT to CANCELLED increments
    // the strike counter in the same atomic step; timeout expiry is
    // the only cancellation path in the system.
    Transition(ctx context.Context, id uint64, from, to model.BillStatus) (*model.Bill, error)

    // ListByRoom returns all bills ever assigned to room, any status.
    ListByRoom(ctx context.Context, room string) ([]model.Bill, error)

    // ListAll returns every bill for reporting.
    ListAll(ctx context.Context) ([]model.Bill, error)
}

// BillRepo is the MySQL-backed ledger.  All timestamp columns are
// stored as UTC DATETIMEs.
type BillRepo struct {
    db *sql.DB
}

// NewBillRepo returns a BillRepo bound to the given database.
func NewBillRepo(db *sql.DB) *BillRepo { return &BillRepo{db: db} }

// DB exposes the underlying handle for callers that need to manage
// transactions spanning other repositories.
func (r *BillRepo) DB() *sql.DB { return r.db }

const billColumns = `id, customer, services, price, start_at, end_at, room, status, strike, created_at, updated_at`

const dbTimeLayout = "2006-01-02 15:04:05"

// Create inserts a new bill after re-checking the overlap invariant
// inside a transaction.  Candidate rows for the same room are locked
// with SELECT ... FOR UPDATE so that two concurrent creates for an
// overlapping window serialize: exactly one insert succeeds, the
// other observes the locked row and fails with ErrRoomConflict.
func (r *BillRepo) Create(ctx context.Context, draft *model.BillDraft, room string) (*model.Bill, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if room != "" {
        // Lock any bill that would overlap [start, end) in this room.
        // Half-open semantics: a bill ending exactly at our start (or
        // starting exactly at our end) does not conflict.
        const overlapQ = `SELECT id FROM bills
                          WHERE room = ? AND status IN (?, ?)
                            AND start_at < ? AND end_at > ?
                          LIMIT 1 FOR UPDATE`
        var conflicting uint64
        err = tx.QueryRowContext(ctx, overlapQ,
            room, model.StatusAwaitingPayment, model.StatusPaid,
            draft.End.UTC().Format(dbTimeLayout), draft.Start.UTC().Format(dbTimeLayout),
        ).Scan(&conflicting)
        switch {
        case err == nil:
            return nil, ErrRoomConflict
        case err != sql.ErrNoRows:
            return nil, err
        }
    }
    const insQ = `INSERT INTO bills (customer, services, price, start_at, end_at, room, status, strike)
                  VALUES (?, ?, ?, ?, ?, ?, ?, 0)`
    res, err := tx.ExecContext(ctx, insQ,
        draft.Customer, strings.Join(draft.Services, ","), draft.Price,
        draft.Start.UTC().Format(dbTimeLayout), draft.End.UTC().Format(dbTimeLayout),
        room, model.StatusAwaitingPayment,
    )
    if err != nil {
        return nil, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return nil, err
    }
    bill, err := scanBill(tx.QueryRowContext(ctx, `SELECT `+billColumns+` FROM bills WHERE id = ?`, id))
    if err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return bill, nil
}

// Get returns a single bill by id.
func (r *BillRepo) Get(ctx context.Context, id uint64) (*model.Bill, error) {
    bill, err := scanBill(r.db.QueryRowContext(ctx, `SELECT `+billColumns+` FROM bills WHERE id = ?`, id))
    if err == sql.ErrNoRows {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    return bill, nil
}

// Transition performs the compare-and-set status change as a single
// UPDATE guarded by the expected current status.  The strike bump for
// a timeout cancellation rides on the same statement so a bill can
// never be cancelled without its strike, nor struck twice.  The IF
// compares the bound from/to values, never the status column: MySQL
// applies SET assignments left to right with updated values, so by
// the time the strike expression runs the column already holds the
// new status.
func (r *BillRepo) Transition(ctx context.Context, id uint64, from, to model.BillStatus) (*model.Bill, error) {
    const q = `UPDATE bills
               SET status = ?, strike = strike + IF(? = 'CANCELLED' AND ? = 'AWAITING_PAYMENT', 1, 0)
               WHERE id = ? AND status = ?`
    res, err := r.db.ExecContext(ctx, q, to, to, from, id, from)
    if err != nil {
        return nil, err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return nil, err
    }
    if affected == 0 {
        // Either the id is unknown or another actor won the race;
        // read back to tell the two apart.
        if _, err := r.Get(ctx, id); err != nil {
            return nil, err
        }
        return nil, ErrStaleTransition
    }
    return r.Get(ctx, id)
}

// ListByRoom returns all bills assigned to a room, newest first.
func (r *BillRepo) ListByRoom(ctx context.Context, room string) ([]model.Bill, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+billColumns+` FROM bills WHERE room = ? ORDER BY start_at DESC`, room)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return collectBills(rows)
}

// ListAll returns every bill, newest first.
func (r *BillRepo) ListAll(ctx context.Context) ([]model.Bill, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+billColumns+` FROM bills ORDER BY id DESC`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return collectBills(rows)
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanBill.
type rowScanner interface {
    Scan(dest ...interface{}) error
}

func scanBill(row rowScanner) (*model.Bill, error) {
    var b model.Bill
    var services string
    var status string
    var start, end time.Time
    // parseTime=true in the DSN makes DATETIME columns scan as time.Time
    if err := row.Scan(&b.ID, &b.Customer, &services, &b.Price,
        &start, &end, &b.Room, &status, &b.Strike,
        &b.CreatedAt, &b.UpdatedAt); err != nil {
        return nil, err
    }
    if services != "" {
        b.Services = strings.Split(services, ",")
    }
    b.Start = start.UTC()
    b.End = end.UTC()
    b.Status = model.BillStatus(status)
    return &b, nil
}

func collectBills(rows *sql.Rows) ([]model.Bill, error) {
    bills := make([]model.Bill, 0)
    for rows.Next() {
        b, err := scanBill(rows)
        if err != nil {
            return nil, err
        }
        bills = append(bills, *b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return bills, nil
}
