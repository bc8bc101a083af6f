package repository

import (
    "context"
    "regexp"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/jirayuth/lounge-booking/internal/model"
)

// The strike increment must compare the bound from/to values instead
// of the status column: MySQL applies SET assignments left to right
// with updated values, so an IF reading the column would see the new
// status and never fire.
var cancelUpdatePattern = regexp.QuoteMeta(
    `strike = strike + IF(? = 'CANCELLED' AND ? = 'AWAITING_PAYMENT', 1, 0)`)

func billRow(id uint64, status model.BillStatus, strike uint32) *sqlmock.Rows {
    start := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)
    now := time.Now().UTC()
    return sqlmock.NewRows([]string{
        "id", "customer", "services", "price", "start_at", "end_at",
        "room", "status", "strike", "created_at", "updated_at",
    }).AddRow(id, "A", "Host 60 นาที", 2800, start, start.Add(time.Hour),
        "heaven lounge room", string(status), strike, now, now)
}

func newMockRepo(t *testing.T) (*BillRepo, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { _ = db.Close() })
    return NewBillRepo(db), mock
}

func TestRepoCancelTransitionStrikesViaBoundArgs(t *testing.T) {
    repo, mock := newMockRepo(t)

    mock.ExpectExec(cancelUpdatePattern).
        WithArgs("CANCELLED", "CANCELLED", "AWAITING_PAYMENT", 7, "AWAITING_PAYMENT").
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectQuery("SELECT .+ FROM bills WHERE id = ?").
        WithArgs(7).
        WillReturnRows(billRow(7, model.StatusCancelled, 1))

    bill, err := repo.Transition(context.Background(), 7,
        model.StatusAwaitingPayment, model.StatusCancelled)
    require.NoError(t, err)
    assert.Equal(t, model.StatusCancelled, bill.Status)
    assert.Equal(t, uint32(1), bill.Strike)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoPaidTransitionLeavesStrikeAlone(t *testing.T) {
    repo, mock := newMockRepo(t)

    mock.ExpectExec(cancelUpdatePattern).
        WithArgs("PAID", "PAID", "AWAITING_PAYMENT", 7, "AWAITING_PAYMENT").
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectQuery("SELECT .+ FROM bills WHERE id = ?").
        WithArgs(7).
        WillReturnRows(billRow(7, model.StatusPaid, 0))

    bill, err := repo.Transition(context.Background(), 7,
        model.StatusAwaitingPayment, model.StatusPaid)
    require.NoError(t, err)
    assert.Equal(t, model.StatusPaid, bill.Status)
    assert.Equal(t, uint32(0), bill.Strike)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoTransitionStaleWhenRaceLost(t *testing.T) {
    repo, mock := newMockRepo(t)

    mock.ExpectExec(cancelUpdatePattern).
        WithArgs("CANCELLED", "CANCELLED", "AWAITING_PAYMENT", 7, "AWAITING_PAYMENT").
        WillReturnResult(sqlmock.NewResult(0, 0))
    // the read-back distinguishes a lost race from an unknown id
    mock.ExpectQuery("SELECT .+ FROM bills WHERE id = ?").
        WithArgs(7).
        WillReturnRows(billRow(7, model.StatusPaid, 0))

    _, err := repo.Transition(context.Background(), 7,
        model.StatusAwaitingPayment, model.StatusCancelled)
    assert.ErrorIs(t, err, ErrStaleTransition)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoTransitionUnknownBill(t *testing.T) {
    repo, mock := newMockRepo(t)

    mock.ExpectExec(cancelUpdatePattern).
        WithArgs("PAID", "PAID", "AWAITING_PAYMENT", 99, "AWAITING_PAYMENT").
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery("SELECT .+ FROM bills WHERE id = ?").
        WithArgs(99).
        WillReturnRows(sqlmock.NewRows([]string{"id"}))

    _, err := repo.Transition(context.Background(), 99,
        model.StatusAwaitingPayment, model.StatusPaid)
    assert.ErrorIs(t, err, ErrNotFound)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoCreateRoomConflictRollsBack(t *testing.T) {
    repo, mock := newMockRepo(t)
    start := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT id FROM bills WHERE room = .+ FOR UPDATE").
        WithArgs("heaven lounge room", "AWAITING_PAYMENT", "PAID",
            start.Add(time.Hour).Format(dbTimeLayout), start.Format(dbTimeLayout)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
    mock.ExpectRollback()

    _, err := repo.Create(context.Background(), &model.BillDraft{
        Customer:     "A",
        Services:     []string{"Host 60 นาที"},
        Price:        2800,
        Start:        start,
        End:          start.Add(time.Hour),
        RequiresRoom: true,
    }, "heaven lounge room")
    assert.ErrorIs(t, err, ErrRoomConflict)
    assert.NoError(t, mock.ExpectationsWereMet())
}
