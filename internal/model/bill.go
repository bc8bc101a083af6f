package model

import "time"

// BillStatus enumerates the lifecycle states of a bill.  Only
// AwaitingPayment is non-terminal: a bill leaves it exactly once,
// either through an external payment confirmation or through the
// payment deadline expiring.
type BillStatus string

const (
    StatusAwaitingPayment BillStatus = "AWAITING_PAYMENT" // created, deadline running
    StatusPaid            BillStatus = "PAID"             // confirmed before the deadline (terminal)
    StatusCancelled       BillStatus = "CANCELLED"        // deadline elapsed unconfirmed (terminal)
)

// Valid reports whether s is one of the three known states.
func (s BillStatus) Valid() bool {
    switch s {
    case StatusAwaitingPayment, StatusPaid, StatusCancelled:
        return true
    }
    return false
}

// Terminal reports whether a bill in state s can never change again.
func (s BillStatus) Terminal() bool {
    return s == StatusPaid || s == StatusCancelled
}

// Bill records a booking for one or more services, the computed time
// window and price, the assigned room (empty when no selected service
// needs one) and the payment lifecycle state.  Bills are never
// deleted; cancelled bills are retained for reporting and their
// interval is excluded from room conflict checks.
//
// Fields:
//  ID       – primary key, assigned by the ledger on creation.
//  Customer – display identifier of the requester.
//  Services – ordered list of selected service names.
//  Price    – total price in whole currency units after any tier discount.
//  Start    – beginning of the session window (UTC).
//  End      – end of the session window; [Start, End) is half-open.
//  Room     – assigned room name, empty when no room is required.
//  Status   – lifecycle state, see BillStatus.
//  Strike   – penalty counter, incremented exactly once per
//             timeout-triggered cancellation; never decremented.
type Bill struct {
    ID        uint64     // bills.id
    Customer  string     // bills.customer
    Services  []string   // bills.services (comma-joined in storage, order preserved)
    Price     int64      // bills.price
    Start     time.Time  // bills.start_at
    End       time.Time  // bills.end_at
    Room      string     // bills.room
    Status    BillStatus // bills.status
    Strike    uint32     // bills.strike
    CreatedAt time.Time  // bills.created_at
    UpdatedAt time.Time  // bills.updated_at
}

// BillDraft is a fully computed but not yet persisted bill.  The
// booking factory produces drafts; the ledger turns a draft plus a
// chosen room into a Bill.  Drafts carry no identity and no status;
// the presentation layer holds only an opaque reference to one
// between the propose and confirm calls.
type BillDraft struct {
    Customer     string    `json:"customer"`      // requester display name
    Services     []string  `json:"services"`      // ordered service names
    Price        int64     `json:"price"`         // total after tier discount
    Start        time.Time `json:"start"`         // session start (UTC)
    End          time.Time `json:"end"`           // session end (UTC)
    RequiresRoom bool      `json:"requires_room"` // true when any service needs a room
}
