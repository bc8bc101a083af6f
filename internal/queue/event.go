// Package queue defines message payloads exchanged over the message broker.
package queue

import "fmt"

// PaymentQueueName is the queue carrying payment requests to the
// customer-facing notifier (QR rendering happens downstream).
const PaymentQueueName = "payment.requested"

// ConfirmQueueName is the queue on which external payment
// confirmations arrive.
const ConfirmQueueName = "payment.confirmed"

// CancelQueueName carries timeout-cancellation notices.
const CancelQueueName = "bill.cancelled"

// PaymentRequestedEvent is published exactly once when a bill enters
// AWAITING_PAYMENT.  Payload is the QR-encodable string the customer
// scans; it is never re-sent for the same bill.
type PaymentRequestedEvent struct {
    BillID    uint64 `json:"bill_id"`
    Customer  string `json:"customer"`
    Amount    int64  `json:"amount"`
    Payload   string `json:"payload"`
    PayBefore string `json:"pay_before"`
}

// PaymentConfirmedEvent is the external confirmation signal.  The
// service never inspects a proof-of-payment artifact; receiving this
// event is the confirmation.
type PaymentConfirmedEvent struct {
    BillID uint64 `json:"bill_id"`
    Amount int64  `json:"amount"`
}

// BillCancelledEvent is published when a deadline expiry cancels a
// bill, carrying the strike count after the increment.
type BillCancelledEvent struct {
    BillID   uint64 `json:"bill_id"`
    Customer string `json:"customer"`
    Strike   uint32 `json:"strike"`
}

// PaymentPayload renders the QR-encodable payment string for a bill.
func PaymentPayload(billID uint64, amount int64) string {
    return fmt.Sprintf("PAYMENT|BILL:%d|AMOUNT:%d", billID, amount)
}
