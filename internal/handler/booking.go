package handler

import (
    "context"
    "errors"
    "log"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/jirayuth/lounge-booking/internal/booking"
    "github.com/jirayuth/lounge-booking/internal/catalog"
    "github.com/jirayuth/lounge-booking/internal/payment"
    "github.com/jirayuth/lounge-booking/internal/queue"
    "github.com/jirayuth/lounge-booking/internal/repository"
    "github.com/jirayuth/lounge-booking/internal/vip"
)

// BookingHandler implements the two-step booking flow: a stateless
// propose call that returns price, window and candidate rooms plus an
// opaque draft reference, and a confirm call that turns the draft and
// a chosen room into a bill.  The handler owns no booking state
// between the two calls; the draft store does.
type BookingHandler struct {
    Factory  *booking.Factory
    Checker  *booking.Checker
    Drafts   booking.DraftStore
    Ledger   repository.BillLedger
    Sessions *payment.Manager
    // Publish sends the payment request event; nil disables
    // publishing (tests, broker-less dev).  Failures are logged and
    // ignored; the bill and its deadline stand regardless.
    Publish func(ctx context.Context, ev queue.PaymentRequestedEvent) error
}

// proposeRequest is the body of POST /v1/bookings/propose.
type proposeRequest struct {
    Customer string   `json:"customer"`
    Services []string `json:"services"`
    Start    string   `json:"start"` // RFC3339
    Tier     string   `json:"tier,omitempty"`
}

// confirmRequest is the body of POST /v1/bookings/confirm.
type confirmRequest struct {
    DraftRef string `json:"draft_ref"`
    Room     string `json:"room,omitempty"`
}

// Propose handles POST /v1/bookings/propose.  It computes the session
// window and price for the selected services and, when a room is
// required, the advisory set of free rooms.  An empty candidate list
// is a normal 200 response: the client must tell the customer no room
// is available, not retry blindly.
func (h *BookingHandler) Propose(c echo.Context) error {
    var body proposeRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.Customer == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer is required"})
    }
    start, err := time.Parse(time.RFC3339, body.Start)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "start must be an RFC3339 timestamp"})
    }
    draft, err := h.Factory.NewDraft(body.Customer, body.Services, start, body.Tier)
    if err != nil {
        switch {
        case errors.Is(err, booking.ErrEmptyServiceList),
            errors.Is(err, booking.ErrInvalidStartTime),
            errors.Is(err, booking.ErrEmptyWindow),
            errors.Is(err, catalog.ErrUnknownService),
            errors.Is(err, vip.ErrUnknownTier):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute booking"})
    }
    ctx := c.Request().Context()
    candidates := []string{}
    if draft.RequiresRoom {
        candidates, err = h.Checker.CandidateRooms(ctx, draft.Start, draft.End)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check room availability"})
        }
    }
    ref, err := h.Drafts.Put(ctx, draft)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store draft"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "draft_ref":       ref,
        "price":           draft.Price,
        "start":           draft.Start.Format(time.RFC3339),
        "end":             draft.End.Format(time.RFC3339),
        "requires_room":   draft.RequiresRoom,
        "candidate_rooms": candidates,
    })
}

// Confirm handles POST /v1/bookings/confirm.  It resolves the draft
// reference, validates the chosen room against the configured list,
// and asks the ledger to create the bill, which re-validates the
// room window atomically, so a candidate lost to a concurrent booking
// comes back as 409 here.  On success the payment deadline starts and
// the payment request event is published once.
func (h *BookingHandler) Confirm(c echo.Context) error {
    var body confirmRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.DraftRef == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "draft_ref is required"})
    }
    ctx := c.Request().Context()
    draft, err := h.Drafts.Get(ctx, body.DraftRef)
    if err != nil {
        if errors.Is(err, booking.ErrDraftNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "draft not found or expired"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load draft"})
    }
    room := body.Room
    if draft.RequiresRoom {
        if room == "" {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "room is required for this booking"})
        }
        if !h.Checker.Has(room) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown room"})
        }
    } else if room != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking does not take a room"})
    }
    bill, err := h.Ledger.Create(ctx, draft, room)
    if err != nil {
        if errors.Is(err, repository.ErrRoomConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "no room available for the requested window"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create bill"})
    }
    // The draft is spent; expiry would collect it anyway.
    _ = h.Drafts.Delete(ctx, body.DraftRef)

    h.Sessions.Track(bill.ID)
    payload := queue.PaymentPayload(bill.ID, bill.Price)
    payBefore := bill.CreatedAt.Add(h.Sessions.Deadline())
    if h.Publish != nil {
        ev := queue.PaymentRequestedEvent{
            BillID:    bill.ID,
            Customer:  bill.Customer,
            Amount:    bill.Price,
            Payload:   payload,
            PayBefore: payBefore.Format(time.RFC3339),
        }
        if err := h.Publish(ctx, ev); err != nil {
            log.Printf("booking: publish payment request for bill %d: %v", bill.ID, err)
        }
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "bill_id":         bill.ID,
        "price":           bill.Price,
        "room":            bill.Room,
        "status":          bill.Status,
        "payment_payload": payload,
        "pay_before":      payBefore.Format(time.RFC3339),
    })
}
