package handler

import (
    "errors"
    "log"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/jirayuth/lounge-booking/internal/middleware"
    "github.com/jirayuth/lounge-booking/internal/model"
    "github.com/jirayuth/lounge-booking/internal/payment"
    "github.com/jirayuth/lounge-booking/internal/repository"
)

// BillHandler exposes bill lookup and the operator-side payment
// confirmation endpoint.  Confirmation races the deadline timer
// through the ledger's compare-and-set; this handler only maps the
// authoritative outcome onto HTTP.
type BillHandler struct {
    Ledger   repository.BillLedger
    Sessions *payment.Manager
}

// billBody renders a bill for JSON responses.
func billBody(b *model.Bill) echo.Map {
    return echo.Map{
        "id":       b.ID,
        "customer": b.Customer,
        "services": b.Services,
        "price":    b.Price,
        "start":    b.Start.Format(time.RFC3339),
        "end":      b.End.Format(time.RFC3339),
        "room":     b.Room,
        "status":   b.Status,
        "strike":   b.Strike,
    }
}

// Get handles GET /v1/bills/:id.  Unknown ids are a hard 404, never
// silently ignored.
func (h *BillHandler) Get(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bill id"})
    }
    bill, err := h.Ledger.Get(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "bill not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch bill"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": billBody(bill)})
}

// ConfirmPayment handles POST /v1/bills/:id/payments, the operator's
// confirmation signal.  A confirmation arriving after the deadline
// already cancelled the bill is rejected with 409 and must be handled
// by manual reconciliation; it never transitions the bill to paid.
func (h *BillHandler) ConfirmPayment(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bill id"})
    }
    bill, err := h.Sessions.Confirm(c.Request().Context(), id)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "bill not found"})
        case errors.Is(err, payment.ErrLatePayment):
            return c.JSON(http.StatusConflict, echo.Map{
                "error": "payment received after cancellation",
                "note":  "requires manual reconciliation",
            })
        case errors.Is(err, repository.ErrStaleTransition):
            return c.JSON(http.StatusConflict, echo.Map{"error": "bill already paid"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to confirm payment"})
    }
    log.Printf("bill %d confirmed paid by operator %s", bill.ID, middleware.OperatorID(c))
    return c.JSON(http.StatusOK, echo.Map{"item": billBody(bill)})
}
