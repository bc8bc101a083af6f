package handler

import (
    "encoding/csv"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/jirayuth/lounge-booking/internal/repository"
)

// ReportHandler exposes the read-only export of all bill rows for
// external tabular output.  It never mutates anything.
type ReportHandler struct {
    Ledger repository.BillLedger
}

// ListBills handles GET /v1/bills.  The default rendering is JSON;
// ?format=csv streams the same rows as a CSV table with the stable
// column set (customer, services, price, start, end, room, status,
// strike).
func (h *ReportHandler) ListBills(c echo.Context) error {
    bills, err := h.Ledger.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bills"})
    }
    if c.QueryParam("format") == "csv" {
        c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
        c.Response().WriteHeader(http.StatusOK)
        w := csv.NewWriter(c.Response())
        if err := w.Write([]string{"id", "customer", "services", "price", "start", "end", "room", "status", "strike"}); err != nil {
            return err
        }
        for _, b := range bills {
            rec := []string{
                strconv.FormatUint(b.ID, 10),
                b.Customer,
                strings.Join(b.Services, ","),
                strconv.FormatInt(b.Price, 10),
                b.Start.Format(time.RFC3339),
                b.End.Format(time.RFC3339),
                b.Room,
                string(b.Status),
                strconv.FormatUint(uint64(b.Strike), 10),
            }
            if err := w.Write(rec); err != nil {
                return err
            }
        }
        w.Flush()
        return w.Error()
    }
    items := make([]echo.Map, 0, len(bills))
    for i := range bills {
        items = append(items, billBody(&bills[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}
