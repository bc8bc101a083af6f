package handler

import (
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/jirayuth/lounge-booking/internal/booking"
    "github.com/jirayuth/lounge-booking/internal/catalog"
    "github.com/jirayuth/lounge-booking/internal/model"
    "github.com/jirayuth/lounge-booking/internal/payment"
    "github.com/jirayuth/lounge-booking/internal/repository"
    "github.com/jirayuth/lounge-booking/internal/vip"
)

var testRooms = []string{
    "heaven lounge room",
    "cloud nine room",
    "moonlight room",
    "velvet room",
    "starlight room",
    "paradise room",
}

type testEnv struct {
    booking *BookingHandler
    bill    *BillHandler
    ledger  *repository.MemoryLedger
}

func newTestEnv(t *testing.T) *testEnv {
    t.Helper()
    ledger := repository.NewMemoryLedger()
    sessions := payment.NewManager(ledger, time.Minute)
    return &testEnv{
        booking: &BookingHandler{
            Factory:  booking.NewFactory(catalog.Default(), vip.Default(), 5*time.Minute),
            Checker:  booking.NewChecker(testRooms, ledger),
            Drafts:   booking.NewMemoryDraftStore(10 * time.Minute),
            Ledger:   ledger,
            Sessions: sessions,
            // Publish stays nil: no broker in tests
        },
        bill:   &BillHandler{Ledger: ledger, Sessions: sessions},
        ledger: ledger,
    }
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string, params ...string) (*httptest.ResponseRecorder, map[string]any) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(method, target, strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    for i := 0; i+1 < len(params); i += 2 {
        c.SetParamNames(params[i])
        c.SetParamValues(params[i+1])
    }
    require.NoError(t, h(c))
    var out map[string]any
    if rec.Body.Len() > 0 {
        require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
    }
    return rec, out
}

func proposeBody(customer string, services []string, start time.Time) string {
    b, _ := json.Marshal(map[string]any{
        "customer": customer,
        "services": services,
        "start":    start.Format(time.RFC3339),
    })
    return string(b)
}

func TestProposeHostSession(t *testing.T) {
    env := newTestEnv(t)
    start := time.Now().Add(2 * time.Hour).Truncate(time.Second)

    rec, out := doJSON(t, env.booking.Propose, http.MethodPost, "/v1/bookings/propose",
        proposeBody("A", []string{"Host 60 นาที"}, start))

    require.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, float64(2800), out["price"])
    assert.Equal(t, true, out["requires_room"])
    assert.NotEmpty(t, out["draft_ref"])

    end, err := time.Parse(time.RFC3339, out["end"].(string))
    require.NoError(t, err)
    assert.Equal(t, start.Add(time.Hour).UTC(), end.UTC())

    rooms := out["candidate_rooms"].([]any)
    assert.Len(t, rooms, 6)
}

func TestProposeInputErrors(t *testing.T) {
    env := newTestEnv(t)
    start := time.Now().Add(2 * time.Hour)

    rec, out := doJSON(t, env.booking.Propose, http.MethodPost, "/",
        proposeBody("A", []string{"ไม่มีในเมนู"}, start))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Contains(t, out["error"], "unknown service")

    rec, _ = doJSON(t, env.booking.Propose, http.MethodPost, "/",
        proposeBody("A", nil, start))
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    rec, _ = doJSON(t, env.booking.Propose, http.MethodPost, "/",
        proposeBody("", []string{"Host 60 นาที"}, start))
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    rec, _ = doJSON(t, env.booking.Propose, http.MethodPost, "/",
        `{"customer":"A","services":["Host 60 นาที"],"start":"yesterday"}`)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProposeDrinkOnlyNeedsNoRoom(t *testing.T) {
    env := newTestEnv(t)
    start := time.Now().Add(2 * time.Hour)

    rec, out := doJSON(t, env.booking.Propose, http.MethodPost, "/",
        proposeBody("A", []string{"เหล้าช็อต"}, start))
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, false, out["requires_room"])
    assert.Empty(t, out["candidate_rooms"])
}

func TestProposeReportsNoRoomAvailable(t *testing.T) {
    env := newTestEnv(t)
    start := time.Now().Add(2 * time.Hour).UTC()

    // Fill every room for the window directly through the ledger.
    for _, room := range testRooms {
        draft := &model.BillDraft{
            Customer:     "walk-in",
            Services:     []string{"Host 60 นาที"},
            Price:        2800,
            Start:        start,
            End:          start.Add(time.Hour),
            RequiresRoom: true,
        }
        _, err := env.ledger.Create(context.Background(), draft, room)
        require.NoError(t, err)
    }

    // Still a 200: an empty candidate list is reported, not an error.
    rec, out := doJSON(t, env.booking.Propose, http.MethodPost, "/",
        proposeBody("A", []string{"Host 60 นาที"}, start))
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Empty(t, out["candidate_rooms"])
    assert.NotEmpty(t, out["draft_ref"])
}

func TestConfirmCreatesBillAndPayload(t *testing.T) {
    env := newTestEnv(t)
    start := time.Now().Add(2 * time.Hour)

    _, proposed := doJSON(t, env.booking.Propose, http.MethodPost, "/",
        proposeBody("A", []string{"Host 60 นาที"}, start))
    ref := proposed["draft_ref"].(string)

    rec, out := doJSON(t, env.booking.Confirm, http.MethodPost, "/",
        fmt.Sprintf(`{"draft_ref":%q,"room":"heaven lounge room"}`, ref))
    require.Equal(t, http.StatusCreated, rec.Code)
    assert.Equal(t, float64(1), out["bill_id"])
    assert.Equal(t, "PAYMENT|BILL:1|AMOUNT:2800", out["payment_payload"])
    assert.Equal(t, "AWAITING_PAYMENT", out["status"])

    // the draft is spent
    rec, _ = doJSON(t, env.booking.Confirm, http.MethodPost, "/",
        fmt.Sprintf(`{"draft_ref":%q,"room":"heaven lounge room"}`, ref))
    assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConfirmRoomConflict(t *testing.T) {
    env := newTestEnv(t)
    start := time.Now().Add(2 * time.Hour)

    _, p1 := doJSON(t, env.booking.Propose, http.MethodPost, "/",
        proposeBody("A", []string{"Host 60 นาที"}, start))
    _, p2 := doJSON(t, env.booking.Propose, http.MethodPost, "/",
        proposeBody("B", []string{"Host 60 นาที"}, start.Add(30*time.Minute)))

    rec, _ := doJSON(t, env.booking.Confirm, http.MethodPost, "/",
        fmt.Sprintf(`{"draft_ref":%q,"room":"velvet room"}`, p1["draft_ref"].(string)))
    require.Equal(t, http.StatusCreated, rec.Code)

    // overlapping window in the same room loses at create time
    rec, out := doJSON(t, env.booking.Confirm, http.MethodPost, "/",
        fmt.Sprintf(`{"draft_ref":%q,"room":"velvet room"}`, p2["draft_ref"].(string)))
    assert.Equal(t, http.StatusConflict, rec.Code)
    assert.Contains(t, out["error"], "no room available")
}

func TestConfirmValidatesRoomChoice(t *testing.T) {
    env := newTestEnv(t)
    start := time.Now().Add(2 * time.Hour)

    _, proposed := doJSON(t, env.booking.Propose, http.MethodPost, "/",
        proposeBody("A", []string{"Host 60 นาที"}, start))
    ref := proposed["draft_ref"].(string)

    rec, _ := doJSON(t, env.booking.Confirm, http.MethodPost, "/",
        fmt.Sprintf(`{"draft_ref":%q}`, ref))
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    rec, _ = doJSON(t, env.booking.Confirm, http.MethodPost, "/",
        fmt.Sprintf(`{"draft_ref":%q,"room":"broom closet"}`, ref))
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    rec, _ = doJSON(t, env.booking.Confirm, http.MethodPost, "/",
        `{"draft_ref":"00000000-0000-0000-0000-000000000000","room":"velvet room"}`)
    assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConfirmRoomlessBookingRejectsRoom(t *testing.T) {
    env := newTestEnv(t)
    start := time.Now().Add(2 * time.Hour)

    _, proposed := doJSON(t, env.booking.Propose, http.MethodPost, "/",
        proposeBody("A", []string{"เหล้าช็อต"}, start))
    ref := proposed["draft_ref"].(string)

    rec, _ := doJSON(t, env.booking.Confirm, http.MethodPost, "/",
        fmt.Sprintf(`{"draft_ref":%q,"room":"velvet room"}`, ref))
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    rec, out := doJSON(t, env.booking.Confirm, http.MethodPost, "/",
        fmt.Sprintf(`{"draft_ref":%q}`, ref))
    require.Equal(t, http.StatusCreated, rec.Code)
    assert.Equal(t, "", out["room"])
}

func TestBillLifecycleOverHTTP(t *testing.T) {
    env := newTestEnv(t)
    start := time.Now().Add(2 * time.Hour)

    _, proposed := doJSON(t, env.booking.Propose, http.MethodPost, "/",
        proposeBody("A", []string{"Host 60 นาที"}, start))
    _, created := doJSON(t, env.booking.Confirm, http.MethodPost, "/",
        fmt.Sprintf(`{"draft_ref":%q,"room":"heaven lounge room"}`, proposed["draft_ref"].(string)))
    id := fmt.Sprintf("%.0f", created["bill_id"].(float64))

    rec, out := doJSON(t, env.bill.Get, http.MethodGet, "/", "", "id", id)
    require.Equal(t, http.StatusOK, rec.Code)
    item := out["item"].(map[string]any)
    assert.Equal(t, "AWAITING_PAYMENT", item["status"])

    rec, out = doJSON(t, env.bill.ConfirmPayment, http.MethodPost, "/", "", "id", id)
    require.Equal(t, http.StatusOK, rec.Code)
    item = out["item"].(map[string]any)
    assert.Equal(t, "PAID", item["status"])
    assert.Equal(t, float64(0), item["strike"])

    // second confirmation is already resolved
    rec, _ = doJSON(t, env.bill.ConfirmPayment, http.MethodPost, "/", "", "id", id)
    assert.Equal(t, http.StatusConflict, rec.Code)

    rec, _ = doJSON(t, env.bill.Get, http.MethodGet, "/", "", "id", "999")
    assert.Equal(t, http.StatusNotFound, rec.Code)
}
