package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/jirayuth/lounge-booking/internal/handler"    // import the handlers that implement business logic
	"github.com/jirayuth/lounge-booking/internal/middleware" // import middleware for JWT authentication
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterBooking registers the two-step booking flow and public bill
// lookup.  The propose and confirm calls are the presentation-layer
// contract of the booking kernel: propose returns price, window and
// candidate rooms with an opaque draft reference; confirm exchanges
// the reference and a chosen room for a bill id (or a room conflict).
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, bill *handler.BillHandler) {
	g := e.Group("/v1/bookings")
	// Compute price, window and candidate rooms for a selection.
	g.POST("/propose", b.Propose)
	// Turn a draft reference plus chosen room into a bill.
	g.POST("/confirm", b.Confirm)
	// Anyone holding a bill id may check its status.
	e.GET("/v1/bills/:id", bill.Get)
}

// RegisterOperator registers endpoints reserved for lounge staff: the
// payment confirmation signal and the reporting export.  Both sit
// behind bearer-token authentication; tokens are issued out of band.
func RegisterOperator(e *echo.Echo, bill *handler.BillHandler, report *handler.ReportHandler, jwtSecret string) {
	op := e.Group("/v1")
	// Apply the JWTAuth middleware to the operator group using the provided secret.
	op.Use(middleware.JWTAuth(jwtSecret))
	// External confirmation signal for a bill's payment.
	op.POST("/bills/:id/payments", bill.ConfirmPayment)
	// Read-only export of all bill rows (JSON or ?format=csv).
	op.GET("/bills", report.ListBills)
}

// RegisterFeedback registers the append-only customer feedback
// endpoints.  These are only wired when a database is configured.
func RegisterFeedback(e *echo.Echo, f *handler.FeedbackHandler) {
	e.POST("/v1/feedback", f.Create)
	e.GET("/v1/feedback", f.List)
}
