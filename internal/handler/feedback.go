package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/jirayuth/lounge-booking/internal/model"
    "github.com/jirayuth/lounge-booking/internal/repository"
)

// FeedbackHandler accepts customer reviews.  Feedback is append-only
// and entirely outside the booking kernel.
type FeedbackHandler struct {
    Repo *repository.FeedbackRepo
}

// Create handles POST /v1/feedback.
func (h *FeedbackHandler) Create(c echo.Context) error {
    var body struct {
        Customer string `json:"customer"`
        Rating   uint8  `json:"rating"`
        Review   string `json:"review"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.Customer == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer is required"})
    }
    if body.Rating < 1 || body.Rating > 5 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
    }
    entry := &model.FeedbackEntry{Customer: body.Customer, Rating: body.Rating, Review: body.Review}
    if err := h.Repo.Append(c.Request().Context(), entry); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store feedback"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"item": entry})
}

// List handles GET /v1/feedback.
func (h *FeedbackHandler) List(c echo.Context) error {
    entries, err := h.Repo.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load feedback"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": entries})
}
