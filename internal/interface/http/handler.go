package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/flight-fare/internal/domain/fare"
)

// Handler wires the HTTP transport to the fare service.
type Handler struct {
	fareSvc fare.Service
	logger  *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(fareSvc fare.Service, logger *slog.Logger) *Handler {
	return &Handler{
		fareSvc: fareSvc,
		logger:  logger.With("component", "http.handler"),
	}
}

// Quote estimates the price of a single itinerary.
func (h *Handler) Quote(c *gin.Context) {
	var req fare.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.fareSvc.Quote(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromAppError(err, "quote_failed"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// History lists the most recent quotes, newest first.
func (h *Handler) History(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer", err))
			return
		}
		limit = parsed
	}

	records, err := h.fareSvc.History(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, fromAppError(err, "history_failed"))
		return
	}

	items := make([]historyItem, 0, len(records))
	for _, rec := range records {
		items = append(items, newHistoryItem(rec))
	}
	c.JSON(http.StatusOK, gin.H{"predictions": items})
}

// Catalog returns the selectable airlines, cities and stop counts.
func (h *Handler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.fareSvc.Catalog())
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type historyItem struct {
	ID          string     `json:"id,omitempty"`
	Departure   string     `json:"departure"`
	Arrival     string     `json:"arrival"`
	Stops       int        `json:"stops"`
	Airline     string     `json:"airline"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Price       fare.Price `json:"price"`
	CreatedAt   string     `json:"createdAt,omitempty"`
}

func newHistoryItem(rec fare.PredictionRecord) historyItem {
	item := historyItem{
		ID:          rec.ID,
		Departure:   rec.Departure.Format(fare.TimestampLayout),
		Arrival:     rec.Arrival.Format(fare.TimestampLayout),
		Stops:       rec.Stops,
		Airline:     rec.Airline,
		Origin:      rec.Origin,
		Destination: rec.Destination,
		Price:       rec.Price,
	}
	if !rec.CreatedAt.IsZero() {
		item.CreatedAt = rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return item
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
