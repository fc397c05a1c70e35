// Package library implements the library occupancy reporting module.
package library

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/askdsu/campus-assistant-go/internal/logger"
	"github.com/askdsu/campus-assistant-go/internal/metrics"
	"github.com/askdsu/campus-assistant-go/internal/storage"
)

// ModuleName is the module identifier used for logging and metrics labels.
const ModuleName = "library"

const msgUnavailable = "Library data unavailable right now."

// Qualitative occupancy lines, thresholds checked in descending order.
const (
	msgPacked     = "Library is packed. Good luck finding a spot."
	msgPrettyFull = "Library is pretty full, but you might get lucky."
	msgDecent     = "Decent space available. Go grab a seat."
	msgChill      = "Library is chill. Plenty of seats available."
)

// Handler answers library occupancy queries from the latest stored snapshot.
type Handler struct {
	db      *storage.DB
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewHandler creates a library handler with required dependencies.
// Metrics may be nil.
func NewHandler(db *storage.DB, m *metrics.Metrics, log *logger.Logger) *Handler {
	return &Handler{
		db:      db,
		metrics: m,
		logger:  log,
	}
}

// Name returns the module name
func (h *Handler) Name() string {
	return ModuleName
}

// Handle reports on the most recent library occupancy snapshot.
// A missing snapshot and a store failure read the same to the user.
func (h *Handler) Handle(ctx context.Context) string {
	log := h.logger.WithModule(ModuleName)

	status, err := h.db.GetLatestLibraryStatus(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to fetch library status")
		return msgUnavailable
	}
	if status.TotalSeats <= 0 {
		log.Warnf("Library snapshot %d has non-positive total seats: %d", status.ID, status.TotalSeats)
		return msgUnavailable
	}

	occupied := status.OccupiedSeats
	if occupied > status.TotalSeats {
		// Sensor data can overshoot capacity; clamp for display and
		// keep the discrepancy visible to operators.
		log.Warnf("Library snapshot %d reports %d occupied of %d seats, clamping",
			status.ID, occupied, status.TotalSeats)
		if h.metrics != nil {
			h.metrics.RecordStoreIntegrityIssue("occupancy_clamped")
		}
		occupied = status.TotalSeats
	}
	if occupied < 0 {
		occupied = 0
	}

	percent := int(math.Round(float64(occupied) / float64(status.TotalSeats) * 100))
	available := status.TotalSeats - occupied

	var b strings.Builder
	b.WriteString("**Library Status:**\n\n")
	fmt.Fprintf(&b, "Total Seats: %d\n", status.TotalSeats)
	fmt.Fprintf(&b, "Available: %d\n", available)
	fmt.Fprintf(&b, "Occupancy: %d%%\n\n", percent)
	b.WriteString(qualitativeLine(percent))
	return b.String()
}

// qualitativeLine maps an occupancy percentage to its report line.
func qualitativeLine(percent int) string {
	switch {
	case percent >= 90:
		return msgPacked
	case percent >= 70:
		return msgPrettyFull
	case percent >= 50:
		return msgDecent
	default:
		return msgChill
	}
}
