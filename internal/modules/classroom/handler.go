// Package classroom implements the free-classroom availability module.
// It resolves which available-by-default classrooms have no scheduled
// class at the current wall-clock time and reports when each free room
// is next occupied.
package classroom

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/askdsu/campus-assistant-go/internal/logger"
	"github.com/askdsu/campus-assistant-go/internal/storage"
	"github.com/askdsu/campus-assistant-go/internal/timeofday"
)

// ModuleName is the module identifier used for logging and metrics labels.
const ModuleName = "classroom"

// User-facing messages. Store failures never expose the underlying error.
const (
	msgStoreError   = "Can't fetch classroom data right now. Try again in a bit."
	msgNoClassrooms = "No classrooms found in the database."
	msgAllBooked    = "Everything's booked right now. Try again later."
	msgNoSchedules  = "(No schedule info available, showing all rooms as free.)"
)

// Handler answers free-classroom queries from the schedule store.
type Handler struct {
	db     *storage.DB
	logger *logger.Logger
}

// NewHandler creates a classroom handler with required dependencies.
func NewHandler(db *storage.DB, log *logger.Logger) *Handler {
	return &Handler{
		db:     db,
		logger: log,
	}
}

// Name returns the module name
func (h *Handler) Name() string {
	return ModuleName
}

// Handle reports the classrooms that are free at the given instant.
// The weekday and wall-clock time are derived from now in its location,
// so callers control the reference clock.
func (h *Handler) Handle(ctx context.Context, now time.Time) string {
	log := h.logger.WithModule(ModuleName)

	day := now.Weekday().String()
	current := timeofday.FromTime(now)

	rooms, err := h.db.GetAvailableClassrooms(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to fetch classrooms")
		return msgStoreError
	}
	if len(rooms) == 0 {
		return msgNoClassrooms
	}

	// Schedule fetch failure is non-fatal: all rooms are reported free
	// and the reply carries a note about the missing schedule info.
	entries, err := h.db.GetSchedulesByDay(ctx, day)
	scheduleUnavailable := err != nil
	if scheduleUnavailable {
		log.WithError(err).Warnf("Failed to fetch schedules for %s, treating all rooms as free", day)
		entries = nil
	}

	busy, freeUntil := resolveOccupancy(log, entries, current)

	var free []storage.Classroom
	for _, room := range rooms {
		if !busy[room.ID] {
			free = append(free, room)
		}
	}

	if len(free) == 0 {
		return msgAllBooked
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Free Classrooms Right Now (%s):**\n\n", day)
	if scheduleUnavailable {
		b.WriteString(msgNoSchedules + "\n\n")
	}
	for _, room := range free {
		fmt.Fprintf(&b, "• **%s** (%s, capacity: %d)%s\n",
			room.RoomNumber, room.Building, room.Capacity, untilText(freeUntil, room.ID))
	}
	return b.String()
}

// resolveOccupancy walks today's schedule entries and partitions rooms into
// busy-now and free-with-upcoming-class. A room inside a [start, end] window
// (inclusive on both ends) is busy; for rooms whose next class is still
// ahead, the earliest upcoming start time is kept as the free-until bound.
// Malformed time strings are logged and skipped rather than failing the query.
func resolveOccupancy(log *logger.Logger, entries []storage.ScheduleEntry, current timeofday.TimeOfDay) (map[int64]bool, map[int64]timeofday.TimeOfDay) {
	busy := make(map[int64]bool)
	freeUntil := make(map[int64]timeofday.TimeOfDay)

	for _, entry := range entries {
		start, err := timeofday.Parse(entry.StartTime)
		if err != nil {
			log.WithError(err).Warnf("Skipping schedule entry %d with bad start time %q", entry.ID, entry.StartTime)
			continue
		}
		end, err := timeofday.Parse(entry.EndTime)
		if err != nil {
			log.WithError(err).Warnf("Skipping schedule entry %d with bad end time %q", entry.ID, entry.EndTime)
			continue
		}

		switch {
		case current.Within(start, end):
			busy[entry.ClassroomID] = true
		case current.Before(start):
			if existing, ok := freeUntil[entry.ClassroomID]; !ok || start.Before(existing) {
				freeUntil[entry.ClassroomID] = start
			}
		}
	}

	return busy, freeUntil
}

// untilText renders the availability suffix for one free room.
func untilText(freeUntil map[int64]timeofday.TimeOfDay, roomID int64) string {
	if until, ok := freeUntil[roomID]; ok {
		return " - free till " + until.Short()
	}
	return " - free for the rest of the day"
}
