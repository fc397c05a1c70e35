package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domerrors "github.com/askdsu/campus-assistant-go/internal/errors"
)

// slowQueryThreshold is the duration above which a query is logged as slow.
const slowQueryThreshold = 100 * time.Millisecond

// SaveClassroom inserts or updates a classroom record.
// Classrooms are identified by (building, room_number) for upserts.
func (db *DB) SaveClassroom(ctx context.Context, room *Classroom) error {
	query := `
		INSERT INTO classrooms (room_number, building, capacity, is_available)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(building, room_number) DO UPDATE SET
			capacity = excluded.capacity,
			is_available = excluded.is_available
	`
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, query, room.RoomNumber, room.Building, room.Capacity, room.IsAvailable)
	if err != nil {
		slog.ErrorContext(ctx, "failed to save classroom",
			"room_number", room.RoomNumber,
			"building", room.Building,
			"error", err)
		return fmt.Errorf("failed to save classroom: %w", err)
	}

	warnIfSlow(ctx, "SaveClassroom", start)
	return nil
}

// GetAvailableClassrooms returns all classrooms flagged available-by-default,
// ordered by building then room number.
func (db *DB) GetAvailableClassrooms(ctx context.Context) ([]Classroom, error) {
	query := `
		SELECT id, room_number, building, capacity, is_available
		FROM classrooms
		WHERE is_available = 1
		ORDER BY building, room_number
	`
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		slog.ErrorContext(ctx, "failed to query available classrooms", "error", err)
		return nil, fmt.Errorf("query classrooms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rooms []Classroom
	for rows.Next() {
		var room Classroom
		if err := rows.Scan(&room.ID, &room.RoomNumber, &room.Building, &room.Capacity, &room.IsAvailable); err != nil {
			return nil, fmt.Errorf("scan classroom: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	warnIfSlow(ctx, "GetAvailableClassrooms", start)
	return rooms, nil
}

// GetAllClassrooms returns every classroom record regardless of the
// availability flag, ordered by building then room number.
func (db *DB) GetAllClassrooms(ctx context.Context) ([]Classroom, error) {
	query := `
		SELECT id, room_number, building, capacity, is_available
		FROM classrooms
		ORDER BY building, room_number
	`
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		slog.ErrorContext(ctx, "failed to query classrooms", "error", err)
		return nil, fmt.Errorf("query classrooms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rooms []Classroom
	for rows.Next() {
		var room Classroom
		if err := rows.Scan(&room.ID, &room.RoomNumber, &room.Building, &room.Capacity, &room.IsAvailable); err != nil {
			return nil, fmt.Errorf("scan classroom: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	warnIfSlow(ctx, "GetAllClassrooms", start)
	return rooms, nil
}

// CountClassrooms returns the total number of classroom records.
func (db *DB) CountClassrooms(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM classrooms`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count classrooms: %w", err)
	}
	return count, nil
}

// SaveScheduleEntry inserts or updates a weekly occupancy window.
func (db *DB) SaveScheduleEntry(ctx context.Context, entry *ScheduleEntry) error {
	query := `
		INSERT INTO schedules (classroom_id, day_of_week, start_time, end_time)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(classroom_id, day_of_week, start_time) DO UPDATE SET
			end_time = excluded.end_time
	`
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, query,
		entry.ClassroomID, strings.ToLower(entry.DayOfWeek), entry.StartTime, entry.EndTime)
	if err != nil {
		slog.ErrorContext(ctx, "failed to save schedule entry",
			"classroom_id", entry.ClassroomID,
			"day_of_week", entry.DayOfWeek,
			"error", err)
		return fmt.Errorf("failed to save schedule entry: %w", err)
	}

	warnIfSlow(ctx, "SaveScheduleEntry", start)
	return nil
}

// GetSchedulesByDay returns all schedule entries for the given weekday name
// (lowercase, e.g. "monday"), ordered by start time.
func (db *DB) GetSchedulesByDay(ctx context.Context, day string) ([]ScheduleEntry, error) {
	query := `
		SELECT id, classroom_id, day_of_week, start_time, end_time
		FROM schedules
		WHERE day_of_week = ?
		ORDER BY start_time
	`
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, strings.ToLower(day))
	if err != nil {
		slog.ErrorContext(ctx, "failed to query schedules",
			"day_of_week", day,
			"error", err)
		return nil, fmt.Errorf("query schedules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []ScheduleEntry
	for rows.Next() {
		var entry ScheduleEntry
		if err := rows.Scan(&entry.ID, &entry.ClassroomID, &entry.DayOfWeek, &entry.StartTime, &entry.EndTime); err != nil {
			return nil, fmt.Errorf("scan schedule entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	warnIfSlow(ctx, "GetSchedulesByDay", start)
	return entries, nil
}

// CountSchedules returns the total number of schedule entries.
func (db *DB) CountSchedules(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM schedules`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count schedules: %w", err)
	}
	return count, nil
}

// InsertLibraryStatus appends a new occupancy snapshot.
// Snapshots with occupied > total are stored as-is; the reporting layer
// clamps them for display and counts the integrity issue.
func (db *DB) InsertLibraryStatus(ctx context.Context, status *LibraryStatus) error {
	if status.OccupiedSeats > status.TotalSeats && db.metrics != nil {
		db.metrics.RecordStoreIntegrityIssue("occupied_exceeds_total")
	}

	query := `
		INSERT INTO library_status (total_seats, occupied_seats, last_updated)
		VALUES (?, ?, ?)
	`
	start := time.Now()
	lastUpdated := status.LastUpdated
	if lastUpdated.IsZero() {
		lastUpdated = time.Now()
	}
	_, err := db.conn.ExecContext(ctx, query, status.TotalSeats, status.OccupiedSeats, lastUpdated.Unix())
	if err != nil {
		slog.ErrorContext(ctx, "failed to insert library status", "error", err)
		return fmt.Errorf("failed to insert library status: %w", err)
	}

	warnIfSlow(ctx, "InsertLibraryStatus", start)
	return nil
}

// GetLatestLibraryStatus returns the most recent occupancy snapshot.
// Returns ErrNotFound when no snapshot exists.
func (db *DB) GetLatestLibraryStatus(ctx context.Context) (*LibraryStatus, error) {
	query := `
		SELECT id, total_seats, occupied_seats, last_updated
		FROM library_status
		ORDER BY last_updated DESC, id DESC
		LIMIT 1
	`
	start := time.Now()

	var status LibraryStatus
	var lastUpdated int64
	err := db.conn.QueryRowContext(ctx, query).Scan(&status.ID, &status.TotalSeats, &status.OccupiedSeats, &lastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domerrors.ErrNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query library status", "error", err)
		return nil, fmt.Errorf("query library status: %w", err)
	}
	status.LastUpdated = time.Unix(lastUpdated, 0)

	warnIfSlow(ctx, "GetLatestLibraryStatus", start)
	return &status, nil
}

// SaveFaculty inserts or updates a faculty directory record.
// Records are identified by (name, department) for upserts.
func (db *DB) SaveFaculty(ctx context.Context, member *Faculty) error {
	query := `
		INSERT INTO faculty (name, cabin_number, department, is_available, email)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name, department) DO UPDATE SET
			cabin_number = excluded.cabin_number,
			is_available = excluded.is_available,
			email = excluded.email
	`
	start := time.Now()
	var email any
	if member.Email != "" {
		email = member.Email
	}
	_, err := db.conn.ExecContext(ctx, query,
		member.Name, member.CabinNumber, member.Department, member.IsAvailable, email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to save faculty",
			"name", member.Name,
			"error", err)
		return fmt.Errorf("failed to save faculty: %w", err)
	}

	warnIfSlow(ctx, "SaveFaculty", start)
	return nil
}

// SearchFacultyByName performs a case-insensitive substring match against
// the faculty directory's name column, ordered by name.
func (db *DB) SearchFacultyByName(ctx context.Context, name string) ([]Faculty, error) {
	if len(name) > 100 {
		return nil, fmt.Errorf("%w: search term too long", domerrors.ErrInvalidInput)
	}

	query := `
		SELECT id, name, cabin_number, department, is_available, COALESCE(email, '')
		FROM faculty
		WHERE LOWER(name) LIKE '%' || ? || '%' ESCAPE '\'
		ORDER BY name
	`
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, sanitizeSearchTerm(strings.ToLower(name)))
	if err != nil {
		slog.ErrorContext(ctx, "failed to search faculty",
			"search_term", name,
			"error", err)
		return nil, fmt.Errorf("search faculty: %w", err)
	}
	defer func() { _ = rows.Close() }()

	members, err := scanFacultyRows(rows)
	if err != nil {
		return nil, err
	}

	warnIfSlow(ctx, "SearchFacultyByName", start)
	return members, nil
}

// GetAllFaculty returns the full faculty directory ordered by name.
// Used for suggestion index builds and example queries.
func (db *DB) GetAllFaculty(ctx context.Context) ([]Faculty, error) {
	query := `
		SELECT id, name, cabin_number, department, is_available, COALESCE(email, '')
		FROM faculty
		ORDER BY name
	`
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		slog.ErrorContext(ctx, "failed to query faculty", "error", err)
		return nil, fmt.Errorf("query faculty: %w", err)
	}
	defer func() { _ = rows.Close() }()

	members, err := scanFacultyRows(rows)
	if err != nil {
		return nil, err
	}

	warnIfSlow(ctx, "GetAllFaculty", start)
	return members, nil
}

// CountFaculty returns the total number of faculty records.
func (db *DB) CountFaculty(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM faculty`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count faculty: %w", err)
	}
	return count, nil
}

func scanFacultyRows(rows *sql.Rows) ([]Faculty, error) {
	var members []Faculty
	for rows.Next() {
		var member Faculty
		if err := rows.Scan(&member.ID, &member.Name, &member.CabinNumber, &member.Department, &member.IsAvailable, &member.Email); err != nil {
			return nil, fmt.Errorf("scan faculty: %w", err)
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

// Ping verifies the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Ready checks if the database is ready to serve queries.
// Performs a real query against reference data rather than a bare ping.
func (db *DB) Ready(ctx context.Context) error {
	var one int
	if err := db.conn.QueryRowContext(ctx, `SELECT 1 FROM classrooms LIMIT 1`).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Empty reference data is still a functioning store.
			return nil
		}
		return fmt.Errorf("readiness query: %w", err)
	}
	return nil
}

func warnIfSlow(ctx context.Context, operation string, start time.Time) {
	if duration := time.Since(start); duration > slowQueryThreshold {
		slog.WarnContext(ctx, "slow database operation",
			"operation", operation,
			"duration_ms", duration.Milliseconds())
	}
}
