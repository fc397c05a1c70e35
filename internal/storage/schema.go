package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates all necessary tables and indexes.
// Note: WAL mode is configured in db.go.
func InitSchema(db *sql.DB) error {
	if err := createClassroomsTable(db); err != nil {
		return err
	}

	if err := createSchedulesTable(db); err != nil {
		return err
	}

	if err := createLibraryStatusTable(db); err != nil {
		return err
	}

	if err := createFacultyTable(db); err != nil {
		return err
	}

	if err := createUsersTable(db); err != nil {
		return err
	}

	return createSessionsTable(db)
}

func createClassroomsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS classrooms (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		room_number TEXT NOT NULL,
		building TEXT NOT NULL,
		capacity INTEGER NOT NULL DEFAULT 0,
		is_available INTEGER NOT NULL DEFAULT 1,
		UNIQUE(building, room_number)
	);
	CREATE INDEX IF NOT EXISTS idx_classrooms_available ON classrooms(is_available);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create classrooms table: %w", err)
	}

	return nil
}

func createSchedulesTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS schedules (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		classroom_id INTEGER NOT NULL REFERENCES classrooms(id) ON DELETE CASCADE,
		day_of_week TEXT NOT NULL CHECK(day_of_week IN
			('monday', 'tuesday', 'wednesday', 'thursday', 'friday', 'saturday', 'sunday')),
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		UNIQUE(classroom_id, day_of_week, start_time)
	);
	CREATE INDEX IF NOT EXISTS idx_schedules_day ON schedules(day_of_week);
	CREATE INDEX IF NOT EXISTS idx_schedules_classroom ON schedules(classroom_id);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create schedules table: %w", err)
	}

	return nil
}

func createLibraryStatusTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS library_status (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		total_seats INTEGER NOT NULL,
		occupied_seats INTEGER NOT NULL,
		last_updated INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_library_status_updated ON library_status(last_updated DESC);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create library_status table: %w", err)
	}

	return nil
}

func createFacultyTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS faculty (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		cabin_number TEXT NOT NULL,
		department TEXT NOT NULL,
		is_available INTEGER NOT NULL DEFAULT 1,
		email TEXT,
		UNIQUE(name, department)
	);
	CREATE INDEX IF NOT EXISTS idx_faculty_name ON faculty(name);
	CREATE INDEX IF NOT EXISTS idx_faculty_department ON faculty(department);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create faculty table: %w", err)
	}

	return nil
}

func createUsersTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		display_name TEXT NOT NULL DEFAULT ''
	);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	return nil
}

func createSessionsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at);
	CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create sessions table: %w", err)
	}

	return nil
}
