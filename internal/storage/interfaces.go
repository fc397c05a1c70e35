package storage

import (
	"context"
	"time"
)

// ClassroomRepository defines the interface for classroom data operations.
type ClassroomRepository interface {
	GetAvailableClassrooms(ctx context.Context) ([]Classroom, error)
	GetAllClassrooms(ctx context.Context) ([]Classroom, error)
	SaveClassroom(ctx context.Context, room *Classroom) error
	CountClassrooms(ctx context.Context) (int, error)
}

// ScheduleRepository defines the interface for schedule data operations.
type ScheduleRepository interface {
	GetSchedulesByDay(ctx context.Context, day string) ([]ScheduleEntry, error)
	SaveScheduleEntry(ctx context.Context, entry *ScheduleEntry) error
	CountSchedules(ctx context.Context) (int, error)
}

// LibraryRepository defines the interface for library occupancy operations.
type LibraryRepository interface {
	GetLatestLibraryStatus(ctx context.Context) (*LibraryStatus, error)
	InsertLibraryStatus(ctx context.Context, status *LibraryStatus) error
}

// FacultyRepository defines the interface for faculty directory operations.
type FacultyRepository interface {
	SearchFacultyByName(ctx context.Context, name string) ([]Faculty, error)
	GetAllFaculty(ctx context.Context) ([]Faculty, error)
	SaveFaculty(ctx context.Context, member *Faculty) error
	CountFaculty(ctx context.Context) (int, error)
}

// UserRepository defines the interface for account and session operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error
	PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// HealthRepository defines the interface for health check operations.
type HealthRepository interface {
	// Ping verifies database connection is alive.
	Ping(ctx context.Context) error

	// Ready checks if database is ready to serve queries.
	// Performs more thorough checks than Ping.
	Ready(ctx context.Context) error
}

// Repository is the aggregate interface that combines all repository interfaces.
// The DB type implements this interface, providing a single entry point for
// all data operations.
type Repository interface {
	ClassroomRepository
	ScheduleRepository
	LibraryRepository
	FacultyRepository
	UserRepository
	HealthRepository
	Close() error
}

// Ensure DB implements all repository interfaces at compile time.
// This provides early detection of interface implementation issues.
var (
	_ ClassroomRepository = (*DB)(nil)
	_ ScheduleRepository  = (*DB)(nil)
	_ LibraryRepository   = (*DB)(nil)
	_ FacultyRepository   = (*DB)(nil)
	_ UserRepository      = (*DB)(nil)
	_ HealthRepository    = (*DB)(nil)
	_ Repository          = (*DB)(nil)
)
