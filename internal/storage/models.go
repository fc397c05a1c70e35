package storage

import "time"

// Classroom represents a classroom reference record.
// Reference data; read-only outside seeding.
type Classroom struct {
	ID          int64  `json:"id"`
	RoomNumber  string `json:"room_number"`
	Building    string `json:"building"`
	Capacity    int    `json:"capacity"`
	IsAvailable bool   `json:"is_available"` // available-by-default flag
}

// ScheduleEntry represents a recurring weekly occupancy window for a classroom.
// Times are stored as zero-padded HH:MM:SS text and parsed at the boundary.
type ScheduleEntry struct {
	ID          int64  `json:"id"`
	ClassroomID int64  `json:"classroom_id"`
	DayOfWeek   string `json:"day_of_week"` // "monday" .. "sunday", lowercase
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

// LibraryStatus represents one library occupancy snapshot.
type LibraryStatus struct {
	ID            int64     `json:"id"`
	TotalSeats    int       `json:"total_seats"`
	OccupiedSeats int       `json:"occupied_seats"`
	LastUpdated   time.Time `json:"last_updated"`
}

// Faculty represents a faculty directory record.
type Faculty struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	CabinNumber string `json:"cabin_number"`
	Department  string `json:"department"`
	IsAvailable bool   `json:"is_available"`
	Email       string `json:"email,omitempty"`
}

// User represents a login account.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	DisplayName  string `json:"display_name"`
}

// Session represents an opaque access token bound to a user.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
