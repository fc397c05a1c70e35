// Package main provides the fixture seeding tool. It loads JSON fixtures
// into the campus store so a fresh deployment has reference data to answer
// classroom, library and faculty questions.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/askdsu/campus-assistant-go/internal/auth"
	"github.com/askdsu/campus-assistant-go/internal/config"
	"github.com/askdsu/campus-assistant-go/internal/logger"
	"github.com/askdsu/campus-assistant-go/internal/storage"
	"github.com/askdsu/campus-assistant-go/internal/timeofday"
)

// CLI flags
var (
	fixturesFlag = flag.String("fixtures", "fixtures", "Directory containing JSON fixture files")
	resetFlag    = flag.Bool("reset", false, "Delete existing reference data before seeding")
)

// scheduleFixture references a classroom by room number instead of ID so
// fixtures stay readable and survive re-seeding.
type scheduleFixture struct {
	RoomNumber string `json:"room_number"`
	DayOfWeek  string `json:"day_of_week"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

type libraryFixture struct {
	TotalSeats    int `json:"total_seats"`
	OccupiedSeats int `json:"occupied_seats"`
}

type userFixture struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	log.Info("Starting seed tool")

	db, err := storage.New(cfg.SQLitePath())
	if err != nil {
		log.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()
	log.WithField("path", cfg.SQLitePath()).Info("Database connected")

	ctx := context.Background()

	if *resetFlag {
		log.Warn("Resetting reference data...")
		if err := resetReferenceData(db); err != nil {
			log.WithError(err).Error("Failed to reset reference data")
			os.Exit(1)
		}
		log.Info("Reference data reset complete")
	}

	var failed bool

	classrooms, err := seedClassrooms(ctx, db, *fixturesFlag)
	if err != nil {
		log.WithError(err).Error("Classroom seeding failed")
		failed = true
	}

	schedules, err := seedSchedules(ctx, db, *fixturesFlag)
	if err != nil {
		log.WithError(err).Error("Schedule seeding failed")
		failed = true
	}

	libraryOK, err := seedLibraryStatus(ctx, db, *fixturesFlag)
	if err != nil {
		log.WithError(err).Error("Library status seeding failed")
		failed = true
	}

	faculty, err := seedFaculty(ctx, db, *fixturesFlag)
	if err != nil {
		log.WithError(err).Error("Faculty seeding failed")
		failed = true
	}

	users, err := seedUsers(ctx, db, log, *fixturesFlag)
	if err != nil {
		log.WithError(err).Error("User seeding failed")
		failed = true
	}

	fmt.Println("\n📊 Seed Summary:")
	fmt.Println("================")
	fmt.Printf("✅ Classrooms: %d\n", classrooms)
	fmt.Printf("✅ Schedules:  %d\n", schedules)
	if libraryOK {
		fmt.Println("✅ Library status snapshot written")
	} else {
		fmt.Println("⏭️  Library status fixture absent, skipped")
	}
	fmt.Printf("✅ Faculty:    %d\n", faculty)
	fmt.Printf("✅ Users:      %d\n", users)

	if failed {
		os.Exit(1)
	}
}

// loadFixture decodes one fixture file into out.
// A missing file is not an error; it reports found=false.
func loadFixture(dir, name string, out any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("parse %s: %w", name, err)
	}
	return true, nil
}

func resetReferenceData(db *storage.DB) error {
	for _, table := range []string{"schedules", "classrooms", "library_status", "faculty"} {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func seedClassrooms(ctx context.Context, db *storage.DB, dir string) (int, error) {
	var rooms []storage.Classroom
	found, err := loadFixture(dir, "classrooms.json", &rooms)
	if err != nil || !found {
		return 0, err
	}

	for i := range rooms {
		if err := db.SaveClassroom(ctx, &rooms[i]); err != nil {
			return i, fmt.Errorf("save classroom %s: %w", rooms[i].RoomNumber, err)
		}
	}
	return len(rooms), nil
}

func seedSchedules(ctx context.Context, db *storage.DB, dir string) (int, error) {
	var entries []scheduleFixture
	found, err := loadFixture(dir, "schedules.json", &entries)
	if err != nil || !found {
		return 0, err
	}

	roomIDs, err := roomNumberIndex(ctx, db)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, e := range entries {
		id, ok := roomIDs[e.RoomNumber]
		if !ok {
			return count, fmt.Errorf("schedule references unknown room %q", e.RoomNumber)
		}
		start, err := timeofday.Parse(e.StartTime)
		if err != nil {
			return count, fmt.Errorf("schedule for %s: %w", e.RoomNumber, err)
		}
		end, err := timeofday.Parse(e.EndTime)
		if err != nil {
			return count, fmt.Errorf("schedule for %s: %w", e.RoomNumber, err)
		}
		entry := &storage.ScheduleEntry{
			ClassroomID: id,
			DayOfWeek:   e.DayOfWeek,
			StartTime:   start.String(),
			EndTime:     end.String(),
		}
		if err := db.SaveScheduleEntry(ctx, entry); err != nil {
			return count, fmt.Errorf("save schedule for %s: %w", e.RoomNumber, err)
		}
		count++
	}
	return count, nil
}

// roomNumberIndex maps room numbers to row IDs across every classroom,
// including rooms seeded as unavailable.
func roomNumberIndex(ctx context.Context, db *storage.DB) (map[string]int64, error) {
	rooms, err := db.GetAllClassrooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("load classrooms: %w", err)
	}
	index := make(map[string]int64, len(rooms))
	for _, room := range rooms {
		index[room.RoomNumber] = room.ID
	}
	return index, nil
}

func seedLibraryStatus(ctx context.Context, db *storage.DB, dir string) (bool, error) {
	var status libraryFixture
	found, err := loadFixture(dir, "library.json", &status)
	if err != nil || !found {
		return false, err
	}

	return true, db.InsertLibraryStatus(ctx, &storage.LibraryStatus{
		TotalSeats:    status.TotalSeats,
		OccupiedSeats: status.OccupiedSeats,
		LastUpdated:   time.Now(),
	})
}

func seedFaculty(ctx context.Context, db *storage.DB, dir string) (int, error) {
	var members []storage.Faculty
	found, err := loadFixture(dir, "faculty.json", &members)
	if err != nil || !found {
		return 0, err
	}

	for i := range members {
		if err := db.SaveFaculty(ctx, &members[i]); err != nil {
			return i, fmt.Errorf("save faculty %s: %w", members[i].Name, err)
		}
	}
	return len(members), nil
}

func seedUsers(ctx context.Context, db *storage.DB, log *logger.Logger, dir string) (int, error) {
	var users []userFixture
	found, err := loadFixture(dir, "users.json", &users)
	if err != nil || !found {
		return 0, err
	}

	// Register hashes passwords and enforces credential rules.
	svc := auth.NewService(db, nil, log, time.Hour)

	count := 0
	for _, u := range users {
		if _, err := svc.Register(ctx, u.Email, u.Password, u.DisplayName); err != nil {
			// Existing accounts are fine on re-seeding.
			log.WithError(err).WithField("email", u.Email).Warn("Skipping user")
			continue
		}
		count++
	}
	return count, nil
}
