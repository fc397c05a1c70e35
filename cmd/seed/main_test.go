package main

import (
	"context"
	"testing"

	"github.com/askdsu/campus-assistant-go/internal/storage"
)

func TestRoomNumberIndex_IncludesUnavailableRooms(t *testing.T) {
	t.Parallel()

	db, err := storage.NewTestDB()
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	rooms := []*storage.Classroom{
		{RoomNumber: "101", Building: "Main Block", Capacity: 60, IsAvailable: true},
		{RoomNumber: "102", Building: "Main Block", Capacity: 30, IsAvailable: false},
	}
	for _, room := range rooms {
		if err := db.SaveClassroom(ctx, room); err != nil {
			t.Fatalf("SaveClassroom failed: %v", err)
		}
	}

	index, err := roomNumberIndex(ctx, db)
	if err != nil {
		t.Fatalf("roomNumberIndex failed: %v", err)
	}

	// Schedules may reference rooms seeded as unavailable, so the index
	// must cover every room.
	for _, room := range rooms {
		if _, ok := index[room.RoomNumber]; !ok {
			t.Errorf("Expected room %s in index", room.RoomNumber)
		}
	}
}
