package faculty

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/askdsu/campus-assistant-go/internal/logger"
	"github.com/askdsu/campus-assistant-go/internal/search"
	"github.com/askdsu/campus-assistant-go/internal/storage"
)

func newTestHandler(t *testing.T, index *search.Index) (*Handler, *storage.DB) {
	t.Helper()

	db, err := storage.NewTestDB()
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	log := logger.NewWithWriter("error", io.Discard)
	return NewHandler(db, index, log, 10), db
}

func seedFaculty(t *testing.T, db *storage.DB, member storage.Faculty) {
	t.Helper()

	if err := db.SaveFaculty(context.Background(), &member); err != nil {
		t.Fatalf("Failed to seed faculty %s: %v", member.Name, err)
	}
}

func TestExtractName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"title and verb", "Where is Dr. Sharma?", "sharma"},
		{"professor role word", "Find Professor Patel", "patel"},
		{"locate verb", "locate anita sharma", "anita sharma"},
		{"sir suffix", "where is sharma sir", "sharma"},
		{"madam suffix", "kumar madam cabin", "kumar cabin"},
		{"bare name", "Sharma", "sharma"},
		{"full-width input", "ｗｈｅｒｅ　ｉｓ　Ｓｈａｒｍａ", "sharma"},
		{"residue kept verbatim", "where is that Venkatesh", "that venkatesh"},
		{"fallback to surviving word", "contact faculty", "contact"},
		{"leftover stopword kept as residue", "where is the", "the"},
		{"no usable name", "where is", ""},
		{"empty message", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ExtractName(tt.message); got != tt.want {
				t.Errorf("ExtractName(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestHandle_AskForNameWhenUnextractable(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, nil)

	got := h.Handle(context.Background(), "where is")
	if got != msgAskForName {
		t.Errorf("Expected %q, got %q", msgAskForName, got)
	}
}

func TestHandle_SingleMatchCard(t *testing.T) {
	t.Parallel()

	h, db := newTestHandler(t, nil)
	seedFaculty(t, db, storage.Faculty{
		Name:        "Anita Sharma",
		CabinNumber: "C-101",
		Department:  "Computer Science",
		IsAvailable: true,
		Email:       "anita.sharma@dsu.edu.in",
	})

	got := h.Handle(context.Background(), "Where is Dr. Sharma?")
	for _, want := range []string{
		"**Anita Sharma**",
		"📍 Cabin: C-101",
		"🏛️ Department: Computer Science",
		"📊 Status: ✅ Available",
		"📧 Email: anita.sharma@dsu.edu.in",
		"✨ Faculty is available right now!",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in card, got %q", want, got)
		}
	}
}

func TestHandle_BusyMemberWithoutEmail(t *testing.T) {
	t.Parallel()

	h, db := newTestHandler(t, nil)
	seedFaculty(t, db, storage.Faculty{
		Name:        "Ravi Patel",
		CabinNumber: "B-204",
		Department:  "Mechanical Engineering",
		IsAvailable: false,
	})

	got := h.Handle(context.Background(), "find professor patel")
	if !strings.Contains(got, "📊 Status: ❌ Busy") {
		t.Errorf("Expected busy status, got %q", got)
	}
	if !strings.Contains(got, "⏰ Faculty might be in class or a meeting. Try later!") {
		t.Errorf("Expected busy closing line, got %q", got)
	}
	if strings.Contains(got, "📧") {
		t.Errorf("Card without email should omit the email row, got %q", got)
	}
}

func TestHandle_MultipleMatchesListed(t *testing.T) {
	t.Parallel()

	h, db := newTestHandler(t, nil)
	seedFaculty(t, db, storage.Faculty{
		Name: "Anita Sharma", CabinNumber: "C-101", Department: "Computer Science",
		IsAvailable: true, Email: "anita.sharma@dsu.edu.in",
	})
	seedFaculty(t, db, storage.Faculty{
		Name: "Priya Sharma", CabinNumber: "D-015", Department: "Physics",
		IsAvailable: false, Email: "priya.sharma@dsu.edu.in",
	})

	got := h.Handle(context.Background(), "where is dr. sharma")
	if !strings.Contains(got, "**Found 2 faculty members:**") {
		t.Errorf("Expected list header, got %q", got)
	}
	if !strings.Contains(got, "**Anita Sharma**") || !strings.Contains(got, "**Priya Sharma**") {
		t.Errorf("Expected both members listed, got %q", got)
	}
	if strings.Contains(got, "📧") || strings.Contains(got, "@dsu.edu.in") {
		t.Errorf("List view should not expose emails, got %q", got)
	}
}

func TestHandle_ListTruncatedAtMaxResults(t *testing.T) {
	t.Parallel()

	db, err := storage.NewTestDB()
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	log := logger.NewWithWriter("error", io.Discard)
	h := NewHandler(db, nil, log, 2)

	for _, member := range []storage.Faculty{
		{Name: "Anita Sharma", CabinNumber: "C-101", Department: "Computer Science"},
		{Name: "Priya Sharma", CabinNumber: "D-015", Department: "Physics"},
		{Name: "Vikram Sharma", CabinNumber: "A-310", Department: "Mathematics"},
	} {
		seedFaculty(t, db, member)
	}

	got := h.Handle(context.Background(), "where is dr. sharma")
	if !strings.Contains(got, "**Found 3 faculty members:**") {
		t.Errorf("Expected full match count in header, got %q", got)
	}
	if !strings.Contains(got, "...and 1 more") {
		t.Errorf("Expected truncation note, got %q", got)
	}
	if strings.Contains(got, "**Vikram Sharma**") {
		t.Errorf("Third member should be omitted from a capped list, got %q", got)
	}
}

func TestHandle_NotFoundWithExamples(t *testing.T) {
	t.Parallel()

	h, db := newTestHandler(t, nil)
	seedFaculty(t, db, storage.Faculty{
		Name: "Anita Sharma", CabinNumber: "C-101", Department: "Computer Science",
	})

	got := h.Handle(context.Background(), "where is dr. verma")
	if !strings.Contains(got, `No faculty found matching "verma"`) {
		t.Errorf("Expected not-found line with extracted name, got %q", got)
	}
	if !strings.Contains(got, "• Dr. Sharma") || !strings.Contains(got, "• Prof. Desai") {
		t.Errorf("Expected example queries, got %q", got)
	}
	if strings.Contains(got, "Did you mean") {
		t.Errorf("No suggestions expected without an index, got %q", got)
	}
}

func TestHandle_NotFoundWithSuggestions(t *testing.T) {
	t.Parallel()

	log := logger.NewWithWriter("error", io.Discard)
	index, err := search.NewIndex(log)
	if err != nil {
		t.Fatalf("Failed to create index: %v", err)
	}

	members := []storage.Faculty{
		{Name: "Anita Sharma", CabinNumber: "C-101", Department: "Computer Science"},
		{Name: "Ravi Patel", CabinNumber: "B-204", Department: "Mechanical Engineering"},
	}
	if err := index.Build(members); err != nil {
		t.Fatalf("Failed to build index: %v", err)
	}

	h, db := newTestHandler(t, index)
	for _, m := range members {
		seedFaculty(t, db, m)
	}

	// "sharma from electronics" matches nothing verbatim but shares the
	// sharma token with an indexed member.
	got := h.Handle(context.Background(), "where is sharma from electronics")
	if !strings.Contains(got, "No faculty found") {
		t.Errorf("Expected not-found message, got %q", got)
	}
	if !strings.Contains(got, "Did you mean:") {
		t.Errorf("Expected suggestions, got %q", got)
	}
	if !strings.Contains(got, "Anita Sharma (Computer Science, Cabin C-101)") {
		t.Errorf("Expected Anita Sharma suggestion, got %q", got)
	}
}

func TestHandle_StoreError(t *testing.T) {
	t.Parallel()

	h, db := newTestHandler(t, nil)
	_ = db.Close()

	got := h.Handle(context.Background(), "where is dr. sharma")
	if got != msgSearchError {
		t.Errorf("Expected %q, got %q", msgSearchError, got)
	}
}
