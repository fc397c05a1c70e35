package chat

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		message string
		want    Intent
	}{
		{"classroom keyword", "any free room right now?", IntentClassroom},
		{"classroom lecture hall", "is the lecture hall open", IntentClassroom},
		{"classroom vacant", "vacant labs?", IntentClassroom},
		{"library keyword", "how full is the library", IntentLibrary},
		{"library seats", "any seats left?", IntentLibrary},
		{"library substring", "seating situation?", IntentLibrary},
		{"faculty professor", "which professor teaches dbms", IntentFaculty},
		{"faculty where is", "where is anita", IntentFaculty},
		{"faculty title", "dr. sharma's cabin", IntentFaculty},
		{"unknown", "what's the weather like", IntentUnknown},
		{"empty", "", IntentUnknown},
		{"whitespace", "   ", IntentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Classify(tt.message); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.message, got, tt.want)
			}
		})
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	t.Parallel()

	// Messages matching several rules resolve in classroom, library,
	// faculty order.
	tests := []struct {
		name    string
		message string
		want    Intent
	}{
		{"classroom beats library", "free room near the library", IntentClassroom},
		{"classroom beats faculty", "sir, any empty room?", IntentClassroom},
		{"library beats faculty", "is the library crowded, sir?", IntentLibrary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Classify(tt.message); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.message, got, tt.want)
			}
		})
	}
}

func TestClassify_CaseAndWidthInsensitive(t *testing.T) {
	t.Parallel()

	if got := Classify("LIBRARY STATUS"); got != IntentLibrary {
		t.Errorf("Uppercase message should classify, got %s", got)
	}
	if got := Classify("ＬＩＢＲＡＲＹ?"); got != IntentLibrary {
		t.Errorf("Full-width message should classify, got %s", got)
	}
}
