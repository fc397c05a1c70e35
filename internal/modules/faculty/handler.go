// Package faculty implements the faculty locator module.
// It extracts a name from a free-form query, searches the faculty
// directory, and renders cabin location cards. Failed lookups fall
// back to keyword-index suggestions.
package faculty

import (
	"context"
	"fmt"
	"strings"

	"github.com/askdsu/campus-assistant-go/internal/logger"
	"github.com/askdsu/campus-assistant-go/internal/search"
	"github.com/askdsu/campus-assistant-go/internal/storage"
	"github.com/askdsu/campus-assistant-go/internal/stringutil"
)

// ModuleName is the module identifier used for logging and metrics labels.
const ModuleName = "faculty"

const (
	msgAskForName  = "Give me a faculty name to search. Try: 'Where is Dr. Sharma?' or 'Find Professor Patel'"
	msgSearchError = "Faculty search failed. Try again in a bit."
)

// Phrase lists for the name extraction pipeline, stripped in order.
// Longer phrases come before their prefixes so "professor" never
// degrades into "essor".
var (
	queryVerbs = []string{"where is", "find", "locate", "search", "show me", "tell me about", "contact"}
	roleWords  = []string{"teacher", "professor", "faculty", "sir", "madam", "mam", "prof"}
	titles     = []string{"dr.", "dr "}

	// Words never usable as a name by the last-resort extractor.
	fallbackStopwords = map[string]bool{
		"where": true, "find": true, "show": true,
		"tell": true, "about": true, "the": true,
	}
)

// Handler answers faculty location queries from the directory store.
type Handler struct {
	db         *storage.DB
	index      *search.Index
	logger     *logger.Logger
	maxResults int
}

// NewHandler creates a faculty handler with required dependencies.
// The suggestion index may be nil. maxResults caps the multi-match
// list rendering.
func NewHandler(db *storage.DB, index *search.Index, log *logger.Logger, maxResults int) *Handler {
	if maxResults < 1 {
		maxResults = 10
	}
	return &Handler{
		db:         db,
		index:      index,
		logger:     log,
		maxResults: maxResults,
	}
}

// Name returns the module name
func (h *Handler) Name() string {
	return ModuleName
}

// Handle resolves a faculty location query to a directory card.
func (h *Handler) Handle(ctx context.Context, message string) string {
	log := h.logger.WithModule(ModuleName)

	name := ExtractName(message)
	if name == "" {
		return msgAskForName
	}

	log.Debugf("Searching faculty directory for: %s", name)

	matches, err := h.db.SearchFacultyByName(ctx, name)
	if err != nil {
		log.WithError(err).Errorf("Faculty search failed for: %s", name)
		return msgSearchError
	}

	switch len(matches) {
	case 0:
		return h.notFoundMessage(name)
	case 1:
		return formatCard(matches[0])
	default:
		return h.formatList(matches)
	}
}

// ExtractName pulls a searchable faculty name out of a free-form query.
// The pipeline strips query verbs, then role words, then titles from the
// normalized message. If fewer than two characters survive, the first
// word longer than three characters that is not a stopword is used
// instead. An empty result means the query carried no usable name.
func ExtractName(message string) string {
	name := stringutil.NormalizeQuery(message)
	name = stringutil.StripPhrases(name, queryVerbs)
	name = stringutil.StripPhrases(name, roleWords)
	name = stringutil.StripPhrases(name, titles)
	name = strings.Trim(name, " ?!.,")

	if len(name) >= 2 {
		return name
	}

	for _, word := range strings.Fields(stringutil.NormalizeQuery(message)) {
		word = strings.Trim(word, "?!.,")
		if len(word) > 3 && !fallbackStopwords[word] {
			return word
		}
	}
	return ""
}

// notFoundMessage renders the no-match reply with example queries and,
// when the keyword index has candidates, near-miss suggestions.
func (h *Handler) notFoundMessage(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "No faculty found matching %q. Try:\n", name)
	b.WriteString("• Dr. Sharma\n• Dr. Patel\n• Dr. Kumar\n• Dr. Singh\n• Prof. Desai")

	suggestions, err := h.index.Suggest(name, 3)
	if err != nil {
		h.logger.WithModule(ModuleName).WithError(err).Warnf("Suggestion lookup failed for: %s", name)
	}
	if len(suggestions) > 0 {
		b.WriteString("\n\nDid you mean:\n")
		for _, s := range suggestions {
			fmt.Fprintf(&b, "• %s (%s, Cabin %s)\n", s.Name, s.Department, s.CabinNumber)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatCard renders the full single-match card.
func formatCard(member storage.Faculty) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n", member.Name)
	fmt.Fprintf(&b, "📍 Cabin: %s\n", member.CabinNumber)
	fmt.Fprintf(&b, "🏛️ Department: %s\n", member.Department)
	fmt.Fprintf(&b, "📊 Status: %s\n", availabilityStatus(member.IsAvailable))
	if member.Email != "" {
		fmt.Fprintf(&b, "📧 Email: %s\n", member.Email)
	}
	if member.IsAvailable {
		b.WriteString("\n✨ Faculty is available right now!")
	} else {
		b.WriteString("\n⏰ Faculty might be in class or a meeting. Try later!")
	}
	return b.String()
}

// formatList renders the compact multi-match list, without emails.
// Lists longer than the configured cap are truncated with a count of
// the omitted members.
func (h *Handler) formatList(members []storage.Faculty) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Found %d faculty members:**\n\n", len(members))

	shown := members
	if len(shown) > h.maxResults {
		shown = shown[:h.maxResults]
	}
	for _, member := range shown {
		fmt.Fprintf(&b, "• **%s**\n  Cabin: %s | %s\n  Status: %s\n\n",
			member.Name, member.CabinNumber, member.Department, availabilityStatus(member.IsAvailable))
	}
	if omitted := len(members) - len(shown); omitted > 0 {
		fmt.Fprintf(&b, "...and %d more. Narrow the name to see them.\n", omitted)
	}
	return strings.TrimRight(b.String(), "\n")
}

func availabilityStatus(available bool) string {
	if available {
		return "✅ Available"
	}
	return "❌ Busy"
}
