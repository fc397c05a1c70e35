package chat

import (
	"context"
	"strings"
	"time"

	"github.com/askdsu/campus-assistant-go/internal/logger"
	"github.com/askdsu/campus-assistant-go/internal/metrics"
)

// msgApology is returned when a module handler panics mid-reply.
const msgApology = "Oops, something went wrong on my end. Try asking about free classrooms, library status, or faculty locations!"

// Module handler contracts. Concrete implementations live in
// internal/modules and internal/genai.
type (
	// ClassroomHandler resolves free-classroom queries at a point in time.
	ClassroomHandler interface {
		Handle(ctx context.Context, now time.Time) string
	}

	// LibraryHandler reports current library occupancy.
	LibraryHandler interface {
		Handle(ctx context.Context) string
	}

	// FacultyHandler locates faculty members by name.
	FacultyHandler interface {
		Handle(ctx context.Context, message string) string
	}

	// AIDispatcher answers messages no local module claims.
	AIDispatcher interface {
		Dispatch(ctx context.Context, message string) string
	}
)

// Reply is the outcome of processing one message.
// Handled is false only for empty input, where nothing was dispatched.
type Reply struct {
	Text    string
	Intent  Intent
	Handled bool
}

// Processor routes classified messages to module handlers.
// It never returns an error or lets a handler panic escape.
type Processor struct {
	classroom ClassroomHandler
	library   LibraryHandler
	faculty   FacultyHandler
	ai        AIDispatcher
	logger    *logger.Logger
	metrics   *metrics.Metrics

	// now supplies the reference clock for schedule resolution.
	now func() time.Time
}

// ProcessorConfig holds configuration for creating a new Processor.
type ProcessorConfig struct {
	Classroom ClassroomHandler
	Library   LibraryHandler
	Faculty   FacultyHandler
	AI        AIDispatcher
	Logger    *logger.Logger
	Metrics   *metrics.Metrics

	// Now overrides the reference clock. Defaults to time.Now.
	Now func() time.Time
}

// NewProcessor creates a message processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Processor{
		classroom: cfg.Classroom,
		library:   cfg.Library,
		faculty:   cfg.Faculty,
		ai:        cfg.AI,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		now:       now,
	}
}

// Process classifies the message and dispatches it to the matching
// module. Empty input is a no-op. One reply per message, always.
func (p *Processor) Process(ctx context.Context, message string) Reply {
	if strings.TrimSpace(message) == "" {
		return Reply{Handled: false}
	}

	start := time.Now()
	intent := Classify(message)

	text := p.dispatch(ctx, intent, message)

	if p.metrics != nil {
		p.metrics.RecordChatMessage(string(intent), "success", time.Since(start).Seconds())
	}
	return Reply{Text: text, Intent: intent, Handled: true}
}

// dispatch invokes the handler for the intent, converting any panic
// into the generic apology.
func (p *Processor) dispatch(ctx context.Context, intent Intent, message string) (text string) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.WithModule("chat").WithField("panic", r).Errorf("Handler panicked for intent %s", intent)
			if p.metrics != nil {
				p.metrics.RecordChatMessage(string(intent), "panic", 0)
			}
			text = msgApology
		}
	}()

	switch intent {
	case IntentClassroom:
		return p.classroom.Handle(ctx, p.now())
	case IntentLibrary:
		return p.library.Handle(ctx)
	case IntentFaculty:
		return p.faculty.Handle(ctx, message)
	default:
		return p.ai.Dispatch(ctx, message)
	}
}
