// Package recovery keeps conversations on the rails: it validates that a
// turn still looks like travel planning and, when something breaks, picks a
// friendly fallback response so the user is never shown a raw error.
package recovery

import (
	"log/slog"
	"math/rand"
	"strings"

	"github.com/tripflow/tripflow/pkg/chat"
)

// Error types selecting a fallback response pool. Anything unrecognized
// falls back to the general pool.
const (
	ErrorGeneral      = "general_error"
	ErrorNoContext    = "no_context"
	ErrorUnclearInput = "unclear_input"
	ErrorOffTopic     = "off_topic"
	ErrorAPI          = "api_error"
)

// Flow issue codes reported by ValidateFlow.
const (
	IssueRepetitiveQuestions = "repetitive_questions"
	IssuePossiblyOffTopic    = "possibly_off_topic"
)

// offTopicMinLength is the message length above which a message with no
// travel vocabulary is flagged. Short acknowledgements always pass.
const offTopicMinLength = 20

var travelKeywords = []string{
	"travel", "trip", "vacation", "visit", "go", "fly", "stay",
	"hotel", "flight", "destination", "holiday", "tour", "booking",
	"reservation", "itinerary", "accommodation", "transportation",
}

var fallbackPools = map[string][]string{
	ErrorGeneral: {
		"I apologize for the confusion; let me help you plan your perfect vacation. What destination are you considering?",
		"Let's get back on track with your travel planning. What aspects are the most important of your trip?",
		"I'm here to help make your vacation planning easier. What are your concerns about your upcoming trip?",
	},
	ErrorNoContext: {
		"I'd love to help you plan an amazing trip! Where are you thinking of?",
		"Let's start planning your adventure! Do you have a destination in mind, or would you like some suggestions?",
		"Ready to plan something special? Tell me about your travel dreams!",
	},
	ErrorUnclearInput: {
		"I want to make sure I understand correctly. Could you tell me more about what you're looking for?",
		"Allow me to help you better with your travel planning. Are you asking about destinations, planning tips, or something specific?",
		"I'm here to help with your vacation planning! Could you elaborate on what aspect of travel you'd like to discuss?",
	},
	ErrorOffTopic: {
		"I'm specialized in vacation planning! Let's talk about your next adventure. Where would you like to go?",
		"My expertise is in helping you plan amazing trips. What travel dreams can I help you with?",
		"Let's focus on creating your perfect vacation. What destinations have you been dreaming about?",
	},
	ErrorAPI: {
		"I'm having a moment of technical difficulty, but I'm still here to help plan your dream vacation! What destination are you considering?",
		"Let me refocus on your travel plans. What's the most important aspect of your trip?",
		"I apologize for the brief interruption; let's continue planning your perfect trip! What aspects of your vacation are most important to you?",
	},
}

// FlowValidation is the outcome of checking one incoming turn against the
// conversation so far.
type FlowValidation struct {
	IsValid     bool     `json:"is_valid"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

// Context carries what is known about the user's plans so a fallback can be
// personalized.
type Context struct {
	LastDestination string
	Stage           chat.Stage
}

// Service selects fallback responses and validates conversation flow. The
// random source is injected so tests can pin the selection.
type Service struct {
	rng    *rand.Rand
	logger *slog.Logger
}

// New creates a Service. A nil rng gets a time-seeded source; a nil logger
// falls back to slog.Default().
func New(rng *rand.Rand, logger *slog.Logger) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{rng: rng, logger: logger.With("component", "recovery")}
}

// GetRecoveryResponse picks a random response from the pool for errorType,
// personalized with context when one is provided.
func (s *Service) GetRecoveryResponse(errorType string, ctx *Context) string {
	pool, ok := fallbackPools[errorType]
	if !ok {
		pool = fallbackPools[ErrorGeneral]
	}
	response := pool[s.rng.Intn(len(pool))]

	if ctx != nil {
		switch {
		case ctx.LastDestination != "":
			response += "\n\nWere you still interested in " + ctx.LastDestination + "?"
		case ctx.Stage == chat.StagePlanning:
			response += "\n\nShall we continue planning your trip?"
		}
	}
	return response
}

// RecoverFromError maps a raw error description to a friendly reply by
// sniffing the text for known failure vocabulary.
func (s *Service) RecoverFromError(errText string) string {
	lower := strings.ToLower(errText)
	switch {
	case strings.Contains(lower, "off topic") || strings.Contains(lower, "unrelated"):
		return "I'm all about travel planning! Let's get back to your next adventure. Any destinations on your mind?"
	case strings.Contains(lower, "ambiguous") || strings.Contains(lower, "unclear"):
		return "Hmm, I want to make sure I get this right. Could you clarify a bit more about what you're looking for in your trip?"
	case strings.Contains(lower, "technical") || strings.Contains(lower, "api"):
		return "Oops, looks like I'm having a technical hiccup! But don't worry, I'm still here to help you plan your dream vacation. Where would you like to go next?"
	default:
		return s.GetRecoveryResponse(ErrorGeneral, nil)
	}
}

// ValidateFlow checks one incoming message against the conversation so far.
// Repeated questions only raise an issue; an off-topic message invalidates
// the turn so the caller can redirect instead of generating.
func (s *Service) ValidateFlow(history []chat.Message, newMessage string) FlowValidation {
	validation := FlowValidation{IsValid: true}

	if len(history) > 2 {
		recent := history
		if len(recent) > 4 {
			recent = recent[len(recent)-4:]
		}
		var userMessages []string
		for _, msg := range recent {
			if msg.Role == chat.RoleUser {
				userMessages = append(userMessages, strings.ToLower(msg.Content))
			}
		}
		if isRepetitive(userMessages) {
			validation.Issues = append(validation.Issues, IssueRepetitiveQuestions)
			validation.Suggestions = append(validation.Suggestions,
				"It seems we might be going in circles. Let me summarize what we've discussed so far.")
		}
	}

	if len(newMessage) > offTopicMinLength && !hasTravelContext(newMessage) {
		validation.Issues = append(validation.Issues, IssuePossiblyOffTopic)
		validation.IsValid = false
	}

	return validation
}

// isRepetitive reports whether fewer than 70% of the messages are distinct.
func isRepetitive(messages []string) bool {
	if len(messages) == 0 {
		return false
	}
	distinct := make(map[string]struct{}, len(messages))
	for _, m := range messages {
		distinct[m] = struct{}{}
	}
	return float64(len(distinct)) < float64(len(messages))*0.7
}

func hasTravelContext(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range travelKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
