// Package proactive produces stage-aware nudges: ranked suggestions for what
// to work on next and anticipated questions the user is likely to ask soon.
package proactive

import (
	"fmt"
	"sort"

	"github.com/tripflow/tripflow/pkg/chat"
)

// Suggestion types.
const (
	TypeWelcome       = "welcome"
	TypeAccommodation = "accommodation"
	TypeActivities    = "activities"
	TypeDestination   = "destination"
	TypeComparison    = "comparison"
	TypeBooking       = "booking"
	TypeBudget        = "budget"
	TypeGeneral       = "general"
)

// maxSuggestions bounds both suggestion lists so the UI never overflows.
const maxSuggestions = 3

// Suggestion is one proactive nudge, ranked by priority (0 to 10).
type Suggestion struct {
	Type     string  `json:"type"`
	Content  string  `json:"content"`
	Priority float64 `json:"priority"`
}

// Assistant is stateless; every call derives its output from the arguments.
type Assistant struct{}

// New creates an Assistant.
func New() *Assistant {
	return &Assistant{}
}

// GetSuggestions builds the nudges for the current turn: a welcome early in
// the conversation, a stage-specific set, a destination highlight when one is
// known, and a budget prompt while the budget is unknown. Returns at most
// three, highest priority first; insertion order breaks ties.
func (a *Assistant) GetSuggestions(stage chat.Stage, prefs chat.Preferences, messageCount int) []Suggestion {
	var suggestions []Suggestion

	if messageCount <= 3 {
		suggestions = append(suggestions, Suggestion{
			Type: TypeWelcome,
			Content: "👋 **Getting Started**: I'm here to help you plan your perfect vacation! " +
				"Tell me about your travel dreams and I'll guide you through the planning process.",
			Priority: 9,
		})
	}

	switch stage {
	case chat.StagePlanning:
		suggestions = append(suggestions,
			Suggestion{
				Type:     TypeAccommodation,
				Content:  "🏨 **Where to Stay**: Let's find you a great place to stay for your trip.",
				Priority: 8,
			},
			Suggestion{
				Type:     TypeActivities,
				Content:  "🎯 **What to Do**: What experiences and attractions are on your must-see list?",
				Priority: 7,
			})
	case chat.StageExploring:
		suggestions = append(suggestions, Suggestion{
			Type:     TypeDestination,
			Content:  "🌍 **Where to Go**: Would you like some destination ideas, or do you have a place in mind?",
			Priority: 8,
		})
	case chat.StageComparing:
		suggestions = append(suggestions, Suggestion{
			Type:     TypeComparison,
			Content:  "🔍 **Comparing Places**: Need help weighing the pros and cons of your top choices?",
			Priority: 8,
		})
	case chat.StageFinalizing:
		suggestions = append(suggestions, Suggestion{
			Type:     TypeBooking,
			Content:  "📋 **Wrapping Up**: Let's finalize your bookings and get you ready for your trip.",
			Priority: 8,
		})
	}

	if len(prefs.Destinations) > 0 {
		dest := prefs.Destinations[0]
		suggestions = append(suggestions, Suggestion{
			Type: TypeDestination,
			Content: fmt.Sprintf("🗺️ **%s Highlights**: I can help you discover the best attractions, "+
				"local cuisine, and hidden gems in %s!", dest, dest),
			Priority: 6,
		})
	}

	if !prefs.HasBudget() {
		suggestions = append(suggestions, Suggestion{
			Type:     TypeBudget,
			Content:  "💰 **Budget Talk**: Understanding your budget helps me suggest the best options for your dream vacation.",
			Priority: 7,
		})
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, Suggestion{
			Type:     TypeGeneral,
			Content:  "🌟 **What's Next**: Let's continue planning your perfect vacation! What would you like to know more about?",
			Priority: 5,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Priority > suggestions[j].Priority
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// AnticipateNextQuestions predicts up to three topics the user is likely to
// raise next, skipping checklist items whose keyword already came up in
// recentTopics. Never returns an empty list.
func (a *Assistant) AnticipateNextQuestions(stage chat.Stage, prefs chat.Preferences, recentTopics []string) []string {
	covered := make(map[string]struct{}, len(recentTopics))
	for _, topic := range recentTopics {
		covered[topic] = struct{}{}
	}
	seen := func(keyword string) bool {
		_, ok := covered[keyword]
		return ok
	}

	var anticipated []string
	if len(recentTopics) == 0 {
		anticipated = append(anticipated, "where to travel", "destination options", "budget considerations")
	}

	switch stage {
	case chat.StageExploring:
		if !seen("destination") {
			anticipated = append(anticipated, "where to travel")
		}
		if !seen("budget") {
			anticipated = append(anticipated, "budget considerations")
		}
		if !seen("weather") {
			anticipated = append(anticipated, "best time to visit")
		}
		if !seen("duration") {
			anticipated = append(anticipated, "how long to stay")
		}
	case chat.StageComparing:
		if !seen("preferences") {
			anticipated = append(anticipated, "which destination do you prefer")
		}
		if !seen("style") {
			anticipated = append(anticipated, "what travel style do you prefer")
		}
		if !seen("activities") {
			anticipated = append(anticipated, "what activities do you prefer")
		}
		if !seen("accommodation") {
			anticipated = append(anticipated, "where to stay")
		}
	case chat.StagePlanning:
		if !seen("hotel") && !seen("accommodation") {
			anticipated = append(anticipated, "where to stay and hotel options",
				"accommodation preferences and booking")
		} else {
			anticipated = append(anticipated, "hotel booking and reservation details",
				"accommodation preferences and room types")
		}
		if !seen("activities") {
			anticipated = append(anticipated, "what activities to include")
		}
		if !seen("itinerary") {
			anticipated = append(anticipated, "daily itinerary planning")
		}
		if !seen("transport") {
			anticipated = append(anticipated, "transportation options")
		}
		if !seen("documents") {
			anticipated = append(anticipated, "travel documents needed")
		}
		if !seen("insurance") {
			anticipated = append(anticipated, "travel insurance")
		}
		if !seen("packing") {
			anticipated = append(anticipated, "what to pack")
		}
	case chat.StageFinalizing:
		if !seen("booking") {
			anticipated = append(anticipated, "when to book")
		}
		if !seen("documents") {
			anticipated = append(anticipated, "what documents needed")
		}
		if !seen("checklist") {
			anticipated = append(anticipated, "final checklist")
		}
	default:
		if !seen("destination") {
			anticipated = append(anticipated, "destination options")
		}
		if !seen("budget") {
			anticipated = append(anticipated, "budget considerations")
		}
		if !seen("timing") {
			anticipated = append(anticipated, "best travel times")
		}
	}

	if len(anticipated) == 0 {
		anticipated = append(anticipated, "where to travel")
	}
	if len(anticipated) > maxSuggestions {
		anticipated = anticipated[:maxSuggestions]
	}
	return anticipated
}
