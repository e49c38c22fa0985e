// Package intel reads between the lines of a conversation: which planning
// stage the user is in, what kind of trip they want, what budget they hint
// at, and how ready they are to commit.
package intel

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tripflow/tripflow/pkg/chat"
)

// Insights is everything the analyzer can derive from a conversation.
type Insights struct {
	MentionedDestinations []string     `json:"mentioned_destinations"`
	BudgetIndicators      []string     `json:"budget_indicators"`
	BudgetAmount          int          `json:"budget_amount,omitempty"`
	DetectedInterests     []string     `json:"detected_interests"`
	DecisionStage         chat.Stage   `json:"decision_stage"`
	StageConfidence       float64      `json:"stage_confidence"`
	StageProgression      []chat.Stage `json:"stage_progression"`
	DecisionReadiness     float64      `json:"decision_readiness"`
	Concerns              []string     `json:"concerns"`
	ExperienceLevel       string       `json:"travel_experience_level"`
}

// Analyzer derives Insights from a conversation. Implementations must not
// mutate the message slice.
type Analyzer interface {
	Analyze(ctx context.Context, messages []chat.Message, prefs chat.Preferences) (Insights, error)
}

// Message-weighting constants for stage scoring. The last three user
// messages count for more than everything before them, and question phrases
// are stronger signals than plain keywords.
const (
	recentMessageWeight = 0.7
	olderMessageWeight  = 0.3
	questionMultiplier  = 1.5
	recentWindow        = 3
)

// stageSignals pairs a stage with the vocabulary that points to it.
// Question phrases are matched separately at a higher weight.
type stageSignals struct {
	stage     chat.Stage
	positive  []string
	questions []string
}

// Order matters: it is the tiebreak when two stages score equally.
var stageKeywords = []stageSignals{
	{
		stage: chat.StageExploring,
		positive: []string{
			"thinking about", "considering", "wondering", "ideas", "suggestions",
			"inspire", "options", "possibilities", "what about", "how about",
			"somewhere", "anywhere", "dream", "always wanted", "bucket list",
		},
		questions: []string{
			"where should", "where can", "what destinations", "any recommendations",
			"suggest some places", "what do you think",
		},
	},
	{
		stage: chat.StageComparing,
		positive: []string{
			"vs", "versus", "or", "between", "compare", "comparison",
			"which is better", "difference between", "pros and cons",
			"advantages", "disadvantages", "rather", "instead of",
		},
		questions: []string{
			"which one", "what's better", "should i choose", "help me decide",
		},
	},
	{
		stage: chat.StagePlanning,
		positive: []string{
			"itinerary", "schedule", "plan", "days in", "nights in",
			"what to do", "activities", "must see", "must do", "route",
			"transportation", "getting around", "where to stay", "neighborhoods",
			"july", "august", "september", "october", "november", "december",
			"january", "february", "march", "april", "may", "june",
			"days", "weeks", "months", "duration", "length", "time",
			"budget", "cost", "price", "money", "dollars", "euros",
			"specific", "detailed", "exact", "precise", "definite",
		},
		questions: []string{
			"how many days", "what should i do", "where to stay", "how to get",
			"how much will it cost", "what's the budget", "when should i go",
		},
	},
	{
		stage: chat.StageFinalizing,
		positive: []string{
			"book", "booking", "reserve", "reservation", "when to book",
			"best time to book", "finalize", "decided", "going to",
			"will be traveling", "confirmed", "tickets", "visa",
		},
		questions: []string{
			"how to book", "where to book", "when should i book", "what documents",
		},
	},
}

var monthWords = []string{
	"july", "august", "september", "october", "november", "december",
	"january", "february", "march", "april", "may", "june",
}

var durationWords = []string{"days", "weeks", "months", "duration", "length"}

var budgetWords = []string{"budget", "cost", "price", "money", "dollars", "euros"}

var comparisonWords = []string{
	"between", "vs", "versus", "or", "compare", "comparison", "which",
	"rather", "instead",
}

var tightBudgetPhrases = []string{
	"tight budget", "limited budget", "small budget", "low budget",
	"restricted budget",
}

// preferenceWords mark a message as being about tastes and interests rather
// than logistics, which pulls an otherwise budget-heavy turn back to the
// exploring stage.
var preferenceWords = []string{
	"want", "prefer", "looking for", "interested in", "options", "ideas",
	"experience", "adventure", "culture", "food", "local", "not luxury",
	"not expensive", "not costly", "not pricey", "affordable", "cheap",
	"budget-friendly", "save", "explore", "try", "see", "do", "enjoy", "fun",
	"relax", "discover", "learn", "meet", "connect", "enrich", "grow",
	"enjoyable", "memorable", "unique", "special", "different", "variety",
	"diverse", "broad", "wide", "range", "choice", "select", "pick",
	"choose", "decide", "consider", "think", "plan", "dream", "wish", "hope",
	"aspire", "goal", "aim", "objective", "target", "purpose", "reason",
	"motivation", "drive", "passion", "interest", "curious", "curiosity",
}

// KeywordAnalyzer is the keyword and regex implementation of Analyzer. It is
// stateless and cheap enough to run on every turn.
type KeywordAnalyzer struct {
	logger *slog.Logger
}

var _ Analyzer = (*KeywordAnalyzer)(nil)

// NewKeywordAnalyzer creates a KeywordAnalyzer. A nil logger falls back to
// slog.Default().
func NewKeywordAnalyzer(logger *slog.Logger) *KeywordAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &KeywordAnalyzer{logger: logger.With("component", "intel")}
}

// Analyze inspects the user side of the conversation and the preferences
// known so far. The context is accepted for interface symmetry with
// model-backed analyzers; this implementation never blocks.
func (a *KeywordAnalyzer) Analyze(_ context.Context, messages []chat.Message, prefs chat.Preferences) (Insights, error) {
	var userMessages []chat.Message
	var parts []string
	for _, msg := range messages {
		if msg.Role == chat.RoleUser {
			userMessages = append(userMessages, msg)
			parts = append(parts, strings.ToLower(msg.Content))
		}
	}
	fullText := strings.Join(parts, " ")

	stage := a.scoreStages(userMessages, prefs)
	destinations := extractDestinations(userMessages)

	insights := Insights{
		MentionedDestinations: destinations,
		BudgetIndicators:      detectBudgetLevel(fullText),
		BudgetAmount:          extractBudgetAmount(fullText),
		DetectedInterests:     detectInterests(fullText),
		DecisionStage:         stage.stage,
		StageConfidence:       stage.confidence,
		StageProgression:      stage.progression,
		DecisionReadiness:     decisionReadiness(prefs, len(userMessages), destinations),
		Concerns:              detectConcerns(fullText),
		ExperienceLevel:       detectExperienceLevel(fullText),
	}
	a.logger.Debug("analyzed conversation",
		"stage", insights.DecisionStage,
		"confidence", insights.StageConfidence,
		"destinations", len(insights.MentionedDestinations))
	return insights, nil
}

type stageResult struct {
	stage       chat.Stage
	confidence  float64
	progression []chat.Stage
}

// scoreStages walks the stage vocabularies over the user messages,
// weighting the last three messages at 0.7 and the rest at 0.3, then applies
// preference adjustments and explicit overrides drawn from the latest turn.
func (a *KeywordAnalyzer) scoreStages(userMessages []chat.Message, prefs chat.Preferences) stageResult {
	scores := make(map[chat.Stage]float64, len(stageKeywords))

	recent := userMessages
	var older []chat.Message
	if len(userMessages) > recentWindow {
		recent = userMessages[len(userMessages)-recentWindow:]
		older = userMessages[:len(userMessages)-recentWindow]
	}

	for _, msg := range recent {
		text := strings.ToLower(msg.Content)
		for _, sig := range stageKeywords {
			var score float64
			for _, keyword := range sig.positive {
				if strings.Contains(text, keyword) {
					score++
				}
			}
			for _, question := range sig.questions {
				if strings.Contains(text, question) {
					score += questionMultiplier
				}
			}
			scores[sig.stage] += score * recentMessageWeight
		}
	}
	for _, msg := range older {
		text := strings.ToLower(msg.Content)
		for _, sig := range stageKeywords {
			var score float64
			for _, keyword := range sig.positive {
				if strings.Contains(text, keyword) {
					score++
				}
			}
			scores[sig.stage] += score * olderMessageWeight
		}
	}

	if len(prefs.Destinations) > 0 {
		scores[chat.StageExploring] *= 0.5
		scores[chat.StageComparing] *= 1.2
		scores[chat.StagePlanning] *= 1.3
	}
	if prefs.Has("travel_dates") && prefs.BudgetRange != "" {
		scores[chat.StagePlanning] *= 1.5
		scores[chat.StageFinalizing] *= 1.2
	}

	override := stageOverride(userMessages)

	var total float64
	for _, sig := range stageKeywords {
		total += scores[sig.stage]
	}
	if total == 0 {
		total = 1
	}

	result := stageResult{stage: chat.StageExploring}
	var best float64 = -1
	for _, sig := range stageKeywords {
		normalized := scores[sig.stage] / total
		if normalized > best {
			best = normalized
			result.stage = sig.stage
			result.confidence = normalized
		}
		if normalized > 0.1 {
			result.progression = append(result.progression, sig.stage)
		}
	}
	if override != "" {
		result.stage = override
		result.confidence = 1.0
	}
	return result
}

// stageOverride looks for signals strong enough to trump the keyword scores.
// Multiple compared cities force comparing; a budget-and-preferences turn
// with no concrete dates or durations forces exploring.
func stageOverride(userMessages []chat.Message) chat.Stage {
	if len(userMessages) == 0 {
		return ""
	}
	latest := strings.ToLower(userMessages[len(userMessages)-1].Content)

	var parts []string
	for _, msg := range userMessages {
		parts = append(parts, strings.ToLower(msg.Content))
	}
	allText := strings.Join(parts, " ")

	var citiesFound int
	for _, city := range cityTestSet {
		if strings.Contains(allText, city) {
			citiesFound++
		}
	}

	switch {
	case citiesFound >= 2 && containsAny(allText, comparisonWords):
		return chat.StageComparing
	case containsAny(latest, budgetWords) &&
		!containsAny(latest, monthWords) && !containsAny(latest, durationWords):
		if containsAny(latest, preferenceWords) {
			return chat.StageExploring
		}
	case containsAny(allText, tightBudgetPhrases) && containsAny(latest, preferenceWords):
		return chat.StageExploring
	}
	return ""
}

// decisionReadiness scores how close the user is to committing, out of 1.0.
// Known preferences each contribute a fixed weight; a conversation with no
// preferences at all floors at 0.1.
func decisionReadiness(prefs chat.Preferences, messageCount int, mentioned []string) float64 {
	if prefs.IsZero() {
		return 0.1
	}

	var score float64
	if len(prefs.Destinations) > 0 || len(mentioned) > 0 {
		score += 0.25
	}
	if prefs.Has("travel_dates") {
		score += 0.20
	}
	if prefs.BudgetRange != "" {
		score += 0.15
	}
	if prefs.Has("trip_duration") {
		score += 0.10
	}
	if prefs.Has("group_size") {
		score += 0.10
	}
	if len(prefs.TravelStyle) > 0 {
		score += 0.10
	}
	if messageCount >= 4 {
		score += 0.10
	}
	if score > 1 {
		score = 1
	}
	return score
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
