package intel

import (
	"regexp"
	"strconv"
	"strings"
)

type interestSignals struct {
	name     string
	keywords []string
	weight   float64
}

var interestPatterns = []interestSignals{
	{"adventure", []string{
		"hiking", "climbing", "diving", "extreme", "adventure",
		"trek", "explore", "outdoor", "adrenaline", "sports",
	}, 1.0},
	{"relaxation", []string{
		"relax", "spa", "beach", "resort", "peaceful", "quiet",
		"unwind", "chill", "lazy", "slow pace", "rest",
	}, 1.0},
	{"cultural", []string{
		"culture", "history", "museum", "local", "authentic",
		"heritage", "tradition", "art", "architecture", "temple",
	}, 1.0},
	{"foodie", []string{
		"food", "restaurant", "cuisine", "eat", "culinary",
		"taste", "dining", "chef", "wine", "local dishes",
	}, 1.0},
	{"nature", []string{
		"nature", "wildlife", "national park", "mountains",
		"forest", "scenic", "landscape", "natural", "animals",
	}, 1.0},
	{"urban", []string{
		"city", "urban", "metropolitan", "shopping", "nightlife",
		"modern", "cosmopolitan", "downtown", "skyline",
	}, 0.8},
	{"photography", []string{
		"photo", "photography", "instagram", "scenic", "views",
		"sunrise", "sunset", "picturesque", "beautiful",
	}, 0.7},
}

var budgetInterestWords = []string{
	"budget", "cheap", "affordable", "economical", "save", "cost", "price", "money",
}

// detectInterests scores each interest by keyword hits and returns, after
// an optional leading "budget" marker, the interests scoring at least 1.0 in
// descending score order.
func detectInterests(text string) []string {
	var detected []string
	if containsAny(text, budgetInterestWords) {
		detected = append(detected, "budget")
	}

	type scored struct {
		name  string
		score float64
	}
	var hits []scored
	for _, pattern := range interestPatterns {
		var score float64
		for _, keyword := range pattern.keywords {
			if strings.Contains(text, keyword) {
				score += pattern.weight
			}
		}
		if score >= 1.0 {
			hits = append(hits, scored{pattern.name, score})
		}
	}
	// Insertion sort keeps equal scores in pattern order.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].score > hits[j-1].score; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	for _, hit := range hits {
		detected = append(detected, hit.name)
	}
	return detected
}

type budgetSignals struct {
	level    string
	keywords []string
	phrases  []string
}

var budgetLevels = []budgetSignals{
	{"ultra_budget",
		[]string{"backpack", "hostel", "cheapest", "shoestring", "broke"},
		[]string{"as cheap as possible", "very tight budget", "no money"}},
	{"budget",
		[]string{"budget", "cheap", "affordable", "economical", "save"},
		[]string{"on a budget", "save money", "cost conscious", "good value"}},
	{"moderate",
		[]string{"moderate", "comfortable", "reasonable", "balanced"},
		[]string{"mid-range", "not too expensive", "decent hotels", "some nice meals"}},
	{"luxury",
		[]string{"luxury", "premium", "exclusive", "splurge", "best"},
		[]string{"five star", "no budget", "money no object", "treat ourselves"}},
}

// detectBudgetLevel lists the budget levels the text hints at. A phrase hit
// is definitive and stops the scan; ultra_budget is dropped whenever another
// level is also present.
func detectBudgetLevel(text string) []string {
	var indicators []string
	for _, level := range budgetLevels {
		if containsAny(text, level.keywords) {
			indicators = append(indicators, level.level)
		}
		if containsAny(text, level.phrases) {
			indicators = append(indicators, level.level)
			break
		}
	}

	if len(indicators) > 1 {
		filtered := indicators[:0]
		for _, level := range indicators {
			if level != "ultra_budget" {
				filtered = append(filtered, level)
			}
		}
		indicators = filtered
	}

	var unique []string
	seen := make(map[string]struct{}, len(indicators))
	for _, level := range indicators {
		if _, ok := seen[level]; ok {
			continue
		}
		seen[level] = struct{}{}
		unique = append(unique, level)
	}
	return unique
}

var budgetAmountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$(\d+(?:,\d{3})*)`),
	regexp.MustCompile(`(\d+(?:,\d{3})*)\s*dollars?`),
	regexp.MustCompile(`(\d+(?:,\d{3})*)\s*usd`),
}

// extractBudgetAmount pulls a dollar figure out of the text, or 0 when none
// is present.
func extractBudgetAmount(text string) int {
	for _, pattern := range budgetAmountPatterns {
		if match := pattern.FindStringSubmatch(text); match != nil {
			amount, err := strconv.Atoi(strings.ReplaceAll(match[1], ",", ""))
			if err == nil {
				return amount
			}
		}
	}
	return 0
}

var concernPatterns = []struct {
	name     string
	keywords []string
}{
	{"safety", []string{"safe", "dangerous", "crime", "secure", "risk", "safety"}},
	{"health", []string{"health", "medical", "hospital", "vaccine", "illness", "doctor"}},
	{"weather", []string{"weather", "rain", "hot", "cold", "hurricane", "climate", "season"}},
	{"crowds", []string{"crowd", "busy", "tourist", "peaceful", "quiet", "packed", "overcrowded"}},
	{"language", []string{"language", "english", "speak", "communicate", "understand"}},
	{"cost", []string{"expensive", "cost", "price", "afford", "budget", "money"}},
	{"solo_travel", []string{"alone", "solo", "single", "by myself", "solo travel"}},
	{"accessibility", []string{"wheelchair", "accessible", "disability", "mobility"}},
	{"dietary", []string{"vegetarian", "vegan", "allergy", "dietary", "food restrictions"}},
	{"visa", []string{"visa", "passport", "documentation", "entry requirements"}},
}

func detectConcerns(text string) []string {
	var concerns []string
	for _, pattern := range concernPatterns {
		if containsAny(text, pattern.keywords) {
			concerns = append(concerns, pattern.name)
		}
	}
	return concerns
}

var experienceLevels = []struct {
	level      string
	indicators []string
}{
	{"beginner", []string{
		"first time", "never been", "new to travel", "nervous about",
		"worried about", "inexperienced", "first international",
	}},
	{"intermediate", []string{
		"traveled before", "been to a few", "some experience",
		"comfortable with", "done this before",
	}},
	{"experienced", []string{
		"traveled extensively", "been everywhere", "seasoned traveler",
		"always traveling", "travel frequently", "been to many",
	}},
}

func detectExperienceLevel(text string) string {
	for _, level := range experienceLevels {
		if containsAny(text, level.indicators) {
			return level.level
		}
	}
	return "unknown"
}
