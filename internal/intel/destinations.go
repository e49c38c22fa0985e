package intel

import (
	"regexp"
	"strings"

	"github.com/tripflow/tripflow/pkg/chat"
)

// cityTestSet is the lowercase city vocabulary used by the comparing-stage
// override: two or more of these plus comparison language means the user is
// weighing destinations against each other.
var cityTestSet = []string{
	"paris", "tokyo", "new york", "london", "rome", "barcelona", "amsterdam",
	"berlin", "prague", "vienna", "budapest", "copenhagen", "stockholm",
	"oslo", "helsinki", "reykjavik", "dublin", "edinburgh", "glasgow",
	"manchester", "birmingham", "liverpool", "leeds", "sheffield", "bristol",
	"cardiff", "belfast", "cork", "galway", "limerick", "waterford",
	"kilkenny", "drogheda", "wicklow", "wexford", "carlow", "laois",
	"offaly", "westmeath", "longford", "louth", "meath", "cavan", "monaghan",
	"fermanagh", "tyrone", "derry", "antrim", "down", "armagh",
}

var (
	// cityListPattern matches comma lists like "Paris, Tokyo and New York".
	cityListPattern  = regexp.MustCompile(`([A-Z][a-zA-Z]+(?:,\s*[A-Z][a-zA-Z]+)+(?:,?\s*and\s*[A-Z][a-zA-Z]+)?)`)
	cityListSplitter = regexp.MustCompile(`,\s*|\s+and\s+`)

	destinationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:to|visit|go to|travel to|trip to|vacation in|holiday in)\s+([A-Z][a-zA-Z\s]+?)(?:\.|,|!|\?|$)`),
		regexp.MustCompile(`(?:^|\s)([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*?)(?:\s+is\s+|\.|\?|!|$)`),
		regexp.MustCompile(`(?:considering|thinking about|interested in)\s+([A-Z][a-zA-Z\s]+?)(?:\.|,|!|\?|$)`),
	}

	capitalizedWordPattern = regexp.MustCompile(`\b([A-Z][a-zA-Z]+)\b`)
)

// notDestinations are capitalized words that regularly start sentences but
// never name a place.
var notDestinations = map[string]struct{}{
	"I": {}, "We": {}, "The": {}, "This": {}, "That": {}, "My": {}, "Our": {},
}

// extractDestinations pulls place names out of the user messages: comma
// lists first, then phrase patterns like "trip to X", then any remaining
// capitalized words. Order of first mention is preserved and duplicates are
// dropped case-insensitively.
func extractDestinations(messages []chat.Message) []string {
	var destinations []string
	add := func(candidate string) {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			return
		}
		for _, existing := range destinations {
			if existing == candidate {
				return
			}
		}
		destinations = append(destinations, candidate)
	}

	for _, msg := range messages {
		text := msg.Content

		for _, match := range cityListPattern.FindAllStringSubmatch(text, -1) {
			for _, part := range cityListSplitter.Split(match[1], -1) {
				add(part)
			}
		}

		for _, pattern := range destinationPatterns {
			for _, match := range pattern.FindAllStringSubmatch(text, -1) {
				candidate := strings.TrimSpace(match[1])
				if len(candidate) <= 2 {
					continue
				}
				if _, skip := notDestinations[candidate]; skip {
					continue
				}
				if strings.HasPrefix(candidate, "I ") {
					continue
				}
				add(candidate)
			}
		}

		for _, match := range capitalizedWordPattern.FindAllStringSubmatch(text, -1) {
			if _, skip := notDestinations[match[1]]; skip {
				continue
			}
			add(match[1])
		}
	}

	seen := make(map[string]struct{}, len(destinations))
	unique := destinations[:0]
	for _, dest := range destinations {
		lower := strings.ToLower(dest)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		unique = append(unique, dest)
	}
	return unique
}
