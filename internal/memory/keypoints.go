package memory

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tripflow/tripflow/pkg/chat"
)

// KeyPoints summarizes the facts worth carrying across turns, pulled
// from the user side of a conversation.
type KeyPoints struct {
	Destinations  []string `json:"destinations"`
	Requirements  []string `json:"requirements"`
	Preferences   []string `json:"preferences"`
	DecisionsMade []string `json:"decisions_made"`
	Concerns      []string `json:"concerns"`
}

var keyPointSignals = []struct {
	words  []string
	bucket func(*KeyPoints) *[]string
}{
	{[]string{"need", "must", "require", "important"}, func(k *KeyPoints) *[]string { return &k.Requirements }},
	{[]string{"prefer", "like", "love", "want"}, func(k *KeyPoints) *[]string { return &k.Preferences }},
	{[]string{"decided", "going to", "will", "booked"}, func(k *KeyPoints) *[]string { return &k.DecisionsMade }},
	{[]string{"worried", "concerned", "afraid", "scared", "nervous"}, func(k *KeyPoints) *[]string { return &k.Concerns }},
}

// ExtractKeyPoints walks the user messages and collects mentioned
// destinations plus statements of requirement, preference, decision and
// concern. Destination matches keep the user's original casing.
func ExtractKeyPoints(messages []chat.Message) KeyPoints {
	var points KeyPoints
	for _, msg := range messages {
		if msg.Role != chat.RoleUser {
			continue
		}
		lower := strings.ToLower(msg.Content)

		for _, dest := range destinationGazetteer {
			idx := strings.Index(lower, dest)
			if idx < 0 {
				continue
			}
			match, ok := originalSpan(msg.Content, idx, idx+len(dest))
			if !ok {
				match = dest
			}
			points.Destinations = appendUnique(points.Destinations, match)
		}

		for _, sig := range keyPointSignals {
			for _, word := range sig.words {
				if strings.Contains(lower, word) {
					bucket := sig.bucket(&points)
					*bucket = appendUnique(*bucket, msg.Content)
					break
				}
			}
		}
	}
	return points
}

// ToMap returns the non-empty buckets keyed by their wire names, in the
// shape Store expects for derived insights.
func (k KeyPoints) ToMap() map[string]any {
	out := make(map[string]any)
	if len(k.Destinations) > 0 {
		out["destinations"] = k.Destinations
	}
	if len(k.Requirements) > 0 {
		out["requirements"] = k.Requirements
	}
	if len(k.Preferences) > 0 {
		out["preferences"] = k.Preferences
	}
	if len(k.DecisionsMade) > 0 {
		out["decisions_made"] = k.DecisionsMade
	}
	if len(k.Concerns) > 0 {
		out["concerns"] = k.Concerns
	}
	return out
}

// originalSpan maps byte offsets found in strings.ToLower(s) back onto s.
// Lowercasing can change a rune's encoded length, so the lowered offsets
// are re-derived rune by rune instead of reused on s directly.
func originalSpan(s string, start, end int) (string, bool) {
	origStart, origEnd := -1, -1
	lowOff := 0
	for origOff, r := range s {
		if lowOff == start {
			origStart = origOff
		}
		if lowOff == end {
			origEnd = origOff
			break
		}
		lowOff += utf8.RuneLen(unicode.ToLower(r))
	}
	if origEnd < 0 && lowOff == end {
		origEnd = len(s)
	}
	if origStart < 0 || origEnd < origStart {
		return "", false
	}
	return s[origStart:origEnd], true
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
