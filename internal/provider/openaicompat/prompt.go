package openaicompat

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tripflow/tripflow/pkg/chat"
)

// systemPrompt frames every completion request. The continuity rules matter
// more than the persona: the model must keep building on context already
// established instead of restarting the interview each turn.
const systemPrompt = `You are VacationBot, an expert AI travel consultant with deep knowledge of destinations worldwide. Your role is to help users plan their perfect vacation through engaging, personalized conversations.

## Your Expertise:
- Global destinations and hidden gems
- Travel logistics and best practices
- Budget optimization across all price ranges
- Cultural insights and local experiences
- Seasonal travel recommendations
- Safety and health considerations
- Accommodation and transportation options

## Rules:
1. ALWAYS analyze the ENTIRE conversation history before responding. If a destination was mentioned earlier, reference it and provide destination-specific advice.
2. Build upon information the user already shared. Never ask again for a destination, budget, or dates that were already provided.
3. Once a destination is established, stay focused on it unless the user explicitly asks about alternatives.
4. Stay on travel planning. Politely redirect off-topic requests back to the user's trip.
5. Ask relevant follow-up questions based on what is already known.`

// buildMessages assembles the wire messages: the system prompt, a summary
// of known preferences, optional conversation metadata, then the
// conversation itself.
func buildMessages(messages []chat.Message, prefs chat.Preferences, metadata map[string]any) []oaiMessage {
	out := []oaiMessage{{Role: string(chat.RoleSystem), Content: systemPrompt}}

	if digest := preferenceDigest(prefs); digest != "" {
		out = append(out, oaiMessage{
			Role:    string(chat.RoleSystem),
			Content: "Current user preferences and context:\n" + digest,
		})
	}

	if len(metadata) > 0 {
		if encoded, err := json.Marshal(metadata); err == nil {
			out = append(out, oaiMessage{
				Role:    string(chat.RoleSystem),
				Content: "Conversation metadata: " + string(encoded),
			})
		}
	}

	for _, msg := range messages {
		out = append(out, oaiMessage{Role: string(msg.Role), Content: msg.Content})
	}
	return out
}

// preferenceDigest renders the known preferences as one line per fact, or
// "" when nothing is known yet.
func preferenceDigest(prefs chat.Preferences) string {
	if prefs.IsZero() {
		return ""
	}

	var parts []string
	if len(prefs.Destinations) > 0 {
		parts = append(parts, "Interested in: "+strings.Join(prefs.Destinations, ", "))
	}
	if prefs.BudgetRange != "" {
		parts = append(parts, "Budget level: "+prefs.BudgetRange)
	}
	if prefs.BudgetAmount > 0 {
		parts = append(parts, fmt.Sprintf("Budget amount: $%d", prefs.BudgetAmount))
	}
	if len(prefs.TravelStyle) > 0 {
		parts = append(parts, "Travel style: "+strings.Join(prefs.TravelStyle, ", "))
	}
	if prefs.Stage != "" {
		parts = append(parts, "Planning stage: "+string(prefs.Stage))
	}
	if dates, ok := prefs.Extra["travel_dates"].(map[string]any); ok {
		start, _ := dates["start"].(string)
		end, _ := dates["end"].(string)
		if start != "" && end != "" {
			parts = append(parts, fmt.Sprintf("Travel dates: %s to %s", start, end))
		}
	}
	if size, ok := prefs.Extra["group_size"]; ok {
		parts = append(parts, fmt.Sprintf("Group size: %v people", size))
	}
	return strings.Join(parts, "\n")
}

// responseConfidence scores a completion with a cheap heuristic: longer
// answers to questions score higher, hedging lowers the score.
func responseConfidence(response string, messages []chat.Message) float64 {
	score := 0.7

	var lastUser string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == chat.RoleUser {
			lastUser = strings.ToLower(messages[i].Content)
			break
		}
	}
	if lastUser != "" {
		questionWords := []string{"what", "where", "when", "how", "which", "why"}
		hasQuestion := false
		for _, word := range questionWords {
			if strings.Contains(lastUser, word) {
				hasQuestion = true
				break
			}
		}
		if hasQuestion && len(response) > 100 {
			score += 0.2
		} else if !hasQuestion && len(response) > 50 {
			score += 0.1
		}
	}

	if strings.Contains(response, "I don't") || strings.Contains(response, "I cannot") {
		score -= 0.3
	}
	if strings.Contains(response, "!") {
		score += 0.05
	}
	if strings.Count(response, "\n") > 2 {
		score += 0.05
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}
