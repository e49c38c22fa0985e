package chat

// Preferences is the typed view of everything the system has learned about
// a user's trip. Classifier fields that have no dedicated slot yet travel in
// Extra, keyed by their wire name.
type Preferences struct {
	Destinations []string       `json:"destinations,omitempty"`
	BudgetRange  string         `json:"budget_range,omitempty"`
	BudgetAmount int            `json:"budget_amount,omitempty"`
	TravelStyle  []string       `json:"travel_style,omitempty"`
	Stage        Stage          `json:"decision_stage,omitempty"`
	Extra        map[string]any `json:"extra,omitempty"`
}

// IsZero reports whether no preference field has been populated.
func (p Preferences) IsZero() bool {
	return len(p.Destinations) == 0 &&
		p.BudgetRange == "" &&
		p.BudgetAmount == 0 &&
		len(p.TravelStyle) == 0 &&
		p.Stage == "" &&
		len(p.Extra) == 0
}

// HasBudget reports whether either a budget level or a concrete amount is known.
func (p Preferences) HasBudget() bool {
	return p.BudgetRange != "" || p.BudgetAmount != 0
}

// Merge overlays other onto p: non-zero fields of other win, Extra maps are
// unioned with other's entries taking precedence. p is not modified.
func (p Preferences) Merge(other Preferences) Preferences {
	out := p
	if len(other.Destinations) > 0 {
		out.Destinations = other.Destinations
	}
	if other.BudgetRange != "" {
		out.BudgetRange = other.BudgetRange
	}
	if other.BudgetAmount != 0 {
		out.BudgetAmount = other.BudgetAmount
	}
	if len(other.TravelStyle) > 0 {
		out.TravelStyle = other.TravelStyle
	}
	if other.Stage != "" {
		out.Stage = other.Stage
	}
	if len(other.Extra) > 0 {
		merged := make(map[string]any, len(p.Extra)+len(other.Extra))
		for k, v := range p.Extra {
			merged[k] = v
		}
		for k, v := range other.Extra {
			merged[k] = v
		}
		out.Extra = merged
	}
	return out
}

// SetExtra stores an extra preference under key, allocating the map lazily.
// Existing keys are left untouched so earlier, higher-priority sources win.
func (p *Preferences) SetExtra(key string, value any) {
	if p.Extra == nil {
		p.Extra = make(map[string]any)
	}
	if _, exists := p.Extra[key]; !exists {
		p.Extra[key] = value
	}
}

// Has reports whether the named wire field is already populated, checking
// both the typed slots and Extra.
func (p Preferences) Has(key string) bool {
	switch key {
	case "destinations":
		return len(p.Destinations) > 0
	case "budget_range":
		return p.BudgetRange != ""
	case "budget_amount":
		return p.BudgetAmount != 0
	case "travel_style":
		return len(p.TravelStyle) > 0
	case "decision_stage":
		return p.Stage != ""
	}
	_, ok := p.Extra[key]
	return ok
}

// ToMap flattens the preferences into the wire map consumed by the
// generation backend and stored in message metadata.
func (p Preferences) ToMap() map[string]any {
	if p.IsZero() {
		return nil
	}
	out := make(map[string]any)
	if len(p.Destinations) > 0 {
		out["destinations"] = p.Destinations
	}
	if p.BudgetRange != "" {
		out["budget_range"] = p.BudgetRange
	}
	if p.BudgetAmount != 0 {
		out["budget_amount"] = p.BudgetAmount
	}
	if len(p.TravelStyle) > 0 {
		out["travel_style"] = p.TravelStyle
	}
	if p.Stage != "" {
		out["decision_stage"] = string(p.Stage)
	}
	for k, v := range p.Extra {
		out[k] = v
	}
	return out
}

// PreferencesFromMap parses a wire map (typically message metadata that went
// through JSON) into typed Preferences. Unknown keys land in Extra.
func PreferencesFromMap(m map[string]any) Preferences {
	var p Preferences
	for k, v := range m {
		switch k {
		case "destinations":
			p.Destinations = toStringSlice(v)
		case "budget_range":
			if s, ok := v.(string); ok {
				p.BudgetRange = s
			}
		case "budget_amount":
			switch n := v.(type) {
			case int:
				p.BudgetAmount = n
			case float64:
				p.BudgetAmount = int(n)
			}
		case "travel_style":
			p.TravelStyle = toStringSlice(v)
		case "decision_stage":
			if s, ok := v.(string); ok {
				p.Stage = Stage(s)
			}
		default:
			if p.Extra == nil {
				p.Extra = make(map[string]any)
			}
			p.Extra[k] = v
		}
	}
	return p
}

// toStringSlice coerces string, []string, and JSON-decoded []any values.
func toStringSlice(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
	return nil
}
