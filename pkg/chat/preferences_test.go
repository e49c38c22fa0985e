package chat

import (
	"reflect"
	"testing"
)

func TestPreferences_MergeFieldPrecedence(t *testing.T) {
	t.Parallel()

	base := Preferences{
		Destinations: []string{"Lisbon"},
		BudgetRange:  "moderate",
		Extra:        map[string]any{"group_size": 2},
	}
	overlay := Preferences{
		Destinations: []string{"Porto"},
		Stage:        StagePlanning,
		Extra:        map[string]any{"group_size": 4, "trip_duration": "1 week"},
	}

	got := base.Merge(overlay)

	if !reflect.DeepEqual(got.Destinations, []string{"Porto"}) {
		t.Errorf("Destinations = %v, want overlay value", got.Destinations)
	}
	if got.BudgetRange != "moderate" {
		t.Errorf("BudgetRange = %q, want base value preserved", got.BudgetRange)
	}
	if got.Stage != StagePlanning {
		t.Errorf("Stage = %q, want %q", got.Stage, StagePlanning)
	}
	if got.Extra["group_size"] != 4 {
		t.Errorf("Extra[group_size] = %v, want overlay value 4", got.Extra["group_size"])
	}
	if got.Extra["trip_duration"] != "1 week" {
		t.Errorf("Extra[trip_duration] = %v, want merged in", got.Extra["trip_duration"])
	}

	// Merge must not mutate the receiver.
	if base.Stage != "" {
		t.Errorf("base mutated by Merge: Stage = %q", base.Stage)
	}
}

func TestPreferences_RoundTripThroughMap(t *testing.T) {
	t.Parallel()

	p := Preferences{
		Destinations: []string{"Kyoto", "Osaka"},
		BudgetRange:  "luxury",
		BudgetAmount: 5000,
		TravelStyle:  []string{"foodie", "cultural"},
		Stage:        StageComparing,
		Extra:        map[string]any{"memory_last_message": "compare them"},
	}

	got := PreferencesFromMap(p.ToMap())

	if !reflect.DeepEqual(got, p) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", got, p)
	}
}

func TestPreferencesFromMap_JSONDecodedShapes(t *testing.T) {
	t.Parallel()

	// Metadata that went through encoding/json arrives as []any and float64.
	m := map[string]any{
		"destinations":  []any{"Paris", "Nice"},
		"budget_amount": float64(1200),
	}

	p := PreferencesFromMap(m)

	if !reflect.DeepEqual(p.Destinations, []string{"Paris", "Nice"}) {
		t.Errorf("Destinations = %v, want [Paris Nice]", p.Destinations)
	}
	if p.BudgetAmount != 1200 {
		t.Errorf("BudgetAmount = %d, want 1200", p.BudgetAmount)
	}
}

func TestPreferences_SetExtraDoesNotOverwrite(t *testing.T) {
	t.Parallel()

	var p Preferences
	p.SetExtra("memory_destinations", []string{"Rome"})
	p.SetExtra("memory_destinations", []string{"Milan"})

	if got := p.Extra["memory_destinations"].([]string)[0]; got != "Rome" {
		t.Errorf("SetExtra overwrote existing key: got %q, want Rome", got)
	}
}

func TestPreferences_HasBudget(t *testing.T) {
	t.Parallel()

	if (Preferences{}).HasBudget() {
		t.Error("zero preferences report a budget")
	}
	if !(Preferences{BudgetRange: "budget"}).HasBudget() {
		t.Error("budget range not detected")
	}
	if !(Preferences{BudgetAmount: 300}).HasBudget() {
		t.Error("budget amount not detected")
	}
}
