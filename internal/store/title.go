package store

import (
	"regexp"
	"strings"
)

// Title fallbacks and the space-travel guard. The assistant plans trips on
// Earth only, so anything cosmic gets the fixed redirect title.
const (
	defaultTitle     = "Vacation Planning"
	earthTravelTitle = "Earth Travel Planning"
)

var spaceTerms = regexp.MustCompile(`\b(?:moon|mars|jupiter|saturn|venus|mercury|neptune|uranus|pluto|` +
	`galaxy|galaxies|universe|planets?|asteroids?|comets?|milky\s+way|milkyway|andromeda|nebulas?|` +
	`constellations?|black\s*hole|wormhole|worm\s+hole|supernovas?|solar\s*system|orbit|orbital|` +
	`cosmic|cosmos|interstellar|extraterrestrial|aliens?|ufos?|spaceships?|rockets?|satellites?|` +
	`space\s*station|space\s*travel|space\s*tourism|space\s*vacation)\b`)

var titleDestinations = regexp.MustCompile(`\b(?:mongolia|paris|bali|japan|thailand|vietnam|italy|spain|` +
	`greece|turkey|morocco|egypt|india|china|australia|new\s+zealand|canada|mexico|brazil|` +
	`argentina|peru|chile)\b`)

var travelTypeTitles = []struct {
	pattern *regexp.Regexp
	title   string
}{
	{regexp.MustCompile(`\bbudget\b`), "Budget Travel Planning"},
	{regexp.MustCompile(`\bluxury\b`), "Luxury Vacation Planning"},
	{regexp.MustCompile(`\badventure\b`), "Adventure Trip Planning"},
	{regexp.MustCompile(`\bbeach\b`), "Beach Vacation Planning"},
	{regexp.MustCompile(`\bculture\b|\bcultural\b`), "Cultural Trip Planning"},
}

// DeriveTitle builds a short conversation title from the opening message:
// a recognized destination wins, then a travel type, then the generic
// default.
func DeriveTitle(initialMessage string) string {
	lower := strings.ToLower(initialMessage)

	if spaceTerms.MatchString(lower) {
		return earthTravelTitle
	}

	if dest := titleDestinations.FindString(lower); dest != "" {
		return titleCase(dest) + " Trip Planning"
	}

	for _, tt := range travelTypeTitles {
		if tt.pattern.MatchString(lower) {
			return tt.title
		}
	}
	return defaultTitle
}

// titleCase uppercases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
