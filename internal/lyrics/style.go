package lyrics

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type genreVisual struct {
	genre  string
	visual string
}

// Order matters: matches are appended in table order.
var genreVisuals = []genreVisual{
	{"electronic", "neon, digital, futuristic"},
	{"synthwave", "retro-futuristic, neon, 80s aesthetic, purple and pink"},
	{"rock", "dynamic, energetic, gritty"},
	{"metal", "dark, intense, dramatic lighting"},
	{"jazz", "moody, noir, sophisticated"},
	{"classical", "elegant, timeless, refined"},
	{"folk", "natural, organic, earthy"},
	{"country", "rustic, americana, warm tones"},
	{"hip-hop", "urban, vibrant, street culture"},
	{"ambient", "ethereal, atmospheric, dreamlike"},
	{"trance", "cosmic, transcendent, flowing"},
	{"house", "energetic, colorful, club atmosphere"},
	{"techno", "industrial, minimalist, stark"},
	{"indie", "artistic, authentic, creative"},
	{"pop", "bright, colorful, polished"},
	{"soul", "warm, emotional, intimate"},
	{"blues", "moody, emotional, atmospheric"},
	{"punk", "raw, rebellious, high contrast"},
	{"psychedelic", "surreal, colorful, mind-bending"},
	{"progressive", "complex, layered, evolving"},
	{"cosmic", "space, galaxies, stars, nebulae"},
	{"cinematic", "dramatic, movie-quality, epic"},
	{"orchestral", "grand, sweeping, majestic"},
}

// First match wins.
var moodKeywords = []string{
	"dark", "bright", "moody", "uplifting", "melancholic", "energetic",
	"calm", "intense", "dreamy", "powerful", "gentle", "dramatic",
}

var lowerCaser = cases.Lower(language.Und)

// StyleElements is the visual vocabulary derived from a song style description.
type StyleElements struct {
	VisualKeywords []string
	Mood           string
}

// Empty reports whether no keyword and no mood were found.
func (s StyleElements) Empty() bool {
	return len(s.VisualKeywords) == 0 && s.Mood == ""
}

// ExtractStyle scans a free-text style description for known genres and moods.
func ExtractStyle(description string) StyleElements {
	elements := StyleElements{VisualKeywords: []string{}}
	if description == "" {
		return elements
	}
	lowered := lowerCaser.String(description)
	for _, entry := range genreVisuals {
		if strings.Contains(lowered, entry.genre) {
			elements.VisualKeywords = append(elements.VisualKeywords, strings.Split(entry.visual, ", ")...)
		}
	}
	for _, mood := range moodKeywords {
		if strings.Contains(lowered, mood) {
			elements.Mood = mood
			break
		}
	}
	return elements
}
