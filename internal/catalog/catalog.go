// Package catalog provides the two catalog search adapters (short-form media
// and film) that back the keyword retrieval path. Each adapter maps a mood
// label to a fixed query taxonomy; unknown labels resolve to the neutral entry
// so no mood ever produces an empty query set.
package catalog

import "strings"

// shortFormQueries maps a lowercased mood label to the search queries used for
// the video and song buckets.
type shortFormQueries struct {
	Videos []string
	Songs  []string
}

var moodQueries = map[string]shortFormQueries{
	"happy": {
		Videos: []string{"motivational videos", "uplifting content", "funny videos", "positive energy"},
		Songs:  []string{"happy songs", "uplifting music", "feel good songs", "upbeat music"},
	},
	"sad": {
		Videos: []string{"comforting videos", "emotional support", "calming nature videos", "healing content"},
		Songs:  []string{"calming music", "sad songs", "emotional music", "peaceful songs"},
	},
	"angry": {
		Videos: []string{"stress relief", "anger management", "workout motivation", "calming exercises"},
		Songs:  []string{"energetic music", "workout songs", "pump up music", "intense music"},
	},
	"stressed": {
		Videos: []string{"meditation", "relaxation techniques", "stress relief", "mindfulness"},
		Songs:  []string{"relaxing music", "meditation music", "calm music", "peaceful instrumental"},
	},
	"calm": {
		Videos: []string{"nature documentaries", "peaceful scenes", "mindfulness", "zen content"},
		Songs:  []string{"ambient music", "chill music", "lo-fi", "soft music"},
	},
	"neutral": {
		Videos: []string{"trending videos", "popular content", "entertainment", "educational videos"},
		Songs:  []string{"popular music", "trending songs", "top hits", "chart music"},
	},
}

// queriesForMood resolves the short-form query set for a mood label,
// case-insensitively, falling back to neutral for unknown labels.
func queriesForMood(label string) shortFormQueries {
	if q, ok := moodQueries[strings.ToLower(label)]; ok {
		return q
	}

	return moodQueries["neutral"]
}

// filmParams maps a mood to TMDB genre ids. Genre ids: 16=Animation, 18=Drama,
// 28=Action, 35=Comedy, 53=Thriller, 99=Documentary, 10749=Romance.
// Neutral has no genre restriction (popular movies only).
var moodGenres = map[string][]int64{
	"happy":    {35, 16},
	"sad":      {18, 10749},
	"angry":    {28, 53},
	"stressed": {35, 99},
	"calm":     {99, 18},
	"neutral":  nil,
}

// genresForMood resolves the film genre set for a mood label,
// case-insensitively, falling back to neutral for unknown labels.
func genresForMood(label string) []int64 {
	if g, ok := moodGenres[strings.ToLower(label)]; ok {
		return g
	}

	return moodGenres["neutral"]
}
