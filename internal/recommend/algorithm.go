// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package recommend

import (
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/models"
)

// Algorithm names.
const (
	AlgorithmTagOverlap     = "tag_overlap"
	AlgorithmSourceAffinity = "source_affinity"
)

// Algorithm scores a candidate resource against a user's profile.
// Implementations must be safe for concurrent use.
type Algorithm interface {
	Name() string
	Score(p *Profile, r *models.Resource) float64
}

// Profile is what the engine knows about a user's interests.
type Profile struct {
	UserID int64

	// Tags maps each interest tag to how many times it was seen.
	Tags map[string]int

	// Sources counts history views per resource source.
	Sources map[string]int

	// Views is the number of history entries.
	Views int

	// Seen holds resource IDs already in the user's history.
	Seen map[int64]bool
}

func newProfile(userID int64) *Profile {
	return &Profile{
		UserID:  userID,
		Tags:    make(map[string]int),
		Sources: make(map[string]int),
		Seen:    make(map[int64]bool),
	}
}

func (p *Profile) addTags(tags string) {
	for _, tag := range models.SplitTags(tags) {
		p.Tags[tag]++
	}
}

// HasInterests reports whether the profile carries any tag.
func (p *Profile) HasInterests() bool {
	return len(p.Tags) > 0
}

// matchedTags returns the candidate's tags that appear in the profile, in
// the candidate's order without duplicates.
func (p *Profile) matchedTags(r *models.Resource) []string {
	var matched []string
	seen := make(map[string]bool)
	for _, tag := range models.SplitTags(r.Tags) {
		if p.Tags[tag] > 0 && !seen[tag] {
			seen[tag] = true
			matched = append(matched, tag)
		}
	}
	return matched
}

// TagOverlap scores a resource by the number of its tags the user is
// interested in.
type TagOverlap struct{}

// Name implements Algorithm.
func (TagOverlap) Name() string { return AlgorithmTagOverlap }

// Score implements Algorithm.
func (TagOverlap) Score(p *Profile, r *models.Resource) float64 {
	return float64(len(p.matchedTags(r)))
}

// SourceAffinity scores a resource by the share of the user's history that
// came from the same source. The score is in [0, 1].
type SourceAffinity struct{}

// Name implements Algorithm.
func (SourceAffinity) Name() string { return AlgorithmSourceAffinity }

// Score implements Algorithm.
func (SourceAffinity) Score(p *Profile, r *models.Resource) float64 {
	if p.Views == 0 || r.Source == "" {
		return 0
	}
	return float64(p.Sources[r.Source]) / float64(p.Views)
}
