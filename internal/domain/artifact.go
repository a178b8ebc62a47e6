package domain

import "time"

// AspectRatio enumerates the supported output frame shapes.
type AspectRatio string

const (
	AspectSquare       AspectRatio = "1:1"
	AspectLandscape43  AspectRatio = "4:3"
	AspectLandscape169 AspectRatio = "16:9"
	AspectPortrait34   AspectRatio = "3:4"
	AspectPortrait916  AspectRatio = "9:16"
)

// DefaultAspectRatio is the ratio used when a request leaves it unset.
const DefaultAspectRatio = AspectLandscape169

// AspectRatios lists every supported ratio in display order.
var AspectRatios = []AspectRatio{
	AspectLandscape169,
	AspectPortrait916,
	AspectSquare,
	AspectLandscape43,
	AspectPortrait34,
}

// Valid reports whether the ratio is part of the closed enumeration.
func (a AspectRatio) Valid() bool {
	switch a {
	case AspectSquare, AspectLandscape43, AspectLandscape169, AspectPortrait34, AspectPortrait916:
		return true
	}
	return false
}

// NormalizeAspectRatio sanitizes free-form input into a supported ratio.
func NormalizeAspectRatio(raw string) AspectRatio {
	ratio := AspectRatio(raw)
	if ratio.Valid() {
		return ratio
	}
	return DefaultAspectRatio
}

// Niche tags an artifact with the content category whose stylistic ruleset
// shaped its prompt.
type Niche string

const (
	NicheNone      Niche = "NONE"
	NicheGaming    Niche = "GAMING"
	NicheTech      Niche = "TECH"
	NicheVlog      Niche = "VLOG"
	NicheEducation Niche = "EDUCATION"
	NicheFinance   Niche = "FINANCE"
	NicheFitness   Niche = "FITNESS"
	NicheReaction  Niche = "REACTION"
)

// Valid reports whether the niche is part of the closed enumeration.
func (n Niche) Valid() bool {
	switch n {
	case NicheNone, NicheGaming, NicheTech, NicheVlog, NicheEducation, NicheFinance, NicheFitness, NicheReaction:
		return true
	}
	return false
}

// NormalizeNiche sanitizes free-form input into a supported niche.
func NormalizeNiche(raw string) Niche {
	niche := Niche(raw)
	if niche.Valid() {
		return niche
	}
	return NicheNone
}

// Artifact is one generated image plus its metadata. Artifacts are immutable
// once created; edits produce a new artifact with an accumulated prompt
// lineage.
type Artifact struct {
	ID          string      `json:"id"`
	DataURI     string      `json:"data_uri"`
	Prompt      string      `json:"prompt"`
	CreatedAt   time.Time   `json:"created_at"`
	AspectRatio AspectRatio `json:"aspect_ratio"`
	Niche       Niche       `json:"niche,omitempty"`
}
