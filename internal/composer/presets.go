package composer

import "thumbforge/internal/domain"

// NichePreset couples a display label with the psychological ruleset injected
// into every technical prompt for that content category.
type NichePreset struct {
	Label string
	Rules string
}

// nichePresets is the closed stylistic ruleset table. Every supported niche
// must have an entry; prompt construction panics on a missing key because the
// enumeration is closed and a gap is a programming error.
var nichePresets = map[domain.Niche]NichePreset{
	domain.NicheNone: {
		Label: "Viral / General",
		Rules: `Psychological Trigger: INTRIGUE & AWE. Emotion: The "Mystery Box" feeling. Visuals: High contrast, cinematic lighting, centralized subject. Goal: Evoke a "Must Know" response via visual hyperbole and exaggerated reality.`,
	},
	domain.NicheGaming: {
		Label: "Gaming",
		Rules: `Psychological Trigger: ANTICIPATION & ADRENALINE. Emotion: The split-second before victory or defeat. Visuals: Hyper-saturated neon contrast (Hot Pink vs Electric Blue). Subject expression: Extreme focus or screaming victory. Background: Chaos/Explosion but blurred to reduce cognitive load.`,
	},
	domain.NicheTech: {
		Label: "Tech",
		Rules: `Psychological Trigger: DESIRE & FUTURISM. Emotion: "I need this" (Anticipation of Ownership). Visuals: Sleek, matte black/white, glowing accents. Lighting: Hard rim light to separate product from background. Vibe: Premium, exclusive, game-changing.`,
	},
	domain.NicheVlog: {
		Label: "Vlog",
		Rules: `Psychological Trigger: NOSTALGIA & INTIMACY. Emotion: Warmth, connection, or raw drama. Visuals: Golden hour lighting, subtle film grain, close-up faces. Vibe: Unfiltered access to a life event.`,
	},
	domain.NicheEducation: {
		Label: "Docu/Edu",
		Rules: `Psychological Trigger: INTELLECTUAL INTRIGUE. Emotion: "Everything I knew is wrong". Visuals: Split contrast (Light vs Dark), historical textures, mystery elements (question marks, magnifying glasses). Vibe: Detective story.`,
	},
	domain.NicheFinance: {
		Label: "Finance",
		Rules: `Psychological Trigger: GREED & FEAR (Anticipation of Loss/Gain). Emotion: Urgency. Visuals: Red downward arrows (Fear) or Green stacks (Greed). Facial expression: Serious concern or wild excitement. Color Palette: Trustworthy Navy Blue mixed with Urgent Red/Green.`,
	},
	domain.NicheFitness: {
		Label: "Fitness",
		Rules: `Psychological Trigger: ASPIRATION & PAIN. Emotion: The struggle and the glory. Visuals: Gritty texture, sweat, dramatic "Rembrandt" lighting to sculpt muscle. Vibe: Hard work pays off.`,
	},
	domain.NicheReaction: {
		Label: "Reaction",
		Rules: `Psychological Trigger: SHOCK & MIRRORING. Emotion: Disbelief. Visuals: Extreme facial close-up (pores visible), eyes wide, mouth open. Background: Blurred screenshot of the content. Colors: Maximum saturation, thick white outlines.`,
	},
}

// Preset returns the ruleset for the given niche. It panics on an unknown
// niche: the enum is closed, so a missing entry cannot be recovered at
// runtime.
func Preset(niche domain.Niche) NichePreset {
	preset, ok := nichePresets[niche]
	if !ok {
		panic("composer: unknown niche " + string(niche))
	}
	return preset
}
