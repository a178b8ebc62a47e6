package composer

import (
	"strings"
	"testing"

	"thumbforge/internal/domain"
)

func TestBuildTechnicalPromptIncludesNicheRules(t *testing.T) {
	got := BuildTechnicalPrompt("a cat wearing sunglasses", domain.NicheGaming, "")

	checks := []string{
		"ANTICIPATION & ADRENALINE",
		"a cat wearing sunglasses",
		"CRITICAL RENDER RULES",
		"Rim Lighting",
		"8K resolution, ray-tracing",
	}
	for _, expect := range checks {
		if !strings.Contains(got, expect) {
			t.Fatalf("prompt missing %q:\n%s", expect, got)
		}
	}
	if strings.Contains(got, "VISUAL DNA OVERRIDE") {
		t.Fatalf("override layer present without learned style")
	}
}

func TestBuildTechnicalPromptLearnedStyleAugmentsNicheRules(t *testing.T) {
	got := BuildTechnicalPrompt("city at night", domain.NicheTech, "neon noir, 85mm, teal and orange")

	if !strings.Contains(got, "DESIRE & FUTURISM") {
		t.Fatalf("niche rules dropped when learned style present:\n%s", got)
	}
	if !strings.Contains(got, "VISUAL DNA OVERRIDE") {
		t.Fatalf("learned style layer missing:\n%s", got)
	}
	if !strings.Contains(got, "neon noir, 85mm, teal and orange") {
		t.Fatalf("learned style text missing:\n%s", got)
	}
}

func TestBuildTechnicalPromptUnknownNichePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown niche")
		}
	}()
	BuildTechnicalPrompt("anything", domain.Niche("COOKING"), "")
}

func TestBuildFaceSwapInstruction(t *testing.T) {
	got := BuildFaceSwapInstruction("base prompt")
	if !strings.HasPrefix(got, "base prompt") {
		t.Fatalf("base prompt not preserved: %s", got)
	}
	if !strings.Contains(got, "IDENTITY TRANSFER") {
		t.Fatalf("identity transfer directive missing: %s", got)
	}
	if !strings.Contains(got, "photorealistic face swap with matching lighting and skin tone") {
		t.Fatalf("swap quality directive missing: %s", got)
	}
}

func TestBuildEditInstruction(t *testing.T) {
	tests := []struct {
		name     string
		hasFace  bool
		wantSwap bool
	}{
		{name: "without face reference", hasFace: false, wantSwap: false},
		{name: "with face reference", hasFace: true, wantSwap: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildEditInstruction("add neon lights", tt.hasFace)
			if !strings.Contains(got, "add neon lights") {
				t.Fatalf("edit text missing: %s", got)
			}
			if !strings.Contains(got, "Maintain the high CTR psychological triggers") {
				t.Fatalf("preservation directive missing: %s", got)
			}
			if swap := strings.Contains(got, "CRITICAL FACE SWAP INSTRUCTION"); swap != tt.wantSwap {
				t.Fatalf("face swap block = %v, want %v: %s", swap, tt.wantSwap, got)
			}
		})
	}
}

func TestEnhancementBriefCarriesNicheAndInput(t *testing.T) {
	got := EnhancementBrief("I spent 24h underwater", domain.NicheVlog)
	if !strings.Contains(got, "Niche: Vlog") {
		t.Fatalf("niche label missing:\n%s", got)
	}
	if !strings.Contains(got, `"I spent 24h underwater"`) {
		t.Fatalf("raw idea missing:\n%s", got)
	}
	if !strings.Contains(got, "Curiosity Gap") {
		t.Fatalf("trigger list missing:\n%s", got)
	}
}

func TestPresetCoversAllNiches(t *testing.T) {
	for _, niche := range []domain.Niche{
		domain.NicheNone, domain.NicheGaming, domain.NicheTech, domain.NicheVlog,
		domain.NicheEducation, domain.NicheFinance, domain.NicheFitness, domain.NicheReaction,
	} {
		preset := Preset(niche)
		if preset.Label == "" || preset.Rules == "" {
			t.Errorf("incomplete preset for %s", niche)
		}
	}
}
