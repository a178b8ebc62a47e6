// Package composer assembles the instructions sent to the generative image
// service. Everything here is a pure function over strings; network dispatch
// lives in internal/genai.
package composer

import (
	"fmt"
	"strings"

	"thumbforge/internal/domain"
)

// criticalRenderRules is appended to every technical prompt regardless of
// niche or learned style.
const criticalRenderRules = `CRITICAL RENDER RULES:
1. COMPOSITION: Center the action. Ensure clear silhouette separation.
2. LIGHTING: Use "Rim Lighting" (Backlight) to pop the subject off the background.
3. COLOR: High saturation, complementary colors.
4. CLARITY: No blurry text. If text is implied in the prompt (like a score), render it clearly, otherwise avoid text.
5. FACE: If a face is present, the eyes must be sharp, focused, and expressive.`

const technicalSpecs = `Technical Specs: 8K resolution, ray-tracing, hyper-detailed textures.`

const faceSwapDirective = `CRITICAL INSTRUCTION (IDENTITY TRANSFER):
The image MUST feature a person as the main subject.
Swap the face of this person with the face provided in the input image.
The result must be a seamless, photorealistic face swap with matching lighting and skin tone.`

const editFaceSwapDirective = `CRITICAL FACE SWAP INSTRUCTION:
Swap the face of the main subject in the image with the face provided in the second reference image.
Ensure seamless integration, matching lighting, skin tone, and angle.`

// BuildTechnicalPrompt merges the niche ruleset, an optional learned style
// layer, and the fixed render rules around the brainstormed visual concept.
// learnedStyle augments the niche rules as a stronger instruction layer; it
// never replaces them.
func BuildTechnicalPrompt(visualConcept string, niche domain.Niche, learnedStyle string) string {
	preset := Preset(niche)

	var b strings.Builder
	b.WriteString("You are a Master Digital Artist and 3D Renderer (Unreal Engine 5).\n\n")
	b.WriteString("YOUR TASK:\nGenerate a high-CTR YouTube thumbnail based on this structured brief.\n\n")
	b.WriteString("PSYCHOLOGICAL FRAMEWORK:\n")
	b.WriteString(preset.Rules)
	b.WriteString("\n")

	if style := strings.TrimSpace(learnedStyle); style != "" {
		b.WriteString("\nVISUAL DNA OVERRIDE (STYLE MATCHING):\n")
		b.WriteString("Blend the scene described below with this specific artistic style:\n")
		fmt.Fprintf(&b, "%q\n", style)
	}

	b.WriteString("\nVISUAL BRIEF:\n")
	fmt.Fprintf(&b, "%q\n\n", strings.TrimSpace(visualConcept))
	b.WriteString(criticalRenderRules)
	b.WriteString("\n\n")
	b.WriteString(technicalSpecs)

	return b.String()
}

// BuildFaceSwapInstruction appends the identity-transfer directive block to an
// already constructed technical prompt.
func BuildFaceSwapInstruction(basePrompt string) string {
	return basePrompt + "\n\n" + faceSwapDirective
}

// BuildEditInstruction wraps a free-form edit request with a directive to keep
// the prior psychological triggers intact, optionally demanding a face swap
// against a second reference image.
func BuildEditInstruction(editText string, hasFaceReference bool) string {
	instruction := fmt.Sprintf("Edit this thumbnail image. Instruction: %s. Maintain the high CTR psychological triggers.", strings.TrimSpace(editText))
	if hasFaceReference {
		instruction += "\n" + editFaceSwapDirective
	}
	return instruction
}

// EnhancementBrief builds the "expert thumbnail designer" brainstorm prompt
// that converts a raw title into a structured visual concept. The output is
// consumed by the text model, not the image model.
func EnhancementBrief(rawIdea string, niche domain.Niche) string {
	preset := Preset(niche)

	lines := []string{
		"You are a world-class YouTube thumbnail designer and behavioral psychologist.",
		"Your job is to generate ultra-clickable, high-CTR thumbnails based on the user's prompt.",
		"You understand color psychology, emotional triggers, thumbnail composition, view-flow direction, and YouTube algorithm signals.",
		"",
		"OUTPUT REQUIREMENTS:",
		"Thumbnails must capture attention within 0.2 seconds, translate clearly when small, have a strong subject and center of focus, use dramatic storytelling in one frame, work for global audiences, and be optimized mobile-first.",
		"",
		"COLOR + PSYCHOLOGY RULES:",
		"Red means urgency and excitement; Yellow grabs attention and curiosity; Blue signals trust and technology; Orange is energy and action; Black/Gold is luxury; White is clarity and contrast. Always keep high contrast between subject and background.",
		"",
		"DESIGN PRINCIPLES:",
		"Large face expressions, big typography with fewer than 3 words, diagonal composition, strong foreground with blurred background depth, rim lighting, clear emotion or tension, no clutter, 1-3 visual elements only.",
		"",
		"PSYCHOLOGICAL TRIGGERS (every thumbnail):",
		"1. Curiosity Gap - show something surprising or incomplete.",
		"2. Tension - conflict, danger, or an impossible moment.",
		"3. Human Emotion - dramatic facial expressions, eye contact with camera.",
		"4. Pattern Break - unexpected colors, strange objects, unusual sizes.",
		"5. Simplicity - one idea, one story, one emotional hook.",
		"",
		"EMOTIONAL LAYERS:",
		"Identify the primary emotional hook for the niche, describe lighting and composition that amplifies it, and if the title implies a journey focus on the transformation or result.",
		"",
		"CONTEXT:",
		fmt.Sprintf("- Niche: %s", preset.Label),
		fmt.Sprintf("- Input: %q", strings.TrimSpace(rawIdea)),
		"",
		"STRUCTURED OUTPUT FORMAT:",
		"[THUMBNAIL PROMPT]",
		"MAIN SUBJECT: subject, pose, facial expression, angle.",
		"BACKGROUND: colors, environment, mood, depth, blur style.",
		"LIGHTING: cinematic lighting style and color grading.",
		"COLORS: dominant colors plus psychology reasons.",
		"TEXT STYLE: text (max 3 words), font style, placement.",
		"EMOTION: the instant feeling for the viewer.",
		"COMPOSITION: depth, foreground, midground, background, focal point.",
		"STYLE: hyper-realistic, 8K, sharp, high dynamic range, extreme clarity.",
		"SPECIAL EFFECTS: glow, rim light, particles, tension elements, arrows, highlights.",
	}

	return strings.Join(lines, "\n")
}

// StyleAnalysisBrief is the multimodal request asking for a reproducible
// "visual DNA" keyword string extracted from reference images.
func StyleAnalysisBrief() string {
	lines := []string{
		"Act as a Lead Technical Artist and Director of Photography.",
		"Analyze these reference images to reverse-engineer their exact visual formula (Visual DNA).",
		"",
		"I need a highly technical configuration string to reproduce this style.",
		"",
		"Analyze:",
		"1. Render Engine & Aesthetic",
		"2. Lighting Setup (Softbox, Hard Rim, God Rays)",
		"3. Color Palette & Grading (Teal/Orange, Desaturated, Neon)",
		"4. Camera & Lens (Focal length, Depth of Field)",
		"5. Textures (Grain, Gloss, Matte)",
		"6. Composition (Rule of Thirds, Symmetry)",
		"",
		"Output ONLY the raw comma-separated keywords.",
	}
	return strings.Join(lines, "\n")
}
