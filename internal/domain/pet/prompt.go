package pet

import "fmt"

type AvatarParams struct {
	PetName   string
	Creature  CreatureType
	Stage     Stage
	Happiness int
	Hunger    int
	Health    int
}

const egg = "a mysterious glowing egg, magical aura, fantasy art style, cosmic energy"

var stagePrompts = map[CreatureType][4]string{
	CreatureDragon: {
		egg,
		"a cute baby dragon creature, adorable, big eyes, chibi style, kawaii, soft pastel colors",
		"a teenage dragon, energetic, playful, vibrant colors, dynamic pose, detailed scales",
		"a majestic adult dragon, powerful, elegant, intricate details, epic fantasy art, wings spread",
	},
	CreatureUnicorn: {
		egg + ", rainbow sparkles",
		"a cute baby unicorn creature, adorable, big eyes, chibi style, kawaii, soft pastel colors, tiny horn",
		"a teenage unicorn, energetic, playful, vibrant colors, dynamic pose, flowing mane, magical horn",
		"a majestic adult unicorn, powerful, elegant, intricate details, epic fantasy art, flowing rainbow mane, spiraled horn",
	},
	CreatureDino: {
		egg + ", prehistoric patterns",
		"a cute baby dinosaur creature, adorable, big eyes, chibi style, kawaii, soft pastel colors, tiny claws",
		"a teenage dinosaur, energetic, playful, vibrant colors, dynamic pose, detailed scales, growing spikes",
		"a majestic adult dinosaur, powerful, elegant, intricate details, epic fantasy art, impressive size, detailed scales and features",
	},
}

var moodModifiers = map[Mood]string{
	MoodLoved:     "bright vibrant colors, healthy appearance, glowing aura, happy expression, surrounded by sparkles",
	MoodNeutral:   "balanced colors, normal appearance, peaceful mood",
	MoodNeglected: "muted dark colors, tired appearance, sad expression, dim lighting, shadows",
}

// AvatarPrompt describes the avatar for a creature at a stage and mood. Unknown
// creatures fall back to dragon and out-of-range stages are clamped.
func AvatarPrompt(p AvatarParams) string {
	stages, ok := stagePrompts[p.Creature]
	if !ok {
		stages = stagePrompts[CreatureDragon]
	}
	stage := ClampStage(int(p.Stage))
	mood := MoodOf(p.Happiness, p.Hunger, p.Health)
	return fmt.Sprintf("Professional digital art, %s, %s, named %q, highly detailed, 8k quality, trending on artstation, concept art",
		stages[stage], moodModifiers[mood], p.PetName)
}
