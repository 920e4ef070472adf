package contract

import (
	"slices"
	"strings"

	"petworld/internal/domain/pet"
	"petworld/internal/scval"
)

// Field layout of get_pet_info: name, birth_date, age, evolution_stage,
// happiness, hunger, health, ledgers_since_update, is_dead, death_timestamp.
var petInfoKinds = []scval.Kind{
	scval.KindString,
	scval.KindU64,
	scval.KindU64,
	scval.KindU32,
	scval.KindU32,
	scval.KindU32,
	scval.KindU32,
	scval.KindU64,
	scval.KindBool,
	scval.KindU64,
}

// Field layout of get_achievement_details: id, name, description, rarity, icon, total_earned.
var achievementKinds = []scval.Kind{
	scval.KindU128,
	scval.KindString,
	scval.KindString,
	scval.KindString,
	scval.KindString,
	scval.KindU128,
}

const stageIndex = 3

func DecodePet(d scval.Decoder, v scval.Value) pet.Record {
	if items := d.Items(v); len(items) > stageIndex {
		if stage, ok := stageFromVariant(d, items[stageIndex]); ok {
			items = slices.Clone(items)
			items[stageIndex] = scval.Prim{V: uint32(stage)}
			v = scval.Vec(items)
		}
	}
	f := d.Tuple(v, petInfoKinds)
	return pet.Record{
		Name:               f[0].Text(),
		BirthDate:          f[1].Uint64(),
		Age:                f[2].Uint64(),
		Stage:              pet.ClampStage(f[3].Int()),
		Happiness:          pet.ClampStat(f[4].Int()),
		Hunger:             pet.ClampStat(f[5].Int()),
		Health:             pet.ClampStat(f[6].Int()),
		LedgersSinceUpdate: f[7].Uint64(),
		Dead:               f[8].Bool(),
		DeathTimestamp:     f[9].Uint64(),
	}
}

// stageFromVariant reads unit enums encoded as a vec holding the variant
// symbol, e.g. ["Teen"].
func stageFromVariant(d scval.Decoder, v scval.Value) (pet.Stage, bool) {
	variant := d.Items(v)
	if len(variant) == 0 {
		return pet.StageEgg, false
	}
	name := d.Quiet().Scalar(variant[0], scval.KindString).Text()
	for s := pet.StageEgg; s <= pet.StageAdult; s++ {
		if strings.EqualFold(s.String(), name) {
			return s, true
		}
	}
	return pet.StageEgg, false
}

func DecodeAchievement(d scval.Decoder, v scval.Value) (pet.Achievement, bool) {
	f := d.Tuple(v, achievementKinds)
	id, ok := f[0].SafeUint()
	if !ok || id == 0 || !f[1].Valid() {
		return pet.Achievement{}, false
	}
	a := pet.Achievement{
		ID:          id,
		Name:        f[1].Text(),
		Description: f[2].Text(),
		Rarity:      pet.ParseRarity(f[3].Text()),
		Icon:        f[4].Text(),
		TotalEarned: f[5].Uint64(),
	}
	if a.Name == "" {
		a.Name = "Unknown Achievement"
	}
	if a.Icon == "" {
		a.Icon = pet.DefaultAchievementIcon
	}
	return a, true
}

// decodeSummaryIDs reads get_all_achievements, a list of (id, name) tuples.
func decodeSummaryIDs(d scval.Decoder, v scval.Value) []uint64 {
	items := d.Items(v)
	out := make([]uint64, 0, len(items))
	for _, item := range items {
		f := d.Tuple(item, []scval.Kind{scval.KindU128, scval.KindString})
		id, ok := f[0].SafeUint()
		if !ok || id == 0 || !f[1].Valid() || f[1].Text() == "" {
			continue
		}
		out = append(out, id)
	}
	return out
}
