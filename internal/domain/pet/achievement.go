package pet

import "strings"

const DefaultAchievementIcon = "🏆"

type Rarity int

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
	RarityMythic
)

var rarityNames = [...]string{"common", "uncommon", "rare", "epic", "legendary", "mythic"}

func (r Rarity) String() string {
	if r < RarityCommon || int(r) >= len(rarityNames) {
		return rarityNames[RarityCommon]
	}
	return rarityNames[r]
}

func (r Rarity) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Rarity) UnmarshalText(b []byte) error {
	*r = ParseRarity(string(b))
	return nil
}

// ParseRarity maps unknown text to common.
func ParseRarity(s string) Rarity {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range rarityNames {
		if name == s {
			return Rarity(i)
		}
	}
	return RarityCommon
}

type Achievement struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Rarity      Rarity `json:"rarity"`
	Icon        string `json:"icon"`
	TotalEarned uint64 `json:"total_earned"`
	Earned      bool   `json:"earned"`
}

type PetAchievements struct {
	PetID        uint64        `json:"pet_id"`
	Achievements []Achievement `json:"achievements"`
	TotalCount   int           `json:"total_count"`
}

// MarkEarned returns a copy of all with Earned set by membership in earnedIDs.
func MarkEarned(all []Achievement, earnedIDs []uint64) []Achievement {
	set := make(map[uint64]struct{}, len(earnedIDs))
	for _, id := range earnedIDs {
		set[id] = struct{}{}
	}
	out := make([]Achievement, 0, len(all))
	for _, a := range all {
		_, a.Earned = set[a.ID]
		out = append(out, a)
	}
	return out
}
