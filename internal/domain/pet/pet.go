package pet

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	MinNameLength = 1
	MaxNameLength = 20
)

var ErrInvalidName = errors.New("pet name must be between 1 and 20 characters")

type Stage int

const (
	StageEgg Stage = iota
	StageBaby
	StageTeen
	StageAdult
)

func (s Stage) String() string {
	switch s {
	case StageEgg:
		return "Egg"
	case StageBaby:
		return "Baby"
	case StageTeen:
		return "Teen"
	case StageAdult:
		return "Adult"
	default:
		return "Unknown"
	}
}

func (s Stage) Valid() bool {
	return s >= StageEgg && s <= StageAdult
}

func ClampStage(n int) Stage {
	if n < int(StageEgg) {
		return StageEgg
	}
	if n > int(StageAdult) {
		return StageAdult
	}
	return Stage(n)
}

// Record is one decoded snapshot of a pet. A refresh replaces the whole value.
type Record struct {
	Name               string `json:"name"`
	BirthDate          uint64 `json:"birth_date"`
	Age                uint64 `json:"age"`
	Stage              Stage  `json:"evolution_stage"`
	Happiness          int    `json:"happiness"`
	Hunger             int    `json:"hunger"`
	Health             int    `json:"health"`
	LedgersSinceUpdate uint64 `json:"ledgers_since_update"`
	Dead               bool   `json:"is_dead"`
	DeathTimestamp     uint64 `json:"death_timestamp"`
}

// Found reports whether the record carries contract data. A tuple that decoded
// entirely to defaults has an empty name.
func (r Record) Found() bool {
	return r.Name != ""
}

func ValidateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	n := utf8.RuneCountInString(trimmed)
	if n < MinNameLength || n > MaxNameLength {
		return "", ErrInvalidName
	}
	return trimmed, nil
}

func ClampStat(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

type Mood string

const (
	MoodLoved     Mood = "loved"
	MoodNeutral   Mood = "neutral"
	MoodNeglected Mood = "neglected"
)

// MoodOf scores how well a pet is kept. Hunger counts against the score.
func MoodOf(happiness, hunger, health int) Mood {
	avg := (ClampStat(happiness) + (100 - ClampStat(hunger)) + ClampStat(health)) / 3
	switch {
	case avg >= 70:
		return MoodLoved
	case avg < 40:
		return MoodNeglected
	default:
		return MoodNeutral
	}
}

func (r Record) Mood() Mood {
	return MoodOf(r.Happiness, r.Hunger, r.Health)
}

type CreatureType string

const (
	CreatureDragon  CreatureType = "dragon"
	CreatureUnicorn CreatureType = "unicorn"
	CreatureDino    CreatureType = "dino"
)

func (c CreatureType) Valid() bool {
	switch c {
	case CreatureDragon, CreatureUnicorn, CreatureDino:
		return true
	default:
		return false
	}
}
