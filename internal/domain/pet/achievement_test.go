package pet

import "testing"

func TestParseRarity(t *testing.T) {
	if got := ParseRarity("Legendary"); got != RarityLegendary {
		t.Fatalf("expected legendary, got %s", got)
	}
	if got := ParseRarity("shiny"); got != RarityCommon {
		t.Fatalf("expected unknown rarity to fall back to common, got %s", got)
	}
	if !(RarityCommon < RarityUncommon && RarityEpic < RarityLegendary && RarityLegendary < RarityMythic) {
		t.Fatalf("rarities must be ordered")
	}
}

func TestMarkEarned_PreservesOrder(t *testing.T) {
	all := []Achievement{{ID: 3}, {ID: 1}, {ID: 2, Earned: true}}
	out := MarkEarned(all, []uint64{1})

	if len(out) != 3 {
		t.Fatalf("expected 3 achievements, got %d", len(out))
	}
	wantIDs := []uint64{3, 1, 2}
	wantEarned := []bool{false, true, false}
	for i := range out {
		if out[i].ID != wantIDs[i] || out[i].Earned != wantEarned[i] {
			t.Fatalf("index %d: got id=%d earned=%v", i, out[i].ID, out[i].Earned)
		}
	}
	if !all[2].Earned {
		t.Fatalf("input slice must not be mutated")
	}
}
