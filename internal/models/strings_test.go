package models

import "testing"

func TestStringSet_SortsAndDedupes(t *testing.T) {
	raw := StringSet([]string{"RPG", " Action ", "", "RPG"})
	if string(raw) != `["Action","RPG"]` {
		t.Fatalf("raw=%s", raw)
	}
	got := DecodeStrings(raw)
	if len(got) != 2 || got[0] != "Action" || got[1] != "RPG" {
		t.Fatalf("decoded=%v", got)
	}
}

func TestIsEmptyJSON(t *testing.T) {
	cases := map[string]bool{"": true, "null": true, "[]": true, "{}": true, `["x"]`: false}
	for in, want := range cases {
		if got := IsEmptyJSON([]byte(in)); got != want {
			t.Fatalf("IsEmptyJSON(%q)=%v want %v", in, got, want)
		}
	}
}

func TestTriState(t *testing.T) {
	yes := true
	if TriFromPtr(nil) != TriUnknown || TriFromPtr(&yes) != TriTrue || TriFromBool(false) != TriFalse {
		t.Fatalf("tri-state conversion broken")
	}
	if TriState("maybe").Normalize() != TriUnknown {
		t.Fatalf("unknown values must normalize to unknown")
	}
}
