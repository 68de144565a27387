package cache

import "testing"

func TestNormalizeKeysDeduplicates(t *testing.T) {
	keys, originals := normalizeKeys([]string{"1 Oak St", "1  OAK st", "", "   ", "2 Elm St"})

	if len(keys) != 2 {
		t.Fatalf("keys = %v, want 2 entries", keys)
	}
	if keys[0] != "1 oak st" || keys[1] != "2 elm st" {
		t.Fatalf("keys = %v", keys)
	}
	if len(originals["1 oak st"]) != 2 {
		t.Fatalf("originals = %v", originals)
	}
}
