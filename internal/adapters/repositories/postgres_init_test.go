package repositories

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSeedFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clients.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
	return path
}

func TestReadSeeds(t *testing.T) {
	path := writeSeedFile(t, `[
		{"id": "c1", "name": " Ada ", "address": "1 Oak St", "lat": 33.4, "lon": -112.1},
		{"name": "Bo", "address": "2 Elm St", "service_type": "mow", "priority": 2}
	]`)

	seeds, err := ReadSeeds(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seeds) != 2 {
		t.Fatalf("seeds = %d, want 2", len(seeds))
	}

	first := seeds[0].Client()
	if first.ID != "c1" || first.Name != "Ada" || first.Position == nil || first.Position.Lon != -112.1 {
		t.Fatalf("first = %+v", first)
	}

	second := seeds[1].Client()
	if second.ID == "" {
		t.Fatalf("expected generated id")
	}
	if second.Position != nil || second.ServiceType != "mow" || second.Priority != 2 {
		t.Fatalf("second = %+v", second)
	}
}

func TestReadSeedsRejectsInvalidRows(t *testing.T) {
	tests := map[string]string{
		"name":    `[{"address": "1 Oak St"}]`,
		"address": `[{"name": "Ada"}]`,
		"lat":     `[{"name": "Ada", "address": "1 Oak St", "lat": 1}]`,
		"parse":   `{"name": "Ada"}`,
	}

	for want, body := range tests {
		_, err := ReadSeeds(writeSeedFile(t, body))
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("body %s: err = %v, want mention of %q", body, err, want)
		}
	}
}
