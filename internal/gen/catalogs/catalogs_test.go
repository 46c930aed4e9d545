package catalogs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRegions(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "regions.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write regions: %v", err)
	}
	return path
}

func TestLoadPinsUnassignedToZero(t *testing.T) {
	c, err := Load(writeRegions(t, `[
		{"id": "ZEBRA", "color": "#ffffff"},
		{"id": "UNASSIGNED", "color": "#000000"},
		{"id": "APPLE", "color": "#ff0000"}
	]`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Palette[0] != "UNASSIGNED" {
		t.Fatalf("palette[0] = %s, want UNASSIGNED", c.Palette[0])
	}
	if id, _ := c.IDByKey("UNASSIGNED"); id != 0 {
		t.Fatalf("UNASSIGNED id = %d", id)
	}
	// Remaining keys are sorted for a stable palette.
	if c.Palette[1] != "APPLE" || c.Palette[2] != "ZEBRA" {
		t.Fatalf("palette order = %v", c.Palette)
	}
	if c.Digest == "" {
		t.Fatalf("missing digest")
	}
}

func TestLoadRequiresUnassigned(t *testing.T) {
	if _, err := Load(writeRegions(t, `[{"id": "STONE", "color": "#666666"}]`)); err == nil {
		t.Fatalf("catalog without UNASSIGNED should fail")
	}
}

func TestLoadRejectsEmptyID(t *testing.T) {
	if _, err := Load(writeRegions(t, `[{"id": "", "color": "#666666"}]`)); err == nil {
		t.Fatalf("empty id should fail")
	}
}

func TestIDByKeyMissing(t *testing.T) {
	c, err := Load(writeRegions(t, `[{"id": "UNASSIGNED", "color": "#000000"}]`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := c.IDByKey("LAVA"); err == nil {
		t.Fatalf("unknown key should fail")
	}
}

func TestColorByID(t *testing.T) {
	c, err := Load(writeRegions(t, `[
		{"id": "UNASSIGNED", "color": "#000000"},
		{"id": "OCEAN", "color": "#1b4fa0"}
	]`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	id, _ := c.IDByKey("OCEAN")
	if got := c.ColorByID(id); got != "#1b4fa0" {
		t.Fatalf("color = %q", got)
	}
	if got := c.ColorByID(200); got != "" {
		t.Fatalf("unknown id color = %q, want empty", got)
	}
}
