package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worlds.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
raster_threshold: 1000
world_sizes:
  tiny: { width: 100, height: 50 }
layers:
  - { name: surface, start: 10, end: 40 }
`)
	tn, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tn.RasterThreshold != 1000 {
		t.Fatalf("threshold = %d", tn.RasterThreshold)
	}
	if s := tn.WorldSizes["tiny"]; s.Width != 100 || s.Height != 50 {
		t.Fatalf("tiny = %+v", s)
	}
}

func TestLoadRejectsBadBands(t *testing.T) {
	bad := []string{
		`layers: [{ name: a, start: 40, end: 40 }]`,
		`layers: [{ name: a, start: 50, end: 10 }]`,
		`layers: [{ name: a, start: -1, end: 10 }]`,
		`layers: [{ name: a, start: 0, end: 101 }]`,
		`layers: [{ name: "", start: 0, end: 10 }]`,
		`world_sizes: { broken: { width: 0, height: 10 } }`,
	}
	for _, body := range bad {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Fatalf("config %q should be rejected", body)
		}
	}
}

func TestRowBounds(t *testing.T) {
	l := Layer{Name: "surface", Start: 8, End: 32}
	y0, y1 := l.RowBounds(1200)
	if y0 != 96 || y1 != 384 {
		t.Fatalf("rows = [%d,%d), want [96,384)", y0, y1)
	}
}

func TestLayerByName(t *testing.T) {
	tn := Defaults()
	if _, err := tn.LayerByName("surface"); err != nil {
		t.Fatalf("surface: %v", err)
	}
	if _, err := tn.LayerByName("mantle"); err == nil {
		t.Fatalf("missing layer should error")
	}
}

func TestDefaultsValidate(t *testing.T) {
	if err := Defaults().validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}
