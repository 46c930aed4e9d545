package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	RasterThreshold int  `yaml:"raster_threshold"`
	CalibrateRaster bool `yaml:"calibrate_raster"`

	WorldSizes map[string]WorldSize `yaml:"world_sizes"`
	Layers     []Layer              `yaml:"layers"`
}

type WorldSize struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Layer names a vertical band of the world as percentages of total height.
type Layer struct {
	Name  string `yaml:"name" json:"name"`
	Start int    `yaml:"start" json:"start"`
	End   int    `yaml:"end" json:"end"`
}

// RowBounds converts the band to absolute rows for a world of height h.
// The returned range is [y0, y1) .
func (l Layer) RowBounds(h int) (int, int) {
	return h * l.Start / 100, h * l.End / 100
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("worlds.yaml: %w", err)
	}
	if err := t.validate(); err != nil {
		return t, fmt.Errorf("worlds.yaml: %w", err)
	}
	return t, nil
}

func Defaults() Tuning {
	return Tuning{
		RasterThreshold: 50000,
		WorldSizes: map[string]WorldSize{
			"small":  {Width: 4200, Height: 1200},
			"medium": {Width: 6400, Height: 1800},
			"large":  {Width: 8400, Height: 2400},
		},
		Layers: []Layer{
			{Name: "sky", Start: 0, End: 8},
			{Name: "surface", Start: 8, End: 32},
			{Name: "underground", Start: 32, End: 68},
			{Name: "cavern", Start: 68, End: 100},
		},
	}
}

func (t Tuning) validate() error {
	for name, s := range t.WorldSizes {
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("world size %q: non-positive dimensions", name)
		}
	}
	for _, l := range t.Layers {
		if l.Name == "" {
			return fmt.Errorf("layer with empty name")
		}
		if l.Start < 0 || l.End > 100 || l.Start >= l.End {
			return fmt.Errorf("layer %q: bad band [%d,%d], need 0 <= start < end <= 100", l.Name, l.Start, l.End)
		}
	}
	return nil
}

// LayerByName returns the named band; stages treat a missing layer as a
// configuration error.
func (t Tuning) LayerByName(name string) (Layer, error) {
	for _, l := range t.Layers {
		if l.Name == name {
			return l, nil
		}
	}
	return Layer{}, fmt.Errorf("layer %q not configured", name)
}
