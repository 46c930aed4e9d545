// Package preview renders a finished grid to a PNG using the catalog's
// display colors. It is tooling around the core, not part of it.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"mapforge/internal/gen/catalogs"
	"mapforge/internal/gen/grid"
)

func WritePNG(path string, g *grid.Grid, cat *catalogs.Catalog) error {
	palette := make([]color.RGBA, len(cat.Palette))
	for i, key := range cat.Palette {
		c, err := parseHexColor(cat.Defs[key].Color)
		if err != nil {
			return fmt.Errorf("region %s: %w", key, err)
		}
		palette[i] = c
	}

	img := image.NewRGBA(image.Rect(0, 0, g.W, g.H))
	cells := g.Cells()
	for y := 0; y < g.H; y++ {
		row := cells[y*g.W : (y+1)*g.W]
		for x, id := range row {
			c := color.RGBA{A: 0xff} // unknown ids render black
			if int(id) < len(palette) {
				c = palette[id]
			}
			img.SetRGBA(x, y, c)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func parseHexColor(s string) (color.RGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
