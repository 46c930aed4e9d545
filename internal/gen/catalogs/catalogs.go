// Package catalogs loads the region identifier catalog: the mapping from
// symbolic region keys ("OCEAN", "DESERT_DEEP", ...) to the small integer
// ids stored in the grid, plus a display color per region.
package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

type RegionDef struct {
	ID    string `json:"id"`
	Color string `json:"color"`
}

type Catalog struct {
	Palette []string
	Index   map[string]uint8
	Defs    map[string]RegionDef
	Digest  string
}

// Load reads regions.json. UNASSIGNED must be present and is pinned to
// palette id 0 so a zeroed grid means "nothing placed yet".
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var defs []RegionDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("regions.json: %w", err)
	}

	c := &Catalog{
		Defs:   map[string]RegionDef{},
		Digest: sha256Hex(raw),
	}
	for _, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("regions.json: empty id")
		}
		c.Defs[d.ID] = d
	}
	if _, ok := c.Defs["UNASSIGNED"]; !ok {
		return nil, fmt.Errorf("regions.json: missing UNASSIGNED")
	}

	ids := make([]string, 0, len(c.Defs))
	for id := range c.Defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	ids = append([]string{"UNASSIGNED"}, filterOut(ids, "UNASSIGNED")...)
	if len(ids) > 256 {
		return nil, fmt.Errorf("regions.json: %d regions exceed the uint8 id space", len(ids))
	}

	c.Palette = ids
	c.Index = make(map[string]uint8, len(ids))
	for i, id := range ids {
		c.Index[id] = uint8(i)
	}
	return c, nil
}

// IDByKey resolves a symbolic region key to its grid id. Stages call this at
// construction time and fail before touching the grid when a key is absent.
func (c *Catalog) IDByKey(key string) (uint8, error) {
	id, ok := c.Index[key]
	if !ok {
		return 0, fmt.Errorf("region key %q not in catalog", key)
	}
	return id, nil
}

// ColorByID returns the display color for a grid id, or "" when unknown.
func (c *Catalog) ColorByID(id uint8) string {
	if int(id) >= len(c.Palette) {
		return ""
	}
	return c.Defs[c.Palette[id]].Color
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func filterOut(in []string, remove string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == remove {
			continue
		}
		out = append(out, s)
	}
	return out
}
