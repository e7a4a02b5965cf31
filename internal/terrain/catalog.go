package terrain

import (
	"errors"
	"fmt"
	"image/color"
)

// ID is an opaque handle for a terrain def. The zero value means "no terrain"
// and is never handed out by a catalog.
type ID uint16

// None marks an absent terrain, e.g. a cell without a temporary override.
const None ID = 0

var (
	// ErrUnknownTerrain reports a def that references a terrain name the catalog
	// does not define.
	ErrUnknownTerrain = errors.New("terrain: unknown terrain")
	// ErrDuplicateTerrain reports two defs sharing a name.
	ErrDuplicateTerrain = errors.New("terrain: duplicate terrain")
)

// Def describes one terrain type. FloodsTo and FreezesTo name the temporary
// terrain that replaces this one under a flood or a freeze.
type Def struct {
	Name      string
	Water     bool
	River     bool
	FloodsTo  string
	FreezesTo string
	Color     color.RGBA
}

// Catalog resolves terrain predicates. It is immutable once built.
type Catalog struct {
	defs   []Def
	byName map[string]ID
	flood  []ID
	freeze []ID
}

// NewCatalog validates defs and assigns IDs in order starting at 1.
func NewCatalog(defs []Def) (*Catalog, error) {
	c := &Catalog{
		defs:   make([]Def, len(defs)+1),
		byName: make(map[string]ID, len(defs)),
		flood:  make([]ID, len(defs)+1),
		freeze: make([]ID, len(defs)+1),
	}
	for i, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("def %d has no name: %w", i, ErrUnknownTerrain)
		}
		if _, dup := c.byName[d.Name]; dup {
			return nil, fmt.Errorf("%q: %w", d.Name, ErrDuplicateTerrain)
		}
		id := ID(i + 1)
		c.defs[id] = d
		c.byName[d.Name] = id
	}
	for id := 1; id < len(c.defs); id++ {
		d := c.defs[id]
		if d.FloodsTo != "" {
			target, ok := c.byName[d.FloodsTo]
			if !ok {
				return nil, fmt.Errorf("%q floods to %q: %w", d.Name, d.FloodsTo, ErrUnknownTerrain)
			}
			c.flood[id] = target
		}
		if d.FreezesTo != "" {
			target, ok := c.byName[d.FreezesTo]
			if !ok {
				return nil, fmt.Errorf("%q freezes to %q: %w", d.Name, d.FreezesTo, ErrUnknownTerrain)
			}
			c.freeze[id] = target
		}
	}
	return c, nil
}

// Standard terrain names used by DefaultCatalog.
const (
	Soil         = "soil"
	Sand         = "sand"
	Rock         = "rock"
	Marsh        = "marsh"
	ShallowWater = "shallow_water"
	DeepWater    = "deep_water"
	RiverWater   = "river_water"
	FloodWater   = "flood_water"
	Ice          = "ice"
)

// DefaultDefs returns the built-in terrain set.
func DefaultDefs() []Def {
	return []Def{
		{Name: Soil, FloodsTo: FloodWater, Color: color.RGBA{R: 92, G: 70, B: 44, A: 255}},
		{Name: Sand, FloodsTo: FloodWater, Color: color.RGBA{R: 196, G: 180, B: 120, A: 255}},
		{Name: Rock, Color: color.RGBA{R: 120, G: 120, B: 124, A: 255}},
		{Name: Marsh, FloodsTo: ShallowWater, Color: color.RGBA{R: 70, G: 96, B: 60, A: 255}},
		{Name: ShallowWater, Water: true, FreezesTo: Ice, Color: color.RGBA{R: 60, G: 120, B: 190, A: 255}},
		{Name: DeepWater, Water: true, FreezesTo: Ice, Color: color.RGBA{R: 24, G: 60, B: 140, A: 255}},
		{Name: RiverWater, Water: true, River: true, Color: color.RGBA{R: 50, G: 110, B: 210, A: 255}},
		{Name: FloodWater, Water: true, Color: color.RGBA{R: 90, G: 150, B: 200, A: 255}},
		{Name: Ice, Color: color.RGBA{R: 220, G: 235, B: 245, A: 255}},
	}
}

// DefaultCatalog builds the catalog from DefaultDefs. The built-in defs are
// known to be consistent.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultDefs())
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) valid(id ID) bool { return id != None && int(id) < len(c.defs) }

// Len returns the number of defined terrains.
func (c *Catalog) Len() int { return len(c.defs) - 1 }

// Lookup returns the ID registered under name.
func (c *Catalog) Lookup(name string) (ID, bool) {
	id, ok := c.byName[name]
	return id, ok
}

// MustLookup is Lookup for names the caller knows exist.
func (c *Catalog) MustLookup(name string) ID {
	id, ok := c.byName[name]
	if !ok {
		panic(fmt.Sprintf("terrain: %q not in catalog", name))
	}
	return id
}

// Def returns the definition for id.
func (c *Catalog) Def(id ID) (Def, bool) {
	if !c.valid(id) {
		return Def{}, false
	}
	return c.defs[id], true
}

// Name returns the terrain name, or "none" for unknown IDs.
func (c *Catalog) Name(id ID) string {
	if !c.valid(id) {
		return "none"
	}
	return c.defs[id].Name
}

func (c *Catalog) IsWater(id ID) bool { return c.valid(id) && c.defs[id].Water }

func (c *Catalog) IsRiver(id ID) bool { return c.valid(id) && c.defs[id].River }

// FloodTerrainFor returns the temporary terrain a flood writes over original.
func (c *Catalog) FloodTerrainFor(original ID) (ID, bool) {
	if !c.valid(original) || c.flood[original] == None {
		return None, false
	}
	return c.flood[original], true
}

// FreezeTerrainFor returns the temporary terrain a freeze writes over current.
func (c *Catalog) FreezeTerrainFor(current ID) (ID, bool) {
	if !c.valid(current) || c.freeze[current] == None {
		return None, false
	}
	return c.freeze[current], true
}

// Palette returns one colour per ID, index 0 being transparent black.
func (c *Catalog) Palette() []color.RGBA {
	out := make([]color.RGBA, len(c.defs))
	for id := 1; id < len(c.defs); id++ {
		out[id] = c.defs[id].Color
	}
	return out
}
