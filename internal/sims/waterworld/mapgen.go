package waterworld

import (
	"floodsim/internal/core"
	"floodsim/internal/terrain"
	pcore "floodsim/pkg/core"
)

// generateMap paints the demo terrain with patch seeding: scattered rock,
// marsh patches, round lakes with deep cores, meandering rivers and sandy
// shores. Fog covers the outer margin.
func generateMap(store *terrain.Store, cat *terrain.Catalog, p Params, rng *pcore.RNG) {
	size := store.Size()
	soil := cat.MustLookup(terrain.Soil)
	rock := cat.MustLookup(terrain.Rock)

	for idx := 0; idx < size.Area(); idx++ {
		c := size.CellAt(idx)
		if p.RockChance > 0 && rng.Chance(p.RockChance) {
			store.SetTerrain(c, rock)
		} else {
			store.SetTerrain(c, soil)
		}
	}

	marsh := cat.MustLookup(terrain.Marsh)
	for i := 0; i < p.MarshPatches; i++ {
		center := core.Cell{X: rng.IntN(size.W), Z: rng.IntN(size.H)}
		paintDisc(store, center, p.MarshRadius, func(c core.Cell, _ int) {
			if rng.Chance(0.7) {
				store.SetTerrain(c, marsh)
			}
		})
	}

	shallow := cat.MustLookup(terrain.ShallowWater)
	deep := cat.MustLookup(terrain.DeepWater)
	for i := 0; i < p.LakeCount; i++ {
		center := core.Cell{X: rng.IntN(size.W), Z: rng.IntN(size.H)}
		radius := rng.RangeInt(p.LakeRadiusMin, p.LakeRadiusMax)
		deepR2 := (radius / 2) * (radius / 2)
		paintDisc(store, center, radius, func(c core.Cell, d2 int) {
			if d2 <= deepR2 {
				store.SetTerrain(c, deep)
			} else {
				store.SetTerrain(c, shallow)
			}
		})
	}

	river := cat.MustLookup(terrain.RiverWater)
	for i := 0; i < p.RiverCount; i++ {
		paintRiver(store, river, rng)
	}

	if p.SandChance > 0 {
		sand := cat.MustLookup(terrain.Sand)
		for idx := 0; idx < size.Area(); idx++ {
			c := size.CellAt(idx)
			if store.OriginalTerrain(c) != soil || !nextToWater(store, cat, c) {
				continue
			}
			if rng.Chance(p.SandChance) {
				store.SetTerrain(c, sand)
			}
		}
	}

	if p.FogMargin > 0 {
		for idx := 0; idx < size.Area(); idx++ {
			c := size.CellAt(idx)
			edge := min(c.X, c.Z, size.W-1-c.X, size.H-1-c.Z)
			store.SetFogged(c, edge < p.FogMargin)
		}
	}
}

// paintDisc calls fn for every in-bounds cell within radius of center, with
// the squared distance.
func paintDisc(store *terrain.Store, center core.Cell, radius int, fn func(c core.Cell, d2 int)) {
	if radius < 0 {
		return
	}
	r2 := radius * radius
	for dz := -radius; dz <= radius; dz++ {
		for dx := -radius; dx <= radius; dx++ {
			d2 := dx*dx + dz*dz
			if d2 > r2 {
				continue
			}
			c := center.Add(dx, dz)
			if store.InBounds(c) {
				fn(c, d2)
			}
		}
	}
}

// paintRiver walks from the west edge to the east edge, drifting north or
// south now and then.
func paintRiver(store *terrain.Store, river terrain.ID, rng *pcore.RNG) {
	size := store.Size()
	z := rng.IntN(size.H)
	for x := 0; x < size.W; x++ {
		store.SetTerrain(core.Cell{X: x, Z: z}, river)
		if rng.Chance(0.3) {
			z += rng.RangeInt(-1, 1)
			z = max(0, min(z, size.H-1))
			store.SetTerrain(core.Cell{X: x, Z: z}, river)
		}
	}
}

func nextToWater(store *terrain.Store, cat *terrain.Catalog, c core.Cell) bool {
	for _, n := range c.Cardinal() {
		if store.InBounds(n) && cat.IsWater(store.OriginalTerrain(n)) {
			return true
		}
	}
	return false
}
