package world

import (
	"github.com/kasuganosora/swarmai/game/ai"
	"github.com/kasuganosora/swarmai/game/geom"
)

// resolveCircleOverlap pushes a circle at pos out of an overlapping
// obstacle along the line between centers. ok is false when the circles
// do not overlap.
func resolveCircleOverlap(pos geom.Vec3, radius float64, ob ai.Obstacle) (geom.Vec3, bool) {
	away := pos.Sub(ob.Center).Flat()
	dist := away.Mag()
	minDist := radius + ob.Radius
	if dist >= minDist {
		return pos, false
	}
	if dist == 0 {
		// Dead center: pick a fixed escape axis.
		away = geom.V(1, 0, 0)
		dist = 1
	}
	push := away.Scale((minDist - dist) / dist)
	return pos.Add(push), true
}
