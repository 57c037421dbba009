package world

import (
	"github.com/dhconnelly/rtreego"

	"github.com/kasuganosora/swarmai/game/ai"
	"github.com/kasuganosora/swarmai/game/geom"
)

const rtreeMinBranch, rtreeMaxBranch = 25, 50

type obstacleItem struct {
	ob ai.Obstacle
}

func (o *obstacleItem) Bounds() rtreego.Rect {
	r, _ := rtreego.NewRect(
		rtreego.Point{o.ob.Center.X - o.ob.Radius, o.ob.Center.Z - o.ob.Radius},
		[]float64{o.ob.Radius * 2, o.ob.Radius * 2},
	)
	return r
}

type agentItem struct {
	info ai.AgentInfo
}

func (a *agentItem) Bounds() rtreego.Rect {
	r, _ := rtreego.NewRect(
		rtreego.Point{a.info.Pos.X - a.info.Radius, a.info.Pos.Z - a.info.Radius},
		[]float64{a.info.Radius * 2, a.info.Radius * 2},
	)
	return r
}

// spatialIndex holds the static obstacle tree and a per-tick agent tree.
// Obstacles never move, so their tree is built once; the agent tree is
// rebuilt at the start of every tick.
type spatialIndex struct {
	obstacles *rtreego.Rtree
	agents    *rtreego.Rtree
}

func newSpatialIndex(obstacles []ai.Obstacle) *spatialIndex {
	items := make([]rtreego.Spatial, 0, len(obstacles))
	for _, ob := range obstacles {
		items = append(items, &obstacleItem{ob: ob})
	}
	return &spatialIndex{
		obstacles: rtreego.NewTree(2, rtreeMinBranch, rtreeMaxBranch, items...),
		agents:    rtreego.NewTree(2, rtreeMinBranch, rtreeMaxBranch),
	}
}

func (s *spatialIndex) rebuildAgents(agents []*ai.Agent) {
	items := make([]rtreego.Spatial, 0, len(agents))
	for _, a := range agents {
		if !a.Alive() {
			continue
		}
		items = append(items, &agentItem{info: ai.AgentInfo{
			InstID: a.InstID,
			Pos:    a.Pos,
			Radius: a.Template.Radius,
		}})
	}
	s.agents = rtreego.NewTree(2, rtreeMinBranch, rtreeMaxBranch, items...)
}

func queryRect(pos geom.Vec3, r float64) rtreego.Rect {
	rect, _ := rtreego.NewRect(
		rtreego.Point{pos.X - r, pos.Z - r},
		[]float64{r * 2, r * 2},
	)
	return rect
}

// nearbyObstacles returns obstacles whose circles may intersect the query
// circle. The rtree prunes by bounding box; callers do the exact test.
func (s *spatialIndex) nearbyObstacles(pos geom.Vec3, r float64) []ai.Obstacle {
	matches := s.obstacles.SearchIntersect(queryRect(pos, r))
	out := make([]ai.Obstacle, 0, len(matches))
	for _, m := range matches {
		item := m.(*obstacleItem)
		if geom.Dist(pos, item.ob.Center) <= r+item.ob.Radius {
			out = append(out, item.ob)
		}
	}
	return out
}

func (s *spatialIndex) nearbyAgents(pos geom.Vec3, r float64) []ai.AgentInfo {
	matches := s.agents.SearchIntersect(queryRect(pos, r))
	out := make([]ai.AgentInfo, 0, len(matches))
	for _, m := range matches {
		item := m.(*agentItem)
		if geom.Dist(pos, item.info.Pos) <= r+item.info.Radius {
			out = append(out, item.info)
		}
	}
	return out
}

// lineOfSight reports whether the segment between two points is clear of
// obstacles. Candidate obstacles come from the segment's bounding box.
func (s *spatialIndex) lineOfSight(from, to geom.Vec3) bool {
	minX, maxX := from.X, to.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minZ, maxZ := from.Z, to.Z
	if minZ > maxZ {
		minZ, maxZ = maxZ, minZ
	}
	rect, _ := rtreego.NewRect(
		rtreego.Point{minX, minZ},
		[]float64{maxX - minX + 0.001, maxZ - minZ + 0.001},
	)
	for _, m := range s.obstacles.SearchIntersect(rect) {
		ob := m.(*obstacleItem).ob
		if geom.SegmentCircleHit(from, to, ob.Center, ob.Radius) {
			return false
		}
	}
	return true
}
