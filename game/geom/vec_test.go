package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistIsPlanar(t *testing.T) {
	// Height difference must not affect distance.
	assert.InDelta(t, 5.0, Dist(V(0, 0, 0), V(3, 7, 4)), 0.001)
}

func TestNormalize(t *testing.T) {
	n := V(3, 0, 4).Normalize()
	assert.InDelta(t, 1.0, n.Mag(), 0.001)

	assert.True(t, Vec3{}.Normalize().IsZero())
}

func TestAngleBetween(t *testing.T) {
	assert.InDelta(t, 0, AngleBetween(V(0, 0, 1), V(0, 0, 5)), 0.001)
	assert.InDelta(t, 90, AngleBetween(V(0, 0, 1), V(1, 0, 0)), 0.001)
	assert.InDelta(t, 180, AngleBetween(V(0, 0, 1), V(0, 0, -1)), 0.001)
	// Vertical component is ignored.
	assert.InDelta(t, 0, AngleBetween(V(0, 0, 1), V(0, 9, 1)), 0.001)
}

func TestSegmentCircleHit(t *testing.T) {
	a, b := V(0, 0, 0), V(10, 0, 0)

	assert.True(t, SegmentCircleHit(a, b, V(5, 0, 0.5), 1))
	assert.False(t, SegmentCircleHit(a, b, V(5, 0, 3), 1))
	// Circle beyond the segment end does not block.
	assert.False(t, SegmentCircleHit(a, b, V(13, 0, 0), 1))
}

func TestFlatDropsHeight(t *testing.T) {
	f := V(1, 9, 2).Flat()
	assert.Equal(t, 0.0, f.Y)
	assert.Equal(t, 1.0, f.X)
}
