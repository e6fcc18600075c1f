package gtfs

import (
	"math"

	"github.com/spritesoftware/node-gtfs/internal/store/model"
	"github.com/spritesoftware/node-gtfs/pkg/geo"
)

const (
	// AssumedVelocityKmh converts path distance into travel time.
	AssumedVelocityKmh = 50.0

	// NoBearing marks the first point of a shape, which has no predecessor.
	NoBearing = -1.0
)

// TimeOffset returns the whole seconds needed to cover km at the assumed
// velocity.
func TimeOffset(km float64) int64 {
	return int64(math.Floor(km / AssumedVelocityKmh * 3600))
}

// ShapeAccumulator derives time offsets and back bearings for shape points
// delivered in file order. Points of one shape must be contiguous; a change
// of shape id closes the previous shape.
type ShapeAccumulator struct {
	agencyKey string

	started bool
	shapeID string
	last    model.Location
	cumKm   float64
}

func NewShapeAccumulator(agencyKey string) *ShapeAccumulator {
	return &ShapeAccumulator{agencyKey: agencyKey}
}

// Add fills TimeOffset and BackBearing on p, which must carry a location.
// When p starts a new shape, the statistics of the shape just finished are
// returned.
func (a *ShapeAccumulator) Add(p *model.ShapePoint) *model.ShapeStat {
	if p.Loc == nil {
		return nil
	}
	cur := *p.Loc

	id := ""
	if p.ShapeID != nil {
		id = *p.ShapeID
	}

	var finished *model.ShapeStat
	if a.started && id == a.shapeID {
		d := geo.Distance(a.last.Lat(), a.last.Lon(), cur.Lat(), cur.Lon())
		bearing := geo.Bearing(cur.Lat(), cur.Lon(), a.last.Lat(), a.last.Lon())
		a.cumKm += d

		offset := TimeOffset(a.cumKm)
		p.TimeOffset = &offset
		p.BackBearing = &bearing
	} else {
		finished = a.stat()
		a.cumKm = 0

		offset := int64(0)
		bearing := NoBearing
		p.TimeOffset = &offset
		p.BackBearing = &bearing
	}

	a.started = true
	a.shapeID = id
	a.last = cur
	return finished
}

// Flush returns the statistics of the shape in progress, if any, and resets
// the accumulator.
func (a *ShapeAccumulator) Flush() *model.ShapeStat {
	stat := a.stat()
	a.started = false
	a.shapeID = ""
	a.cumKm = 0
	return stat
}

// CumulativeKm is the path length of the current shape so far.
func (a *ShapeAccumulator) CumulativeKm() float64 {
	return a.cumKm
}

func (a *ShapeAccumulator) stat() *model.ShapeStat {
	if !a.started {
		return nil
	}
	return &model.ShapeStat{
		AgencyKey: a.agencyKey,
		ShapeID:   a.shapeID,
		TotalTime: TimeOffset(a.cumKm),
	}
}
