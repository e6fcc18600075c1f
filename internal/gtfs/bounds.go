package gtfs

import (
	"math"

	"github.com/spritesoftware/node-gtfs/internal/store/model"
)

// BoundsTracker widens a south-west/north-east box over every location it
// is given.
type BoundsTracker struct {
	seen   bool
	bounds model.Bounds
}

// Extend ignores locations with a non-finite coordinate.
func (t *BoundsTracker) Extend(loc model.Location) {
	for _, c := range loc {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return
		}
	}
	if !t.seen {
		t.bounds = model.Bounds{SW: loc, NE: loc}
		t.seen = true
		return
	}
	for i := range loc {
		t.bounds.SW[i] = math.Min(t.bounds.SW[i], loc[i])
		t.bounds.NE[i] = math.Max(t.bounds.NE[i], loc[i])
	}
}

// Bounds returns the box and whether any location was seen.
func (t *BoundsTracker) Bounds() (model.Bounds, bool) {
	return t.bounds, t.seen
}

func (t *BoundsTracker) Reset() {
	*t = BoundsTracker{}
}
