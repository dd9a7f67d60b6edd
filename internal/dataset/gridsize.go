package dataset

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCellSize is returned when a cell size is zero, negative or not
// finite.
var ErrInvalidCellSize = errors.New("cell size must be a positive finite number")

// ErrUnboundedExtent is returned when the x or y limit of a selection is
// open, or the count does not fit in an int.
var ErrUnboundedExtent = errors.New("selection extent is not finite")

// RandomPointsCount estimates how many random sample points cover the x/y
// extent of p at a resolution of p.CellSize:
//
//	int(ExtentXSize * ExtentYSize / CellSize²)
//
// The quotient is truncated toward zero, never rounded. Inverted limits
// give a negative area, and the resulting negative count is returned as
// is; callers that need a usable budget must check for count <= 0.
func RandomPointsCount(p SelectionParams) (int, error) {
	cs := p.CellSize
	if cs <= 0 || math.IsNaN(cs) || math.IsInf(cs, 0) {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidCellSize, cs)
	}
	q := p.ExtentXSize() * p.ExtentYSize() / (cs * cs)
	if math.IsNaN(q) || q >= math.MaxInt || q <= math.MinInt {
		return 0, fmt.Errorf("%w: x=%v y=%v cell=%v", ErrUnboundedExtent, p.X, p.Y, cs)
	}
	return int(q), nil
}
