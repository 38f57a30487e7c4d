// Package throttle limits how much each frame of an animation changes from
// the one before it.
//
// When two consecutive frames differ in more bytes than the budget allows,
// changed bytes in the later frame are reverted to their previous values
// until the difference fits. The canvas is divided into a grid of cells and
// reverts are taken one byte at a time from each cell in turn, with every
// cell remembering where it left off. Because that state carries over from
// one frame pair to the next, the loss of detail is spread out across the
// picture and across time instead of always landing on the same spot.
//
// Only the pixel region is ever modified.
package throttle

import (
	"fmt"
	"math"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/gsla"
)

// Unlimited is a budget no frame can exceed. Throttling with it changes
// nothing.
const Unlimited = math.MaxInt

// Throttle holds the cell grid and round-robin cursors for one animation.
// Don't share a Throttle between animations or goroutines.
type Throttle struct {
	cellWidth    int // bytes
	cellHeight   int // rows
	cellsX       int
	cellsY       int
	bytesPerCell int

	// cellCursors[i] is the next position to check within cell i.
	cellCursors []int
	nextCell    int
	cellReverts []int
}

// Option configures a [Throttle].
type Option func(*Throttle)

// WithWholeCellsOnly drops cells that would extend past the right or bottom
// edge of the canvas instead of clipping them. Bytes not covered by a whole
// cell are never reverted, so some budgets can become unreachable.
func WithWholeCellsOnly() Option {
	return func(t *Throttle) {
		t.cellsX = gsla.BytesPerRow / t.cellWidth
		t.cellsY = gsla.ScreenHeight / t.cellHeight
	}
}

// New creates a throttle whose cells are `cellWidthPx` by `cellHeightPx`
// pixels. Sizes are clamped to the screen, and a cell is always at least one
// byte wide and one row high.
func New(cellWidthPx, cellHeightPx int, options ...Option) *Throttle {
	if cellWidthPx > gsla.ScreenWidthPixels {
		cellWidthPx = gsla.ScreenWidthPixels
	}
	if cellHeightPx > gsla.ScreenHeight {
		cellHeightPx = gsla.ScreenHeight
	}

	cellWidth := cellWidthPx / gsla.PixelsPerByte
	if cellWidth < 1 {
		cellWidth = 1
	}
	cellHeight := cellHeightPx
	if cellHeight < 1 {
		cellHeight = 1
	}

	t := &Throttle{
		cellWidth:    cellWidth,
		cellHeight:   cellHeight,
		cellsX:       ceilDiv(gsla.BytesPerRow, cellWidth),
		cellsY:       ceilDiv(gsla.ScreenHeight, cellHeight),
		bytesPerCell: cellWidth * cellHeight,
	}
	for _, option := range options {
		option(t)
	}

	t.cellCursors = make([]int, t.TotalCells())
	t.cellReverts = make([]int, t.TotalCells())
	return t
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// CellWidthBytes returns the width of a cell in bytes.
func (t *Throttle) CellWidthBytes() int {
	return t.cellWidth
}

// CellHeight returns the height of a cell in rows.
func (t *Throttle) CellHeight() int {
	return t.cellHeight
}

// Grid returns the number of cells across and down.
func (t *Throttle) Grid() (int, int) {
	return t.cellsX, t.cellsY
}

// TotalCells returns the number of cells in the grid.
func (t *Throttle) TotalCells() int {
	return t.cellsX * t.cellsY
}

// BytesPerCell returns the number of positions each cell cycles through.
func (t *Throttle) BytesPerCell() int {
	return t.bytesPerCell
}

// NextCell returns the index of the cell the next revert will be tried in.
func (t *Throttle) NextCell() int {
	return t.nextCell
}

// CellOf returns the index of the cell containing pixel-region byte `offset`,
// or -1 if no cell covers it.
func (t *Throttle) CellOf(offset int) int {
	if offset < 0 || offset >= gsla.PixelRegionSize {
		return -1
	}
	cellX := (offset % gsla.BytesPerRow) / t.cellWidth
	cellY := (offset / gsla.BytesPerRow) / t.cellHeight
	if cellX >= t.cellsX || cellY >= t.cellsY {
		return -1
	}
	return cellY*t.cellsX + cellX
}

// position converts a cell and a position within it to a pixel-region
// offset. The boolean is false if the position falls off the edge of the
// canvas.
func (t *Throttle) position(cell, sub int) (int, bool) {
	x := (cell%t.cellsX)*t.cellWidth + sub%t.cellWidth
	y := (cell/t.cellsX)*t.cellHeight + sub/t.cellWidth
	if x >= gsla.BytesPerRow || y >= gsla.ScreenHeight {
		return 0, false
	}
	return y*gsla.BytesPerRow + x, true
}

// PairResult describes what happened to one frame when it was throttled
// against the frame before it.
type PairResult struct {
	// Frame is the index of the frame that was modified.
	Frame int
	// Before is the number of differing bytes before throttling.
	Before int
	// After is the number of differing bytes after throttling.
	After int
	// Reverted has a bit set for every pixel-region byte that was reverted.
	Reverted bitmap.Bitmap
}

// RevertCount returns the number of bytes reverted.
func (r PairResult) RevertCount() int {
	return r.Before - r.After
}

// Report summarizes a call to [Throttle.Apply].
type Report struct {
	Pairs []PairResult
	// CellReverts is the cumulative number of reverts in each cell, including
	// those made by earlier calls on the same Throttle.
	CellReverts []int
}

// TotalReverted returns the number of bytes reverted across all pairs.
func (r Report) TotalReverted() int {
	total := 0
	for _, pair := range r.Pairs {
		total += pair.RevertCount()
	}
	return total
}

// Apply throttles every consecutive pair of `frames` in order, modifying the
// frames in place. Each frame is compared against the (possibly already
// modified) frame before it.
//
// If a pair can't be brought within budget, the error wraps
// [gsla.ErrBudgetUnreachable] and the frames up to and including that one
// have been modified. The report covers the pairs processed so far.
func (t *Throttle) Apply(frames [][]byte, budget int) (Report, error) {
	report := Report{}
	if budget < 0 {
		return report, gsla.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("byte budget can't be negative, got %d", budget))
	}
	if err := checkFrames(frames...); err != nil {
		return report, err
	}

	for i := 1; i < len(frames); i++ {
		result, err := t.ReduceFrame(frames[i-1], frames[i], budget)
		result.Frame = i
		report.Pairs = append(report.Pairs, result)
		if err != nil {
			report.CellReverts = t.CellReverts()
			if kind, ok := err.(gsla.Error); ok {
				err = kind.WithMessage(fmt.Sprintf("frame %d", i))
			}
			return report, err
		}
	}

	report.CellReverts = t.CellReverts()
	return report, nil
}

// ReduceFrame reverts bytes of `curr` to their values in `prev` until the two
// differ in at most `budget` bytes.
//
// If no further progress is possible, the error wraps
// [gsla.ErrBudgetUnreachable]; `curr` keeps whatever reverts were made.
func (t *Throttle) ReduceFrame(prev, curr []byte, budget int) (PairResult, error) {
	if budget < 0 {
		return PairResult{}, gsla.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("byte budget can't be negative, got %d", budget))
	}

	mask, delta, err := DiffMask(prev, curr)
	if err != nil {
		return PairResult{}, err
	}

	result := PairResult{
		Before:   delta,
		Reverted: bitmap.New(gsla.PixelRegionSize),
	}

	// Every covered position gets visited once in this many steps, so going
	// that long without a revert means nothing left can be reverted.
	sweep := t.TotalCells() * t.bytesPerCell
	idle := 0

	for delta > budget {
		if idle >= sweep {
			result.After = delta
			return result, gsla.ErrBudgetUnreachable.WithMessage(
				fmt.Sprintf(
					"%d bytes still differ after a full sweep, budget is %d",
					delta,
					budget,
				),
			)
		}

		cell := t.nextCell
		sub := t.cellCursors[cell]

		offset, onCanvas := t.position(cell, sub)
		if onCanvas && mask.Get(offset) {
			curr[offset] = prev[offset]
			mask.Set(offset, false)
			result.Reverted.Set(offset, true)
			t.cellReverts[cell]++
			delta--
			idle = 0
		} else {
			idle++
		}

		t.cellCursors[cell] = (sub + 1) % t.bytesPerCell
		t.nextCell = (cell + 1) % t.TotalCells()
	}

	result.After = delta
	return result, nil
}

// CellReverts returns a copy of the cumulative revert count for each cell.
func (t *Throttle) CellReverts() []int {
	counts := make([]int, len(t.cellReverts))
	copy(counts, t.cellReverts)
	return counts
}
