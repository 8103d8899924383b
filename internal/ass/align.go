package ass

import (
	"fmt"
	"math"
	"strings"
)

// Placement is the resolved numpad anchor code and absolute pixel position
// shared by every dialogue event of a style run.
type Placement struct {
	Anchor int
	X      int
	Y      int
}

// Tag renders the override tag prefix for a dialogue event.
func (p Placement) Tag() string {
	return fmt.Sprintf("{\\an%d\\pos(%d,%d)}", p.Anchor, p.X, p.Y)
}

func horizontalCode(alignment string) int {
	switch alignment {
	case "left":
		return 1
	case "right":
		return 3
	default:
		return 2
	}
}

// ResolveAlignment computes the anchor code and pixel position from a
// position keyword ("top_left" ... "bottom_right"), an alignment keyword
// ("left", "center", "right"), optional explicit coordinates and the video
// resolution.
//
// Explicit x and y win: position is ignored, the vertical band is fixed to
// the middle row and only alignment selects the column. Otherwise the video
// is divided into a 3x3 grid; the position keyword selects the cell and
// alignment picks the left boundary, right boundary or midline of that
// cell. The vertical coordinate is always the cell's vertical center.
func ResolveAlignment(position, alignment string, x, y *int, videoW, videoH int) Placement {
	if x != nil && y != nil {
		horiz := horizontalCode(alignment)
		return Placement{Anchor: 4 + (horiz - 1), X: *x, Y: *y}
	}

	pos := strings.ToLower(position)

	var verticalBase int
	var verticalCenter float64
	switch {
	case strings.Contains(pos, "top"):
		verticalBase = 7
		verticalCenter = float64(videoH) / 6
	case strings.Contains(pos, "middle"):
		verticalBase = 4
		verticalCenter = float64(videoH) / 2
	default:
		verticalBase = 1
		verticalCenter = 5 * float64(videoH) / 6
	}

	var leftBoundary, rightBoundary, centerLine float64
	switch {
	case strings.Contains(pos, "left"):
		leftBoundary = 0
		rightBoundary = float64(videoW) / 3
		centerLine = float64(videoW) / 6
	case strings.Contains(pos, "right"):
		leftBoundary = 2 * float64(videoW) / 3
		rightBoundary = float64(videoW)
		centerLine = 5 * float64(videoW) / 6
	default:
		leftBoundary = float64(videoW) / 3
		rightBoundary = 2 * float64(videoW) / 3
		centerLine = float64(videoW) / 2
	}

	var finalX float64
	horiz := horizontalCode(alignment)
	switch horiz {
	case 1:
		finalX = leftBoundary
	case 3:
		finalX = rightBoundary
	default:
		finalX = centerLine
	}

	return Placement{
		Anchor: verticalBase + (horiz - 1),
		X:      int(math.Round(finalX)),
		Y:      int(math.Round(verticalCenter)),
	}
}
