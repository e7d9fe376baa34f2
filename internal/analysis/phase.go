package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/simfoundry/internal/dynamo"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D is the projection of a trajectory onto two components.
type PhasePortrait2D struct {
	XIndex, YIndex int
	Points         []Point
}

// NewPhasePortrait projects every sample of sol onto components xIdx, yIdx.
func NewPhasePortrait(sol *dynamo.Solution, xIdx, yIdx int) (*PhasePortrait2D, error) {
	if err := checkIndices(sol, xIdx, yIdx); err != nil {
		return nil, err
	}

	portrait := &PhasePortrait2D{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]Point, 0, sol.Len()),
	}
	for _, y := range sol.Y {
		portrait.Points = append(portrait.Points, Point{X: y[xIdx], Y: y[yIdx]})
	}
	return portrait, nil
}

func checkIndices(sol *dynamo.Solution, idx ...int) error {
	dim := sol.Dim()
	for _, i := range idx {
		if i < 0 || i >= dim {
			return fmt.Errorf("component %d of a %d-dimensional state: %w", i, dim, dynamo.ErrDimensionMismatch)
		}
	}
	return nil
}

// PhasePortraitToASCII renders the portrait on a width×height grid with
// 10% padding and axes where they cross the view.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 1 || height < 1 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y

	for _, p := range portrait.Points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// Draw axes if they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// PoincareSection holds the samples where a trajectory crosses a level
// upwards, linearly interpolated to the crossing.
type PoincareSection struct {
	Points []Point
}

// NewPoincareSection records (y[recordX], y[recordY]) whenever y[crossIdx]
// crosses threshold from below.
func NewPoincareSection(sol *dynamo.Solution, crossIdx int, threshold float64, recordX, recordY int) (*PoincareSection, error) {
	if err := checkIndices(sol, crossIdx, recordX, recordY); err != nil {
		return nil, err
	}

	section := &PoincareSection{}
	for i := 1; i < sol.Len(); i++ {
		prev, curr := sol.Y[i-1], sol.Y[i]
		if !(prev[crossIdx] < threshold && curr[crossIdx] >= threshold) {
			continue
		}
		frac := (threshold - prev[crossIdx]) / (curr[crossIdx] - prev[crossIdx])
		if math.IsNaN(frac) || math.IsInf(frac, 0) {
			frac = 0.5
		}
		section.Points = append(section.Points, Point{
			X: prev[recordX] + frac*(curr[recordX]-prev[recordX]),
			Y: prev[recordY] + frac*(curr[recordY]-prev[recordY]),
		})
	}
	return section, nil
}

func PoincareSectionToASCII(section *PoincareSection, width, height int) string {
	if section == nil || len(section.Points) == 0 {
		return "No crossings detected"
	}
	return PhasePortraitToASCII(&PhasePortrait2D{Points: section.Points}, width, height)
}
