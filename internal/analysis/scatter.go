package analysis

import (
	"strings"
)

var componentNames = [3]string{"vR", "vT", "vz"}

// Point is one velocity pair in a scatter.
type Point struct{ X, Y float64 }

// Scatter is a two-component projection of velocity samples.
type Scatter struct {
	XLabel, YLabel string
	Points         []Point
}

// VelocityScatter projects samples onto components xIdx and yIdx
// (0 = vR, 1 = vT, 2 = vz). It returns nil for invalid indices.
func VelocityScatter(samples [][3]float64, xIdx, yIdx int) *Scatter {
	if xIdx < 0 || xIdx > 2 || yIdx < 0 || yIdx > 2 {
		return nil
	}

	s := &Scatter{
		XLabel: componentNames[xIdx],
		YLabel: componentNames[yIdx],
		Points: make([]Point, len(samples)),
	}
	for i, v := range samples {
		s.Points[i] = Point{X: v[xIdx], Y: v[yIdx]}
	}
	return s
}

// ScatterToASCII draws the scatter on a width x height character canvas,
// with axes where zero is in range.
func ScatterToASCII(s *Scatter, width, height int) string {
	if s == nil || len(s.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := s.Points[0].X, s.Points[0].X
	minY, maxY := s.Points[0].Y, s.Points[0].Y
	for _, p := range s.Points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	// Pad by 10% so extreme samples stay off the border.
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
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range s.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(s.YLabel)
	sb.WriteRune('\n')
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	sb.WriteString(strings.Repeat(" ", max(0, width-len(s.XLabel))))
	sb.WriteString(s.XLabel)
	sb.WriteRune('\n')
	return sb.String()
}
