package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/san-kum/trajprox/internal/analysis"
	"github.com/san-kum/trajprox/internal/proximity"
	"github.com/san-kum/trajprox/internal/traj"
)

const (
	svgWidth    = 600
	svgHeight   = 240
	seriesColor = "#00ccff"
	phaseColor  = "#ff66cc"
)

// WriteSVGs writes <prefix>_<label>.svg for every series with at least two
// nodes and, when t is given, <prefix>_joint<i>_phase.svg for every joint.
// It returns the paths written, in that order.
func WriteSVGs(dir, prefix string, series *proximity.Series, t *traj.Trajectory) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	var written []string
	write := func(name, svg string) error {
		if svg == "" {
			return nil
		}
		path := filepath.Join(dir, fileSafe(prefix+"_"+name)+".svg")
		if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
		written = append(written, path)
		return nil
	}

	if series != nil {
		for _, label := range series.Labels() {
			values, _ := series.Get(label)
			if err := write(label, SeriesToSVG(values, svgWidth, svgHeight, seriesColor)); err != nil {
				return written, err
			}
		}
	}
	if t != nil {
		for j := 0; j < t.Dims.Config; j++ {
			svg := PhaseToSVG(analysis.JointPhase(t, j), svgHeight, svgHeight, phaseColor)
			if err := write(fmt.Sprintf("joint%d_phase", j), svg); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}

func fileSafe(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':':
			return '_'
		}
		return r
	}, name)
}

// SeriesToSVG draws values against their node index as a polyline.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	points := make([]analysis.Point, len(values))
	for i, v := range values {
		points[i] = analysis.Point{X: float64(i), Y: v}
	}
	return PointsToSVG(points, width, height, strokeColor)
}

// PhaseToSVG draws a joint's phase portrait.
func PhaseToSVG(p *analysis.PhasePortrait, width, height int, strokeColor string) string {
	if p == nil {
		return ""
	}
	return PointsToSVG(p.Points, width, height, strokeColor)
}

// PointsToSVG fits points into a width x height canvas with 10% padding.
// Fewer than two points give an empty string.
func PointsToSVG(points []analysis.Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
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
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
