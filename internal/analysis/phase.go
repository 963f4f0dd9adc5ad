package analysis

import (
	"strings"

	"github.com/san-kum/trajprox/internal/traj"
)

type Point struct {
	X, Y float64
}

// PhasePortrait holds (q, v) samples of one joint.
type PhasePortrait struct {
	Joint  int
	Points []Point
}

// JointPhase collects the phase portrait of joint across all nodes. It
// returns nil when joint has no velocity entry.
func JointPhase(t *traj.Trajectory, joint int) *PhasePortrait {
	if t == nil || joint < 0 || joint >= t.Dims.Config || joint >= t.Dims.Velocity() {
		return nil
	}

	p := &PhasePortrait{Joint: joint, Points: make([]Point, 0, t.Len())}
	for _, n := range t.Nodes {
		p.Points = append(p.Points, Point{X: n.Q[joint], Y: n.V[joint]})
	}
	return p
}

// ToASCII draws the portrait on a width x height character grid with axes
// where zero is visible.
func (p *PhasePortrait) ToASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}
	minX, maxX = pad(minX, maxX)
	minY, maxY = pad(minY, maxY)

	col := func(x float64) int { return int((x - minX) / (maxX - minX) * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/(maxY-minY)*float64(height-1)) }

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := range canvas {
			canvas[r][c] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := range canvas[r] {
			if canvas[r][c] == ' ' {
				canvas[r][c] = '─'
			}
		}
	}
	for _, pt := range p.Points {
		canvas[row(pt.Y)][col(pt.X)] = '•'
	}

	var sb strings.Builder
	for _, r := range canvas {
		sb.WriteString(string(r))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// pad widens [lo, hi] by 10% on each side, or by 1 when it is empty.
func pad(lo, hi float64) (float64, float64) {
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return lo - 0.1*span, hi + 0.1*span
}
