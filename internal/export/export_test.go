package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/trajprox/internal/analysis"
	"github.com/san-kum/trajprox/internal/pipeline"
	"github.com/san-kum/trajprox/internal/proximity"
	"github.com/san-kum/trajprox/internal/traj"
)

func testSeries() *proximity.Series {
	s := proximity.NewSeries()
	s.Set("hand-obstacle", []float64{0.3, 0.1, 0.25})
	s.Set("target", []float64{0.8, 0.4, 0.05})
	return s
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, testSeries(), 0.05))

	want := "node,time,hand-obstacle,target\n" +
		"0,0.000000,0.3,0.8\n" +
		"1,0.050000,0.1,0.4\n" +
		"2,0.100000,0.25,0.05\n"
	assert.Equal(t, want, buf.String())
}

func TestCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, proximity.NewSeries(), 0.05))
	assert.Equal(t, "node,time\n", buf.String())
}

func TestJSON(t *testing.T) {
	report := &pipeline.Report{Name: "scene1", Dt: 0.05, Pairs: testSeries(), Targets: proximity.NewSeries()}

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, report))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "scene1", decoded["name"])
	assert.Contains(t, buf.String(), `"hand-obstacle"`)
	assert.NotContains(t, decoded, "Trajectory")
}

func TestPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "distances.png")
	require.NoError(t, PNG(path, testSeries(), 0.05, "scene1"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, testSeries(), 0.05, "scene1 distances"))

	html := buf.String()
	assert.Contains(t, html, "scene1 distances")
	assert.Contains(t, html, "hand-obstacle")
	assert.Contains(t, html, "target")
}

func TestSeriesToSVG(t *testing.T) {
	svg := SeriesToSVG([]float64{0, 1, 0.5}, 100, 50, "#ff0000")
	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.Contains(t, svg, `stroke="#ff0000"`)
	assert.Equal(t, 2, strings.Count(svg, " L"))
	// x spans [-0.2, 2.2], y spans [-0.1, 1.1]
	assert.Contains(t, svg, `d="M8.3,45.8 L50.0,4.2 L91.7,25.0"`)

	assert.Empty(t, SeriesToSVG([]float64{1}, 100, 50, "#fff"))
}

func TestPhaseToSVG(t *testing.T) {
	p := &analysis.PhasePortrait{Points: []analysis.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}}
	assert.Contains(t, PhaseToSVG(p, 10, 10, "#00ff00"), "<path")
	assert.Empty(t, PhaseToSVG(nil, 10, 10, "#00ff00"))
}

func TestWriteSVGs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "svg")
	series := testSeries()
	series.Set("base/tool", []float64{0.2, 0.1})
	series.Set("single", []float64{0.2})
	tr, err := traj.Decode([]float64{0, 1, 0.1, 1, 0.2, 0.5}, 2, 1)
	require.NoError(t, err)

	paths, err := WriteSVGs(dir, "run1", series, tr)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "run1_hand-obstacle.svg"),
		filepath.Join(dir, "run1_target.svg"),
		filepath.Join(dir, "run1_base_tool.svg"),
		filepath.Join(dir, "run1_joint0_phase.svg"),
	}, paths)

	data, err := os.ReadFile(paths[3])
	require.NoError(t, err)
	assert.Contains(t, string(data), `stroke="#ff66cc"`)

	paths, err = WriteSVGs(dir, "run2", series, nil)
	require.NoError(t, err)
	assert.Len(t, paths, 3)
}

func TestPalette(t *testing.T) {
	colors := palette(3)
	require.Len(t, colors, 3)
	r, g, b, _ := colors[0].RGBA()
	assert.Greater(t, r, g)
	assert.Greater(t, r, b)
}
