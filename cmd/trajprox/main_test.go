package main

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/trajprox/internal/config"
	"github.com/san-kum/trajprox/internal/storage"
)

const (
	armRobot  = "../../internal/kinematics/chain/testdata/arm.yaml"
	armRecord = "../../internal/pipeline/testdata/arm_run.json"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(append(args, "--log-level", "warn"))
	return cmd.Execute()
}

func TestParseTarget(t *testing.T) {
	got, err := parseTarget("target1=panda2_rightfinger@0,-0.4,1.5")
	require.NoError(t, err)
	assert.Equal(t, config.TargetConfig{Name: "target1", Frame: "panda2_rightfinger", Translation: []float64{0, -0.4, 1.5}}, got)

	for _, bad := range []string{"", "frame@1,2,3", "t=@1,2,3", "t=frame", "t=frame@1,2", "t=frame@1,x,3"} {
		_, err := parseTarget(bad)
		assert.Error(t, err, bad)
	}
}

func TestAnalyzeSavesReport(t *testing.T) {
	dir := t.TempDir()
	err := run(t, "analyze", armRecord,
		"--data", dir,
		"--robot", armRobot,
		"--nq", "3",
		"--target", "reach=tool@1.5,0,0.5",
	)
	require.NoError(t, err)

	runs, err := storage.New(dir).List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "arm_run", runs[0].Name)
	assert.Equal(t, []string{"upper_arm-tool_tip", "tool_tip-probe"}, runs[0].PairLabels)
	assert.Equal(t, []string{"reach"}, runs[0].TargetLabels)

	require.NoError(t, run(t, "list", "--data", dir))
	require.NoError(t, run(t, "export-csv", runs[0].ID, "--data", dir))
	require.NoError(t, run(t, "export-json", runs[0].ID, "--data", dir))
	require.NoError(t, run(t, "plot", runs[0].ID, "--data", dir, "--html", dir+"/chart.html"))
	assert.FileExists(t, dir+"/chart.html")

	require.NoError(t, run(t, "plot", runs[0].ID, "--data", dir, "--svg", dir+"/svg"))
	assert.FileExists(t, dir+"/svg/"+runs[0].ID+"_reach.svg")
	assert.FileExists(t, dir+"/svg/"+runs[0].ID+"_tool_tip-probe.svg")
}

func TestAnalyzePlotsAndSVGs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, run(t, "analyze", armRecord,
		"--data", dir,
		"--robot", armRobot,
		"--nq", "3",
		"--target", "floor=lift@0,0,0.3",
		"--plot",
		"--svg", dir+"/svg",
		"--no-save",
	))

	assert.FileExists(t, dir+"/svg/arm_run_upper_arm-tool_tip.svg")
	assert.FileExists(t, dir+"/svg/arm_run_floor.svg")
	assert.FileExists(t, dir+"/svg/arm_run_joint2_phase.svg")
}

func TestAnalyzeNoSave(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, run(t, "analyze", armRecord, "--data", dir, "--robot", armRobot, "--nq", "3", "--no-save"))

	runs, err := storage.New(dir).List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestBatchReportsFailures(t *testing.T) {
	dir := t.TempDir()
	err := run(t, "batch", armRecord, "missing.json",
		"--data", dir, "--robot", armRobot, "--nq", "3", "--rank-by", "solve_time_mean")
	assert.EqualError(t, err, "1 of 2 records failed")

	runs, err := storage.New(dir).List()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestCommandErrors(t *testing.T) {
	assert.Error(t, run(t, "analyze", armRecord, "--preset", "nope", "--no-save"))
	assert.Error(t, run(t, "analyze", armRecord, "--robot", armRobot, "--nq", "0", "--no-save"))
	assert.Error(t, run(t, "analyze", armRecord, "--robot", armRobot, "--nq", "3", "--target", "bad", "--no-save"))
	assert.Error(t, run(t, "info", "missing.json"))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"presets", "--log-level", "loud"})
	assert.Error(t, cmd.Execute())
	assert.Error(t, run(t, "export-json", "no_such_run", "--data", t.TempDir()))
}

func TestInfoAndListings(t *testing.T) {
	assert.NoError(t, run(t, "info", armRecord))
	assert.NoError(t, run(t, "presets"))
	assert.NoError(t, run(t, "robots"))
}

func TestBatchManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, run(t, "batch", "--manifest", "../../internal/batch/testdata/nightly.yaml",
		"--data", dir, "--robot", armRobot, "--nq", "3", "--jobs", "2", "--workers", "2"))

	runs, err := storage.New(dir).List()
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	assert.EqualError(t, run(t, "batch", "--data", dir), "no records given")
}
