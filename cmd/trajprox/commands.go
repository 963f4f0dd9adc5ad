package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/san-kum/trajprox/internal/batch"
	"github.com/san-kum/trajprox/internal/config"
	"github.com/san-kum/trajprox/internal/export"
	"github.com/san-kum/trajprox/internal/kinematics/chain"
	"github.com/san-kum/trajprox/internal/metrics"
	"github.com/san-kum/trajprox/internal/pipeline"
	"github.com/san-kum/trajprox/internal/proximity"
	"github.com/san-kum/trajprox/internal/record"
	"github.com/san-kum/trajprox/internal/storage"
	"github.com/san-kum/trajprox/internal/traj"
	"github.com/san-kum/trajprox/internal/viz"
)

// loadConfig layers defaults, the preset, the config file and finally the
// flags that were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (have %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
	}
	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("robot") {
		cfg.Robot = robotRef
	}
	if flags.Changed("nq") {
		cfg.ConfigDim = configDim
	}
	if flags.Changed("nx") {
		cfg.StateDim = stateDim
	}
	if flags.Changed("nu") {
		cfg.ControlDim = controlDim
	}
	if flags.Changed("signed") {
		cfg.SignedDistance = signed
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("target") {
		cfg.Targets = cfg.Targets[:0]
		for _, s := range targets {
			tc, err := parseTarget(s)
			if err != nil {
				return nil, err
			}
			cfg.Targets = append(cfg.Targets, tc)
		}
	}
	return cfg, cfg.Validate()
}

// parseTarget reads name=frame@x,y,z.
func parseTarget(s string) (config.TargetConfig, error) {
	name, rest, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return config.TargetConfig{}, fmt.Errorf("target %q: want name=frame@x,y,z", s)
	}
	frame, coords, ok := strings.Cut(rest, "@")
	if !ok || frame == "" {
		return config.TargetConfig{}, fmt.Errorf("target %q: want name=frame@x,y,z", s)
	}
	parts := strings.Split(coords, ",")
	if len(parts) != 3 {
		return config.TargetConfig{}, fmt.Errorf("target %q: translation needs 3 values", s)
	}
	xyz := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return config.TargetConfig{}, fmt.Errorf("target %q: %w", s, err)
		}
		xyz[i] = v
	}
	return config.TargetConfig{Name: name, Frame: frame, Translation: xyz}, nil
}

func newPipeline(cmd *cobra.Command) (*pipeline.Pipeline, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	ev, err := pipeline.OpenEvaluator(cfg)
	if err != nil {
		return nil, err
	}
	p := pipeline.New(cfg)
	if err := p.Setup(ev); err != nil {
		return nil, err
	}
	return p, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func showInfo(cmd *cobra.Command, args []string) error {
	rec, err := record.Load(args[0])
	if err != nil {
		return err
	}
	res, err := rec.Results()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "record:\t%s\n", res.Name)
	fmt.Fprintf(w, "keys:\t%s\n", strings.Join(rec.Keys(), ", "))
	fmt.Fprintf(w, "weights:\t%v\n", res.Weights.Slice())
	fmt.Fprintf(w, "max_iter:\t%d\n", res.MaxIter)
	fmt.Fprintf(w, "max_qp_iters:\t%d\n", res.MaxQPIters)
	fmt.Fprintf(w, "nodes:\t%d\n", res.Nnodes)
	fmt.Fprintf(w, "dt:\t%gs\n", res.Dt)
	fmt.Fprintf(w, "horizon:\t%gs\n", float64(max(res.Nnodes-1, 0))*res.Dt)
	fmt.Fprintf(w, "collision pairs:\t%v\n", res.CollisionPairs)
	fmt.Fprintf(w, "X / U length:\t%d / %d\n", len(res.X), len(res.U))
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(viz.Title.Render("solve times"))
	timing := metrics.SolveTimes(res.TimeCalc)
	return printScalars(map[string]float64{"solve_count": float64(timing.Count)}, timing.Values())
}

func printScalars(maps ...map[string]float64) error {
	merged := make(map[string]float64)
	for _, m := range maps {
		for k, v := range m {
			merged[k] = v
		}
	}
	_, err := fmt.Println(viz.ScalarTable(merged))
	return err
}

func printReport(report *pipeline.Report) {
	fmt.Println(viz.HeaderStyle.Render(fmt.Sprintf("%s  (%s, %d nodes, dt=%gs)", report.Name, report.Robot, report.Trajectory.Len(), report.Dt)))
	fmt.Println(viz.SummaryTable(report.Stats(), report.Threshold))
	fmt.Println(viz.Separator(60))

	scalars := report.Scalars()
	for k, v := range scalars {
		if math.IsNaN(v) {
			delete(scalars, k)
		}
	}
	fmt.Println(viz.ScalarTable(scalars))
}

func saveReport(report *pipeline.Report) error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(report)
	if err != nil {
		return errors.Wrapf(err, "saving report %s", report.Name)
	}
	fmt.Printf("saved: %s\n", runID)
	return nil
}

func analyzeRecord(cmd *cobra.Command, args []string) error {
	p, err := newPipeline(cmd)
	if err != nil {
		return err
	}
	rec, err := record.Load(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	report, err := p.Run(ctx, rec)
	if err != nil {
		return err
	}

	printReport(report)
	if showPlot {
		plotOverlay(report.Pairs, "pairs")
		plotOverlay(report.Targets, "targets")
	}
	if svgDir != "" {
		if err := writeSVGs(report.Name, report.Series(), report.Trajectory); err != nil {
			return err
		}
	}
	if noSave {
		return nil
	}
	return saveReport(report)
}

// plotOverlay draws every non-empty series of s in one chart.
func plotOverlay(s *proximity.Series, caption string) {
	var lines [][]float64
	var labels []string
	for _, label := range s.Labels() {
		values, _ := s.Get(label)
		if len(values) == 0 {
			continue
		}
		lines = append(lines, values)
		labels = append(labels, label)
	}
	if len(lines) == 0 {
		return
	}
	fmt.Println(viz.PlotMany(lines, caption+": "+strings.Join(labels, ", ")))
	fmt.Println()
}

func writeSVGs(prefix string, series *proximity.Series, t *traj.Trajectory) error {
	paths, err := export.WriteSVGs(svgDir, prefix, series, t)
	if err != nil {
		return err
	}
	for _, path := range paths {
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

func batchRecords(cmd *cobra.Command, args []string) error {
	paths := args
	if manifest != "" {
		m, err := batch.LoadManifest(manifest)
		if err != nil {
			return err
		}
		listed, err := m.Paths()
		if err != nil {
			return err
		}
		paths = append(listed, args...)
		if m.RankBy != "" && !cmd.Flags().Changed("rank-by") {
			rankBy = m.RankBy
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("no records given")
	}

	p, err := newPipeline(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	reports, runErr := batch.NewRunner(p, jobs).Run(ctx, paths)
	batch.Rank(reports, rankBy)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "RANK\tRECORD\t%s\tMIN_DISTANCE\tVIOLATIONS\n", strings.ToUpper(rankBy))
	for i, r := range reports {
		s := r.Scalars()
		fmt.Fprintf(w, "%d\t%s\t%.6g\t%.4f\t%.0f\n", i+1, r.Name, s[rankBy], s["min_distance"], s["violations"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !noSave {
		for _, r := range reports {
			if err := saveReport(r); err != nil {
				return err
			}
		}
	}

	if runErr != nil {
		failed := multierr.Errors(runErr)
		for _, e := range failed {
			fmt.Fprintf(os.Stderr, "failed: %v\n", e)
		}
		return fmt.Errorf("%d of %d records failed", len(failed), len(paths))
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no stored reports")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRECORD\tROBOT\tTIME\tNODES\tDT\tPAIRS\tTARGETS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Name,
			run.Robot,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Nodes,
			run.Dt,
			len(run.PairLabels),
			len(run.TargetLabels),
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	report, err := storage.New(dataDir).Load(runID)
	if err != nil {
		return err
	}

	series := report.Series()
	if series.NodeCount() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", report.ID)
	fmt.Printf("record: %s\n", report.Name)
	fmt.Printf("nodes: %d\n\n", series.NodeCount())

	for _, label := range series.Labels() {
		values, _ := series.Get(label)
		fmt.Println(viz.Plot(values, label))
		fmt.Println()
	}

	if pngDir != "" {
		if err := os.MkdirAll(pngDir, 0755); err != nil {
			return err
		}
		path := filepath.Join(pngDir, runID+".png")
		if err := export.PNG(path, series, report.Dt, report.Name); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	if svgDir != "" {
		if err := writeSVGs(runID, series, nil); err != nil {
			return err
		}
	}
	if htmlOut != "" {
		f, err := os.Create(htmlOut)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.HTML(f, series, report.Dt, report.Name); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", htmlOut)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	report, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	return export.JSON(os.Stdout, report)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	report, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	return export.CSV(os.Stdout, report.Series(), report.Dt)
}

func inspectRecord(cmd *cobra.Command, args []string) error {
	p, err := newPipeline(cmd)
	if err != nil {
		return err
	}
	rec, err := record.Load(args[0])
	if err != nil {
		return err
	}

	report, err := p.Run(context.Background(), rec)
	if err != nil {
		return err
	}

	// keep log lines from tearing the alternate screen
	logrus.SetLevel(logrus.ErrorLevel)
	m := viz.NewInspector(report.Name, report.Trajectory, report.Dt, report.Series(), report.Threshold)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tROBOT\tNQ\tTARGETS\tOBSTACLES")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		names := make([]string, len(cfg.Targets))
		for i, t := range cfg.Targets {
			names[i] = t.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\n", name, cfg.Robot, cfg.ConfigDim, strings.Join(names, ","), len(cfg.Obstacles))
	}
	return w.Flush()
}

func listRobots(cmd *cobra.Command, args []string) error {
	for _, name := range chain.Builtins() {
		robot, err := chain.Builtin(name)
		if err != nil {
			return err
		}
		fmt.Printf("%s%s\t%d joints, %d frames, %d geometries\n", chain.BuiltinPrefix, name,
			robot.Model.ConfigDim(), robot.Model.NumFrames(), robot.Collision.NumGeometries())
	}
	return nil
}
