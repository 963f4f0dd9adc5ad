package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string

	robotRef   string
	configDim  int
	stateDim   int
	controlDim int
	targets    []string
	signed     bool
	workers    int
	noSave     bool
	showPlot   bool

	rankBy   string
	manifest string
	jobs     int
	pngDir   string
	htmlOut  string
	svgDir   string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "trajprox",
		Short:        "proximity analysis of recorded MPC trajectories",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(lvl)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".trajprox", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	infoCmd := &cobra.Command{
		Use:   "info [record]",
		Short: "show the solver results stored in a record",
		Args:  cobra.ExactArgs(1),
		RunE:  showInfo,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [record]",
		Short: "compute pair and target distances along a record",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRecord,
	}
	addAnalysisFlags(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the report")
	analyzeCmd.Flags().BoolVar(&showPlot, "plot", false, "plot pair and target distances")
	analyzeCmd.Flags().StringVar(&svgDir, "svg", "", "write distance and joint phase SVGs into this directory")

	batchCmd := &cobra.Command{
		Use:   "batch [records...]",
		Short: "analyze many records and rank them",
		RunE:  batchRecords,
	}
	addAnalysisFlags(batchCmd)
	batchCmd.Flags().StringVar(&rankBy, "rank-by", "min_distance", "scalar to rank reports by")
	batchCmd.Flags().StringVar(&manifest, "manifest", "", "yaml file listing the records to analyze")
	batchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the reports")
	batchCmd.Flags().IntVar(&jobs, "jobs", 1, "records analyzed at once")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored reports",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the distances of a stored report",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&pngDir, "png", "", "also write a PNG into this directory")
	plotCmd.Flags().StringVar(&htmlOut, "html", "", "also write an interactive HTML chart to this file")
	plotCmd.Flags().StringVar(&svgDir, "svg", "", "also write one SVG per series into this directory")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "print a stored report as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "print the distances of a stored report as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect [record]",
		Short: "step through a record node by node",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectRecord,
	}
	addAnalysisFlags(inspectCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	robotsCmd := &cobra.Command{
		Use:   "robots",
		Short: "list builtin robot descriptions",
		Args:  cobra.NoArgs,
		RunE:  listRobots,
	}

	rootCmd.AddCommand(infoCmd, analyzeCmd, batchCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, inspectCmd, presetsCmd, robotsCmd)
	return rootCmd
}

func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&robotRef, "robot", "", "robot description file or builtin:<name>")
	cmd.Flags().IntVar(&configDim, "nq", 0, "configuration dimension")
	cmd.Flags().IntVar(&stateDim, "nx", 0, "state dimension per node")
	cmd.Flags().IntVar(&controlDim, "nu", 0, "control dimension per node")
	cmd.Flags().StringArrayVar(&targets, "target", nil, "tracked target as name=frame@x,y,z (repeatable)")
	cmd.Flags().BoolVar(&signed, "signed", false, "report penetration as negative distance")
	cmd.Flags().IntVar(&workers, "workers", 0, "node workers within each record")
}
