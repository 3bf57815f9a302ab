package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/planetsim/internal/config"
	"github.com/san-kum/planetsim/internal/integrators"
	"github.com/san-kum/planetsim/internal/stream"
)

var (
	dataDir      string
	scenarioFile string
	preset       string
	logLevel     string

	integrator string
	days       float64
	sample     int
	live       bool
	liveFPS    int
	tuiFPS     int

	plotEnergy bool
	outFile    string
	svgWidth   int
	svgHeight  int
	force      bool

	addr string
	hz   int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "planetsim",
		Short:             "2d n-body planetary simulator",
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
		RunE:              runGUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".planetsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&scenarioFile, "scenario", "", "scenario file (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "built-in scenario: "+strings.Join(config.ListPresets(), ", "))
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the simulator window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the simulator in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
	tuiCmd.Flags().IntVar(&tuiFPS, "fps", 30, "frames per second")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&days, "duration", 365, "simulated days")
	runCmd.Flags().IntVar(&sample, "sample", 24, "record every n-th step")
	runCmd.Flags().StringVar(&integrator, "integrator", integrators.Default, "integrator: "+strings.Join(integrators.Names(), ", "))
	runCmd.Flags().BoolVar(&live, "live", false, "draw the run in the terminal")
	runCmd.Flags().IntVar(&liveFPS, "fps", 20, "live view frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot distances from the barycenter",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().BoolVar(&plotEnergy, "energy", false, "plot relative energy drift instead")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw a run's orbits as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init [file]",
		Short: "write a scenario file to start from",
		Args:  cobra.ExactArgs(1),
		RunE:  initScenario,
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare integrators on the same scenario",
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().Float64Var(&days, "duration", 365, "simulated days")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream the simulation over websocket",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", stream.DefaultAddr, "listen address")
	serveCmd.Flags().IntVar(&hz, "hz", stream.DefaultHz, "frames per second")

	rootCmd.AddCommand(guiCmd, tuiCmd, runCmd, listCmd, plotCmd, exportJSONCmd,
		exportSVGCmd, presetsCmd, initCmd, compareCmd, serveCmd)
	return rootCmd
}

func setupLogging(cmd *cobra.Command, args []string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

// loadScenario resolves --scenario, then --preset, then the default
// solar system.
func loadScenario() (*config.Config, error) {
	switch {
	case scenarioFile != "":
		return config.Load(scenarioFile)
	case preset != "":
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		return cfg, nil
	default:
		return config.DefaultConfig(), nil
	}
}
