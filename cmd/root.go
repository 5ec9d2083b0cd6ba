package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/warehouse-sim/warehouse-sim/sim"
	"github.com/warehouse-sim/warehouse-sim/sim/results"
)

var (
	// CLI flags for the warehouse layout
	rows             int // Grid rows
	cols             int // Grid columns
	aisleWidth       int // Aisle width between shelf blocks
	centreAisleWidth int // Centre aisle width (odd)
	depotRow         int // Depot row
	depotCol         int // Depot column (default: centre)
	shelfStartRow    int // First shelf row
	shelfEndRow      int // Last shelf row

	// CLI flags for the run
	seed           int64   // Seed for order draws and fatigue pauses
	maxTicks       int64   // Tick budget
	ordersPerAgent int     // Orders each agent must deliver
	tickDuration   float64 // Seconds per tick for replay/rendering
	configPath     string  // YAML run configuration
	logLevel       string  // Log verbosity level
	traceLevel     string  // none, ticks, decisions
	traceOut       string  // Trace JSON output path
	resultsDB      string  // SQLite results store path
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "warehouse-sim",
	Short: "Two-agent warehouse picking simulator with fatigue, recovery and learning",
}

// runCmd executes the simulation using parameters from the config file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the warehouse simulation headless",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		startTime := time.Now()

		s, err := sim.NewSimulator(cfg)
		if err != nil {
			logrus.Fatalf("Cannot start simulation: %v", err)
		}
		res, err := s.Run()
		if err != nil {
			logrus.Fatalf("Simulation aborted: %v", err)
		}
		res.Summary.Print(cfg.Run.TickDuration)

		if traceOut != "" && res.Trace != nil {
			if err := writeTrace(traceOut, res.Trace); err != nil {
				logrus.Fatalf("Writing trace: %v", err)
			}
			logrus.Infof("Trace written to %s", traceOut)
		}

		if resultsDB != "" {
			store, err := results.Open(resultsDB)
			if err != nil {
				logrus.Fatalf("Opening results store: %v", err)
			}
			defer store.Close()
			id, err := store.SaveRun(cfg, res.Summary)
			if err != nil {
				logrus.Fatalf("Saving run: %v", err)
			}
			logrus.Infof("Run stored as %s", id)
		}

		logrus.Infof("Simulation finished in %s.", time.Since(startTime).Round(time.Millisecond))
	},
}

// setLogLevel applies --log to the package-level logger.
func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addRunFlags registers the simulation flags on cmd. Defaults come from the
// built-in configuration so --help shows the effective values.
func addRunFlags(cmd *cobra.Command) {
	defaults := sim.DefaultSimConfig()

	// Layout
	cmd.Flags().IntVar(&rows, "rows", defaults.Layout.Rows, "Grid rows")
	cmd.Flags().IntVar(&cols, "cols", defaults.Layout.Cols, "Grid columns (odd recommended)")
	cmd.Flags().IntVar(&aisleWidth, "aisle-width", defaults.Layout.AisleWidth, "Aisle width between shelf blocks")
	cmd.Flags().IntVar(&centreAisleWidth, "centre-aisle-width", defaults.Layout.CentreAisleWidth, "Centre aisle width (must be odd)")
	cmd.Flags().IntVar(&depotRow, "depot-row", 0, "Depot row")
	cmd.Flags().IntVar(&depotCol, "depot-col", 0, "Depot column (default: centre column)")
	cmd.Flags().IntVar(&shelfStartRow, "shelf-start-row", 1, "First row of the shelf zone")
	cmd.Flags().IntVar(&shelfEndRow, "shelf-end-row", 0, "Last row of the shelf zone (default: rows-2)")

	// Run
	cmd.Flags().Int64Var(&seed, "seed", defaults.Run.Seed, "Seed for order draws and fatigue pauses")
	cmd.Flags().Int64Var(&maxTicks, "max-ticks", defaults.Run.MaxTicks, "Tick budget before the run is reported incomplete")
	cmd.Flags().IntVar(&ordersPerAgent, "orders-per-agent", defaults.Run.OrdersPerAgent, "Orders each agent must deliver")
	cmd.Flags().Float64Var(&tickDuration, "tick-duration", defaults.Run.TickDuration, "Seconds per tick when replaying or rendering")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML run configuration (flags override it)")
	cmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Trace verbosity (none, ticks, decisions)")
	cmd.Flags().StringVar(&traceOut, "trace-out", "", "Write the trace as JSON to this path")
	cmd.Flags().StringVar(&resultsDB, "results-db", "", "Store the run in this SQLite database")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	addRunFlags(runCmd)

	// Attach `run` and `history` as subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
}
