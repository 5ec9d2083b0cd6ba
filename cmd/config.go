package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	sim "github.com/warehouse-sim/warehouse-sim/sim"
	"github.com/warehouse-sim/warehouse-sim/sim/trace"
)

// resolveConfig starts from the defaults, overlays --config when given, then
// applies every flag the user set explicitly.
func resolveConfig(cmd *cobra.Command) (sim.SimConfig, error) {
	cfg := sim.DefaultSimConfig()
	if configPath != "" {
		loaded, err := sim.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	applyFlagOverrides(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyFlagOverrides copies explicitly set flags into cfg. Unset flags never
// override values from the config file.
func applyFlagOverrides(cmd *cobra.Command, cfg *sim.SimConfig) {
	changed := cmd.Flags().Changed
	if changed("rows") {
		cfg.Layout.Rows = rows
	}
	if changed("cols") {
		cfg.Layout.Cols = cols
	}
	if changed("aisle-width") {
		cfg.Layout.AisleWidth = aisleWidth
	}
	if changed("centre-aisle-width") {
		cfg.Layout.CentreAisleWidth = centreAisleWidth
	}
	if changed("depot-row") {
		v := depotRow
		cfg.Layout.DepotRow = &v
	}
	if changed("depot-col") {
		v := depotCol
		cfg.Layout.DepotCol = &v
	}
	if changed("shelf-start-row") {
		v := shelfStartRow
		cfg.Layout.ShelfStartRow = &v
	}
	if changed("shelf-end-row") {
		v := shelfEndRow
		cfg.Layout.ShelfEndRow = &v
	}
	if changed("seed") {
		cfg.Run.Seed = seed
	}
	if changed("max-ticks") {
		cfg.Run.MaxTicks = maxTicks
	}
	if changed("orders-per-agent") {
		cfg.Run.OrdersPerAgent = ordersPerAgent
	}
	if changed("tick-duration") {
		cfg.Run.TickDuration = tickDuration
	}
	if changed("trace-level") {
		cfg.Run.TraceLevel = traceLevel
	}
	// --trace-out without a level still needs frames to write.
	if traceOut != "" && (cfg.Run.TraceLevel == "" || cfg.Run.TraceLevel == string(trace.TraceLevelNone)) {
		cfg.Run.TraceLevel = string(trace.TraceLevelDecisions)
	}
}

// writeTrace stores the trace as indented JSON.
func writeTrace(path string, st *trace.SimulationTrace) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding trace: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}
	return nil
}
