package cmd

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/warehouse-sim/warehouse-sim/sim/results"
)

var (
	historyDB    string // SQLite results store path
	historyLimit int    // Number of runs to list
)

// historyCmd lists stored runs, newest first
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List runs stored with --results-db",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		store, err := results.Open(historyDB)
		if err != nil {
			logrus.Fatalf("Opening results store: %v", err)
		}
		defer store.Close()

		runs, err := store.RecentRuns(historyLimit)
		if err != nil {
			logrus.Fatalf("Reading runs: %v", err)
		}
		for _, r := range runs {
			printRun(r)
			agents, err := store.AgentStats(r.ID)
			if err != nil {
				logrus.Fatalf("Reading agents of run %s: %v", r.ID, err)
			}
			for _, a := range agents {
				fmt.Printf("    agent %d: %d orders, %s cells, %d blocked, fatigue %.3f\n",
					a.AgentID, a.Completed, humanize.Comma(int64(a.Distance)), a.Blocked, a.Fatigue)
			}
		}
	},
}

func printRun(r results.RunRow) {
	when := r.CreatedAt
	if t, err := time.Parse(time.RFC3339Nano, r.CreatedAt); err == nil {
		when = humanize.Time(t)
	}
	status := "complete"
	if !r.Completed {
		status = "incomplete"
	}
	fmt.Printf("%s  %s  seed=%d  %dx%d  %s  ticks=%s  distance=%s  conflicts=%d  throughput=%.2f\n",
		r.ID, when, r.Seed, r.GridRows, r.GridCols, status,
		humanize.Comma(r.Ticks), humanize.Comma(int64(r.TotalDistance)), r.CellConflicts, r.Throughput)
}

func init() {
	historyCmd.Flags().StringVar(&historyDB, "results-db", "warehouse-runs.db", "SQLite results store")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of runs to list")
}
