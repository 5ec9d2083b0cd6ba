package sim

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/warehouse-sim/warehouse-sim/sim/trace"
)

// DefaultOrdersPerAgent is the order quota each agent must complete.
const DefaultOrdersPerAgent = 20

// maxAgents bounds the agent collection; the engine is written for any
// ordered set but experiments use two.
const maxAgents = 2

// LayoutConfig groups the warehouse geometry parameters.
// Nil pointer fields mean "not set" and fall back to the derived default.
type LayoutConfig struct {
	Rows             int      `yaml:"rows"`
	Cols             int      `yaml:"cols"`
	AisleWidth       int      `yaml:"aisle_width"`
	CentreAisleWidth int      `yaml:"centre_aisle_width"` // must be odd
	DepotRow         *int     `yaml:"depot_row"`          // default 0
	DepotCol         *int     `yaml:"depot_col"`          // default cols/2
	ShelfStartRow    *int     `yaml:"shelf_start_row"`    // default 1, clamped to >= 1
	ShelfEndRow      *int     `yaml:"shelf_end_row"`      // default rows-2, clamped to <= rows-2
	Map              []string `yaml:"map"`                // optional ASCII layout, overrides geometry
}

// HumanFactors groups the fatigue, recovery and learning-curve parameters.
type HumanFactors struct {
	FatigueBuildupRate float64 `yaml:"fatigue_buildup_rate"` // d
	RecoveryRate       float64 `yaml:"recovery_rate"`        // r
	FatiguePenalty     float64 `yaml:"fatigue_penalty"`      // alpha
	LearningRate       float64 `yaml:"learning_rate"`        // LR, b = -log2(LR)
	AutomationFloor    float64 `yaml:"automation_floor"`     // M
	PauseScale         float64 `yaml:"pause_scale"`          // p(F) = PauseScale * alpha * F
	PickupBaseTicks    int     `yaml:"pickup_base_ticks"`    // Do
	WalkSeconds        float64 `yaml:"walk_seconds"`         // work accrued per travelling tick
	HandleSeconds      float64 `yaml:"handle_seconds"`       // work accrued per handling tick
	RestSeconds        float64 `yaml:"rest_seconds"`         // recovery accrued per depot rest tick
	RestTicks          int     `yaml:"rest_ticks"`           // depot ticks per return
}

// RunConfig groups per-run parameters.
type RunConfig struct {
	Seed            int64     `yaml:"seed"`
	MaxTicks        int64     `yaml:"max_ticks"`
	OrdersPerAgent  int       `yaml:"orders_per_agent"`
	TickDuration    float64   `yaml:"tick_duration"`    // seconds, consumed by renderers only
	ExperienceHours []float64 `yaml:"experience_hours"` // prior experience B, one entry per agent
	TraceLevel      string    `yaml:"trace_level"`
}

// SimConfig is the complete input of one simulation run.
type SimConfig struct {
	Layout  LayoutConfig `yaml:"layout"`
	Factors HumanFactors `yaml:"human_factors"`
	Run     RunConfig    `yaml:"run"`
}

// DefaultLayoutConfig is a 25x35 warehouse with the depot at top-centre.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{Rows: 25, Cols: 35, AisleWidth: 2, CentreAisleWidth: 3}
}

// DefaultHumanFactors returns the calibrated fatigue and learning parameters.
func DefaultHumanFactors() HumanFactors {
	return HumanFactors{
		FatigueBuildupRate: 0.20,
		RecoveryRate:       0.25,
		FatiguePenalty:     0.40,
		LearningRate:       0.90,
		AutomationFloor:    0,
		PauseScale:         0.5,
		PickupBaseTicks:    5,
		WalkSeconds:        1,
		HandleSeconds:      10,
		RestSeconds:        30,
		RestTicks:          1,
	}
}

// DefaultRunConfig seeds 42 with an experienced (1000h) and a novice (20h) agent.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Seed:            42,
		MaxTicks:        100000,
		OrdersPerAgent:  DefaultOrdersPerAgent,
		TickDuration:    0.2,
		ExperienceHours: []float64{1000, 20},
		TraceLevel:      "none",
	}
}

// DefaultSimConfig combines the three default groups.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Layout:  DefaultLayoutConfig(),
		Factors: DefaultHumanFactors(),
		Run:     DefaultRunConfig(),
	}
}

// LoadConfig reads a YAML run configuration over the defaults.
// Unknown keys are rejected.
func LoadConfig(path string) (SimConfig, error) {
	cfg := DefaultSimConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading run config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing run config: %w", err)
	}
	return cfg, nil
}

// Validate checks every group and returns the first *ConfigurationError.
func (c SimConfig) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if err := c.Factors.Validate(); err != nil {
		return err
	}
	return c.Run.Validate()
}

func (l LayoutConfig) Validate() error {
	if len(l.Map) > 0 {
		return nil
	}
	if l.Rows < 3 || l.Cols < 3 {
		return configErrorf("rows/cols", "grid must be at least 3x3, got %dx%d", l.Rows, l.Cols)
	}
	if l.AisleWidth < 1 {
		return configErrorf("aisle_width", "must be >= 1, got %d", l.AisleWidth)
	}
	if l.CentreAisleWidth < 1 || l.CentreAisleWidth%2 == 0 {
		return configErrorf("centre_aisle_width", "must be a positive odd number, got %d", l.CentreAisleWidth)
	}
	return nil
}

func (l LayoutConfig) depotCell() Cell {
	d := Cell{Row: 0, Col: l.Cols / 2}
	if l.DepotRow != nil {
		d.Row = *l.DepotRow
	}
	if l.DepotCol != nil {
		d.Col = *l.DepotCol
	}
	return d
}

// shelfRows returns the clamped shelf zone.
func (l LayoutConfig) shelfRows() (start, end int) {
	start, end = 1, l.Rows-2
	if l.ShelfStartRow != nil {
		start = max(1, *l.ShelfStartRow)
	}
	if l.ShelfEndRow != nil {
		end = min(l.Rows-2, *l.ShelfEndRow)
	}
	return start, end
}

func (h HumanFactors) Validate() error {
	switch {
	case h.FatigueBuildupRate <= 0:
		return configErrorf("fatigue_buildup_rate", "must be > 0, got %g", h.FatigueBuildupRate)
	case h.RecoveryRate < 0:
		return configErrorf("recovery_rate", "must be >= 0, got %g", h.RecoveryRate)
	case h.FatiguePenalty < 0:
		return configErrorf("fatigue_penalty", "must be >= 0, got %g", h.FatiguePenalty)
	case h.LearningRate <= 0 || h.LearningRate > 1:
		return configErrorf("learning_rate", "must be in (0, 1], got %g", h.LearningRate)
	case h.AutomationFloor < 0 || h.AutomationFloor >= 1:
		return configErrorf("automation_floor", "must be in [0, 1), got %g", h.AutomationFloor)
	case h.PauseScale < 0 || h.PauseScale*h.FatiguePenalty >= 1:
		return configErrorf("pause_scale", "pause_scale*fatigue_penalty must be in [0, 1), got %g", h.PauseScale*h.FatiguePenalty)
	case h.PickupBaseTicks < 1:
		return configErrorf("pickup_base_ticks", "must be >= 1, got %d", h.PickupBaseTicks)
	case h.WalkSeconds < 0 || h.HandleSeconds < 0 || h.RestSeconds < 0:
		return configErrorf("seconds", "action costs must be non-negative")
	case h.RestTicks < 1:
		return configErrorf("rest_ticks", "must be >= 1, got %d", h.RestTicks)
	}
	return nil
}

func (r RunConfig) Validate() error {
	if r.MaxTicks < 1 {
		return configErrorf("max_ticks", "must be >= 1, got %d", r.MaxTicks)
	}
	if r.OrdersPerAgent < 1 {
		return configErrorf("orders_per_agent", "must be >= 1, got %d", r.OrdersPerAgent)
	}
	if r.TickDuration < 0 || math.IsNaN(r.TickDuration) {
		return configErrorf("tick_duration", "must be non-negative, got %g", r.TickDuration)
	}
	if n := len(r.ExperienceHours); n < 1 || n > maxAgents {
		return configErrorf("experience_hours", "need between 1 and %d agents, got %d", maxAgents, n)
	}
	for i, b := range r.ExperienceHours {
		if b < 0 {
			return configErrorf("experience_hours", "agent %d prior experience must be >= 0, got %g", i+1, b)
		}
	}
	if !trace.IsValidTraceLevel(r.TraceLevel) {
		return configErrorf("trace_level", "unknown trace level %q", r.TraceLevel)
	}
	return nil
}
