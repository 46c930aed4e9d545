package pipeline

import (
	"fmt"
	"math/rand/v2"

	"mapforge/internal/gen/catalogs"
	"mapforge/internal/gen/grid"
	"mapforge/internal/gen/mathx"
	"mapforge/internal/gen/raster"
	"mapforge/internal/gen/record"
	"mapforge/internal/gen/tuning"
)

// Scheduler drives the ordered stage list. Each flattened sub-step index
// gets its own generator seeded by mathx.SubSeed(master, index), so a step's
// effect depends only on (master seed, index, parameters in force) and never
// on how the cursor reached it. Backward navigation is therefore a full
// replay, not an undo.
type Scheduler struct {
	stages []Stage
	seed   int64
	cursor int

	grid    *grid.Grid
	world   World
	tune    tuning.Tuning
	regions *catalogs.Catalog
	raster  *raster.Engine
	records record.Sink
	facts   Facts
}

type Config struct {
	Stages  []Stage
	Seed    int64
	Width   int
	Height  int
	Tune    tuning.Tuning
	Regions *catalogs.Catalog
	Raster  *raster.Engine
	Records record.Sink // optional
}

func New(cfg Config) *Scheduler {
	return &Scheduler{
		stages:  cfg.Stages,
		seed:    cfg.Seed,
		grid:    grid.New(cfg.Width, cfg.Height),
		world:   World{W: cfg.Width, H: cfg.Height},
		tune:    cfg.Tune,
		regions: cfg.Regions,
		raster:  cfg.Raster,
		records: cfg.Records,
	}
}

func (s *Scheduler) Grid() *grid.Grid           { return s.grid }
func (s *Scheduler) Seed() int64                { return s.seed }
func (s *Scheduler) Cursor() int                { return s.cursor }
func (s *Scheduler) Stages() []Stage            { return s.stages }
func (s *Scheduler) Regions() *catalogs.Catalog { return s.regions }

// Total is the flattened sub-step count across all stages.
func (s *Scheduler) Total() int {
	n := 0
	for _, st := range s.stages {
		n += len(st.Steps())
	}
	return n
}

// StepName describes the flattened index as "stage/step" for logs and UIs.
func (s *Scheduler) StepName(index int) string {
	st, local := s.stageAt(index)
	if st == nil {
		return ""
	}
	return fmt.Sprintf("%s/%s", st.ID(), st.Steps()[local].Name)
}

func (s *Scheduler) stageAt(flat int) (Stage, int) {
	for _, st := range s.stages {
		n := len(st.Steps())
		if flat < n {
			return st, flat
		}
		flat -= n
	}
	return nil, 0
}

// StepForward executes the sub-step at the cursor and advances on success.
// At the end of the pipeline it is a no-op.
func (s *Scheduler) StepForward() error {
	if s.cursor >= s.Total() {
		return nil
	}
	if err := s.runIndex(s.cursor); err != nil {
		return err
	}
	s.cursor++
	return nil
}

// StepBackward rewinds one sub-step by clearing the grid and replaying from
// index 0. Replaying with the same per-index seeds reproduces the previous
// grid exactly.
func (s *Scheduler) StepBackward() error {
	if s.cursor == 0 {
		return nil
	}
	target := s.cursor - 1
	s.resetRunState()
	for i := 0; i < target; i++ {
		if err := s.runIndex(i); err != nil {
			s.cursor = i
			return err
		}
	}
	s.cursor = target
	return nil
}

// RunToEnd steps forward until the pipeline completes or a step fails.
func (s *Scheduler) RunToEnd() error {
	for s.cursor < s.Total() {
		if err := s.StepForward(); err != nil {
			return err
		}
	}
	return nil
}

// Reset clears the grid, rewinds the cursor, and invokes every stage's
// reset hook. Parameters are left untouched.
func (s *Scheduler) Reset() {
	s.resetRunState()
	s.cursor = 0
}

func (s *Scheduler) resetRunState() {
	s.grid.Clear()
	s.facts.Reset()
	for _, st := range s.stages {
		st.Reset()
	}
}

func (s *Scheduler) runIndex(index int) error {
	st, local := s.stageAt(index)
	if st == nil {
		return fmt.Errorf("step index %d out of range", index)
	}
	sub := mathx.SubSeed(s.seed, index)
	ctx := &Context{
		Grid:    s.grid,
		Rng:     rand.New(rand.NewPCG(uint64(sub), 0)),
		World:   s.world,
		Tune:    s.tune,
		Regions: s.regions,
		Raster:  s.raster,
		Records: s.records,
		Facts:   &s.facts,
	}
	if err := st.Run(ctx, local); err != nil {
		return fmt.Errorf("%s: %w", st.ID(), err)
	}
	return nil
}
