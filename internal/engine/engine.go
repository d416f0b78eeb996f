// Package engine reacts to board changes: after every placement or
// move it runs the pattern recognizers, resolves each hit to an
// executor, and applies them best-first. Executors mutate the board,
// route rewards through the gateway and publish events; the engine
// itself only orchestrates.
package engine

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mergelife/internal/event"
	"github.com/vovakirdan/mergelife/internal/grid"
	"github.com/vovakirdan/mergelife/internal/pattern"
)

// Config carries the tuning for one engine instance.
type Config struct {
	// MaxPatterns caps how many patterns a single recognizer pass may
	// emit. Zero keeps the recognizer default.
	MaxPatterns int
}

// Engine runs the recognize, resolve, execute cycle for one board.
//
// The engine serializes its own passes: concurrent triggers queue on
// an internal lock, so executors always see the board state their
// validation checked.
type Engine struct {
	mu sync.Mutex

	store       *grid.Store
	recognizers []pattern.Recognizer
	resolver    *Resolver
	logger      *log.Logger
}

// New wires an engine over the store with the standard match and
// merge executors. sink may be nil when nothing consumes events.
func New(store *grid.Store, oracle Oracle, gateway Gateway, rewards RewardTable, cfg Config, sink event.Sink, logger *log.Logger) *Engine {
	logger = ensureLogger(logger)

	match := NewMatchExecutor(store, gateway, rewards, sink, logger)
	merge := NewMergeExecutor(store, gateway, rewards, sink, logger)

	recognizer := pattern.NewMatchRecognizer()
	if cfg.MaxPatterns > 0 {
		recognizer.MaxPatterns = cfg.MaxPatterns
	}

	return &Engine{
		store:       store,
		recognizers: []pattern.Recognizer{recognizer},
		resolver:    NewResolver(store, oracle, match, merge),
		logger:      logger,
	}
}

// Report aggregates everything one trigger caused.
type Report struct {
	Trigger  grid.Position
	Outcomes []Outcome
	// Stale counts patterns skipped because an earlier execution in
	// the same pass consumed their cells. Not an error.
	Stale  int
	Faults []error
}

// Score sums the score of every outcome in the report.
func (r Report) Score() int {
	total := 0
	for _, out := range r.Outcomes {
		total += out.Score
	}
	return total
}

// Merges counts the tier-up outcomes in the report.
func (r Report) Merges() int {
	n := 0
	for _, out := range r.Outcomes {
		if out.Kind == pattern.KindTierUp {
			n++
		}
	}
	return n
}

// Matches counts the plain match outcomes in the report.
func (r Report) Matches() int {
	return len(r.Outcomes) - r.Merges()
}

// HandleBlockPlaced runs a full pass for a block placed at pos.
func (e *Engine) HandleBlockPlaced(pos grid.Position) Report {
	return e.handleTrigger(pos)
}

// HandleBlockMoved runs a full pass for a block that moved to 'to'.
// Only the destination can complete a pattern; vacating a cell never
// creates one.
func (e *Engine) HandleBlockMoved(from, to grid.Position) Report {
	return e.handleTrigger(to)
}

func (e *Engine) handleTrigger(trigger grid.Position) Report {
	e.mu.Lock()
	defer e.mu.Unlock()

	report := e.pass(trigger)
	report.Trigger = trigger
	return report
}

// pass runs one recognize, resolve, execute cycle around trigger.
func (e *Engine) pass(trigger grid.Position) Report {
	var report Report

	var executions []Execution
	for _, rec := range e.recognizers {
		if !rec.Enabled() {
			continue
		}
		found, err := rec.Recognize(e.store, trigger)
		if err != nil {
			fault := fmt.Errorf("engine: %s pass at %s: %w: %w", rec.Kind(), trigger, ErrRecognizerFault, err)
			e.logger.Warn("recognizer failed", "kind", rec.Kind(), "trigger", trigger, "error", err)
			report.Faults = append(report.Faults, fault)
			continue
		}
		for _, p := range found {
			if exec, ok := e.resolver.Resolve(p, trigger); ok {
				executions = append(executions, exec)
			}
		}
	}

	// Highest priority first; pattern ID breaks ties so one board
	// state always executes in one order.
	sort.SliceStable(executions, func(i, j int) bool {
		if executions[i].Priority != executions[j].Priority {
			return executions[i].Priority > executions[j].Priority
		}
		return executions[i].Pattern.ID < executions[j].Pattern.ID
	})

	for _, exec := range executions {
		out, err := exec.Executor.Execute(exec.Pattern, trigger)
		if err != nil {
			if errors.Is(err, ErrStalePattern) {
				report.Stale++
				continue
			}
			e.logger.Warn("pattern execution failed", "pattern", exec.Pattern.ID, "error", err)
			report.Faults = append(report.Faults, err)
			continue
		}
		report.Outcomes = append(report.Outcomes, out)
	}
	return report
}

func ensureLogger(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.New(io.Discard)
	}
	return logger
}

func publish(sink event.Sink, e event.Event) {
	if sink != nil {
		sink.Publish(e)
	}
}
