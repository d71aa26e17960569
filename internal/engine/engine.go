// Package engine drives the rule catalog over a knowledge store until no
// rule can add anything (saturation) or the round ceiling is reached.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/Harshitk-cp/geosolve/internal/kb"
	"github.com/Harshitk-cp/geosolve/internal/rules"
	"go.uber.org/zap"
)

// DefaultMaxIterations bounds the number of rounds. Reaching it is a soft
// stop: everything derived so far stays in the store.
const DefaultMaxIterations = 15

// Fault is a rule failure caught during a round. The rule is skipped for
// that round and the run continues.
type Fault struct {
	Round int
	Rule  string
	Err   error
}

type Result struct {
	Rounds      int
	Saturated   bool
	HitCeiling  bool
	Interrupted bool
	Faults      []Fault
	// Productive counts, per rule name, the rounds in which the rule
	// taught the store something.
	Productive map[string]int
}

type Engine struct {
	store         *kb.Store
	rules         []rules.Rule
	maxIterations int
	logger        *zap.Logger
}

type Option func(*Engine)

// WithMaxIterations overrides the round ceiling. Non-positive values keep
// the default.
func WithMaxIterations(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxIterations = n
		}
	}
}

// WithRules replaces the default catalog.
func WithRules(rs ...rules.Rule) Option {
	return func(e *Engine) {
		e.rules = append([]rules.Rule(nil), rs...)
	}
}

func New(store *kb.Store, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		store:         store,
		rules:         rules.Catalog(),
		maxIterations: DefaultMaxIterations,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddRule appends a rule after the ones already registered.
func (e *Engine) AddRule(r rules.Rule) {
	e.rules = append(e.rules, r)
}

func (e *Engine) Rules() []rules.Rule {
	return append([]rules.Rule(nil), e.rules...)
}

func (e *Engine) MaxIterations() int {
	return e.maxIterations
}

// Solve runs rounds until a round in which no rule reports a change, or
// until the ceiling. Every rule runs once per round, in registration order,
// and sees everything earlier rules in the same round derived.
func (e *Engine) Solve(ctx context.Context) Result {
	start := time.Now()
	res := Result{Productive: make(map[string]int)}

	for res.Rounds < e.maxIterations {
		round := res.Rounds + 1
		productive := false
		for _, r := range e.rules {
			if err := ctx.Err(); err != nil {
				res.Interrupted = true
				e.logger.Warn("inference interrupted", zap.Int("round", round), zap.Error(err))
				return res
			}
			facts, sources := e.store.Len(), e.store.SourceCount()
			changed, err := e.apply(r)
			if err != nil {
				res.Faults = append(res.Faults, Fault{Round: round, Rule: r.Name(), Err: err})
				e.logger.Warn("rule failed",
					zap.String("rule", r.Name()),
					zap.Int("round", round),
					zap.Error(err),
				)
				// What a failing rule asserted before it stopped stays in the
				// store and still gives the next round something to work on.
				if e.store.Len() > facts || e.store.SourceCount() > sources {
					productive = true
				}
				continue
			}
			if changed {
				productive = true
				res.Productive[r.Name()]++
			}
		}
		res.Rounds = round
		if !productive {
			res.Saturated = true
			break
		}
	}
	res.HitCeiling = !res.Saturated

	e.logger.Info("inference finished",
		zap.Int("rounds", res.Rounds),
		zap.Bool("saturated", res.Saturated),
		zap.Int("facts", e.store.Len()),
		zap.Int("sources", e.store.SourceCount()),
		zap.Int("faults", len(res.Faults)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res
}

// apply runs one rule, turning a panic into an error.
func (e *Engine) apply(r rules.Rule) (changed bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			changed = false
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return r.Apply(e.store)
}
