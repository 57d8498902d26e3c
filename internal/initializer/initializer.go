// Package initializer implements the sequential block initialization
// pass. It orders the blocks topologically along the arcs, propagates
// solved or guessed outlet states into downstream inlets, and gives each
// block a chance to compute consistent guesses for its own outputs. A
// block that fails to initialize is retried from a perturbed inlet state;
// initialization failures are logged, not fatal, because the Newton
// backend may still converge from a partial guess.
package initializer

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/vk/flowsheetgo/internal/ctxlog"
	"github.com/vk/flowsheetgo/internal/dag"
	"github.com/vk/flowsheetgo/internal/flowsheet"
)

// maxAttempts bounds the per-block retry loop.
const maxAttempts = 3

// jitter is the relative perturbation applied to inlet guesses between
// retry attempts.
const jitter = 0.05

// Initialize walks the flowsheet's blocks in topological order. It
// returns an error only for structural problems (a recycle loop in the
// arcs); per-block initialization failures degrade to warnings.
func Initialize(ctx context.Context, fs *flowsheet.Flowsheet) error {
	logger := ctxlog.FromContext(ctx)

	g, order, err := blockOrder(fs)
	if err != nil {
		return err
	}
	logger.Debug("Initialization order resolved.", "blocks", g.Len(), "order", order)

	inbound := make(map[string][]*flowsheet.Arc)
	for _, arc := range fs.Arcs() {
		inbound[arc.Destination.Block] = append(inbound[arc.Destination.Block], arc)
	}

	for _, name := range order {
		if err := ctx.Err(); err != nil {
			return err
		}
		b, ok := fs.Block(name)
		if !ok {
			return fmt.Errorf("initializer: no block %q", name)
		}
		upstream, err := g.Dependencies(name)
		if err != nil {
			return fmt.Errorf("initializer: %w", err)
		}
		logger.Debug("Initializing block.", "block", name, "upstream", upstream)

		propagate(inbound[name], 0)

		var initErr error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			if initErr = b.Initialize(ctx); initErr == nil {
				break
			}
			logger.Debug("Block initialization failed, retrying from a perturbed state.",
				"block", name, "attempt", attempt, "error", initErr)
			propagate(inbound[name], jitter)
		}
		if initErr != nil {
			logger.Warn("Block failed to initialize; solver will start from a partial guess.",
				"block", name, "error", initErr)
		}
	}
	return nil
}

// blockOrder builds the block DAG from the arcs, checks it for recycle
// loops, and returns it with a deterministic topological order.
func blockOrder(fs *flowsheet.Flowsheet) (*dag.Graph, []string, error) {
	g := dag.New()
	for _, b := range fs.Blocks() {
		g.AddNode(b.Name())
	}
	for _, arc := range fs.Arcs() {
		// A self-loop is rejected here; longer recycles surface below.
		if err := g.AddEdge(arc.Source.Block, arc.Destination.Block); err != nil {
			return nil, nil, fmt.Errorf("initializer: arc %q: %w", arc.Name, err)
		}
	}
	if err := g.DetectCycles(); err != nil {
		return nil, nil, fmt.Errorf("initializer: flowsheet contains a recycle loop, tear streams are not supported: %w", err)
	}
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, nil, fmt.Errorf("initializer: %w", err)
	}
	return g, order, nil
}

// propagate copies upstream port states into the downstream inlets of the
// given arcs, optionally perturbing free values by a relative amount.
// Fixed inlet variables keep their specification.
func propagate(arcs []*flowsheet.Arc, perturb float64) {
	for _, arc := range arcs {
		src := arc.Source.StateVars()
		dst := arc.Destination.StateVars()
		for i, from := range src {
			value := from.Value()
			if perturb > 0 {
				value *= 1 + perturb*(2*rand.Float64()-1)
			}
			dst[i].SetGuess(value)
		}
	}
}
