package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vk/flowsheetgo/internal/ctxlog"
	"github.com/vk/flowsheetgo/internal/initializer"
	"github.com/vk/flowsheetgo/internal/report"
	"github.com/vk/flowsheetgo/internal/solver"
	"github.com/vk/flowsheetgo/internal/telemetry"
)

// Run executes the workflow: build, specification check, initialization,
// solve, report. The report is rendered even for a non-optimal solve so
// the user can see where the model ended up; the termination status is
// then returned as the error.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	runID := uuid.NewString()
	a.logger.Debug("App.Run method started.", "run_id", runID)

	if appConfig.HealthcheckPort > 0 {
		a.startHealthcheckServer(appConfig.HealthcheckPort)
	}

	fs, err := a.buildFlowsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to build flowsheet: %w", err)
	}
	a.logger.Debug("Flowsheet built.", "blocks", len(fs.Blocks()), "arcs", len(fs.Arcs()))

	if err := fs.CheckSpecification(); err != nil {
		return fmt.Errorf("flowsheet %q: %w", fs.Name(), err)
	}
	a.logger.Info("Specification check passed: zero degrees of freedom.",
		"variables", len(fs.Vars()), "free", len(fs.FreeVars()), "constraints", len(fs.Constraints()))

	if err := initializer.Initialize(ctx, fs); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	newton := solver.NewNewton()
	if appConfig.MaxIterations > 0 {
		newton.MaxIterations = appConfig.MaxIterations
	}
	if appConfig.Tolerance > 0 {
		newton.Tolerance = appConfig.Tolerance
	}

	sys, err := solver.NewSystem(fs)
	if err != nil {
		return err
	}

	a.logger.Info("🧮 Starting solve.", "run_id", runID, "unknowns", sys.Size())
	start := time.Now()
	result, err := newton.Solve(ctx, sys)
	elapsed := time.Since(start)
	telemetry.ObserveSolve(string(result.Status), result.Iterations, elapsed)
	if err != nil {
		return fmt.Errorf("solve aborted: %w", err)
	}
	a.logger.Info("🏁 Solve finished.",
		"run_id", runID,
		"status", result.Status,
		"iterations", result.Iterations,
		"residual_norm", result.ResidualNorm,
		"duration", elapsed)

	if table, buildErr := report.Build(fs); buildErr != nil {
		a.logger.Warn("Report skipped: final state is not reportable.", "error", buildErr)
	} else {
		var renderErr error
		if appConfig.Output == "yaml" {
			renderErr = report.RenderYAML(a.outW, table)
		} else {
			renderErr = report.RenderText(a.outW, table)
		}
		if renderErr != nil {
			return fmt.Errorf("failed to render report: %w", renderErr)
		}
	}

	if result.Status != solver.StatusOptimal {
		return fmt.Errorf("solver terminated with status %q: %s", result.Status, result.Message)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}
