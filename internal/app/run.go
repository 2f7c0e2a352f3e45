package app

import (
	"context"
	"fmt"

	"github.com/vk/cellgridgo/internal/cells"
	"github.com/vk/cellgridgo/internal/ctxlog"
	"github.com/vk/cellgridgo/internal/fsutil"
	"github.com/vk/cellgridgo/internal/operation"
	"github.com/vk/cellgridgo/internal/value"
)

// Run compiles every cell found under the configured path and invokes each
// node once, in file order, threading one execution state through the whole
// run. A failed invocation is reported and does not stop the run; a failed
// compilation does, since the definitions themselves are broken.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	files, err := fsutil.FindFilesByExtension(appConfig.CellsPath, ".hcl")
	if err != nil {
		return fmt.Errorf("failed to find cell files: %w", err)
	}
	if len(files) == 0 {
		a.logger.Warn("No cell files found in path.", "path", appConfig.CellsPath)
		return nil
	}

	invCfg := a.invocationConfig()
	state := operation.NewExecutionState()
	for _, file := range files {
		defs, err := cells.LoadFile(ctx, file)
		if err != nil {
			return err
		}
		a.logger.Info("▶️ Compiling cells.", "file", file, "count", len(defs))

		for _, def := range defs {
			node, err := a.compiler.Compile(state.ID(), def)
			if err != nil {
				return fmt.Errorf("failed to compile cell: %w", err)
			}
			state, err = a.invoke(ctx, node, state, invCfg)
			if err != nil {
				return err
			}
		}
	}
	a.logger.Info("🏁 Run finished.")
	return nil
}

// invocationConfig carries the configured provider's model and sampling
// settings into every invocation of the run.
func (a *App) invocationConfig() *operation.InvocationConfig {
	provider, ok := a.engine.ProviderByName("openai")
	if !ok {
		return nil
	}
	return &operation.InvocationConfig{
		Model:       provider.Model,
		Temperature: provider.Temperature,
	}
}

// invoke runs one node and reports its envelope, returning the execution
// state the next node must receive.
func (a *App) invoke(ctx context.Context, node *operation.OperationNode, state *operation.ExecutionState, invCfg *operation.InvocationConfig) (*operation.ExecutionState, error) {
	out, err := node.Invoke(ctx, state, value.Null(), invCfg, nil)
	if err != nil {
		return state, fmt.Errorf("invocation machinery failed for node '%s': %w", node.Name, err)
	}

	for _, line := range out.Stdout {
		fmt.Fprintln(a.outW, line)
	}
	for _, line := range out.Stderr {
		a.logger.Warn("Cell stderr.", "node", node.Name, "line", line)
	}
	if out.HasError {
		a.logger.Error("Cell invocation failed.", "node", node.Name, "error", out.Err)
	} else {
		a.logger.Info("✅ Cell finished.", "node", node.Name)
	}

	if out.ExecutionState != nil {
		return out.ExecutionState, nil
	}
	return state, nil
}
