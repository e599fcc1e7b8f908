package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"imgsel/internal/domain"
	appErrors "imgsel/internal/errors"
	"imgsel/internal/logging"
)

// Processor applies batches of copy and move operations. A failing operation
// is recorded in the result and never stops the rest of the batch.
type Processor struct {
	FS      FileSystem
	Workers int // operations in flight; <= 1 means sequential
	Logger  logging.Logger

	// OnProgress may be called from several goroutines when Workers > 1.
	OnProgress ProgressFunc
}

type outcome struct {
	err     error
	warning string
}

func (p Processor) Process(ctx context.Context, ops []domain.FileOperation) domain.BatchResult {
	stop := p.Logger.Measure(fmt.Sprintf("Processing %d operations", len(ops)))
	defer stop()

	outcomes := make([]outcome, len(ops))
	total := len(ops)
	var done atomic.Int64
	report := func() {
		n := done.Add(1)
		if p.OnProgress != nil {
			p.OnProgress(int(n), total)
		}
	}

	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	var g errgroup.Group
	g.SetLimit(workers)

	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			outcomes[i] = outcome{err: err}
			report()
			continue
		}
		i, op := i, op
		g.Go(func() error {
			outcomes[i] = p.apply(ctx, op)
			report()
			return nil
		})
	}
	_ = g.Wait()

	result := domain.BatchResult{Errors: []string{}}
	for i, out := range outcomes {
		op := ops[i]
		if out.err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("%s %s to %s failed: %v", op.Kind, op.Source, op.Target, out.err))
			continue
		}
		result.SuccessCount++
		if out.warning != "" {
			result.Warnings = append(result.Warnings, out.warning)
		}
	}
	p.Logger.Verbosef("Batch finished: %d succeeded, %d failed", result.SuccessCount, result.FailedCount)
	return result
}

func (p Processor) apply(ctx context.Context, op domain.FileOperation) outcome {
	if err := ctx.Err(); err != nil {
		return outcome{err: err}
	}
	if p.FS == nil {
		return outcome{err: errors.New("processor requires FS")}
	}
	if err := p.FS.MkdirAll(filepath.Dir(op.Target), 0o755); err != nil {
		return outcome{err: fmt.Errorf("create target directory: %w", err)}
	}

	switch op.Kind {
	case domain.OpCopy:
		return outcome{err: p.FS.CopyFile(op.Source, op.Target)}
	case domain.OpMove:
		return p.move(op)
	default:
		return outcome{err: fmt.Errorf("unknown operation %q", op.Kind)}
	}
}

// move renames in place and falls back to copy+remove across volumes.
// A source that cannot be removed after a successful copy is only a warning.
func (p Processor) move(op domain.FileOperation) outcome {
	err := p.FS.Rename(op.Source, op.Target)
	if err == nil {
		return outcome{}
	}
	if !errors.Is(err, appErrors.ErrCrossDevice) {
		return outcome{err: err}
	}

	p.Logger.Verbosef("Cross-device move of %s, copying instead", op.Source)
	if err := p.FS.CopyFile(op.Source, op.Target); err != nil {
		return outcome{err: fmt.Errorf("cross-device copy: %w", err)}
	}
	if err := p.FS.Remove(op.Source); err != nil {
		warning := fmt.Sprintf("moved %s to %s but could not remove the source: %v", op.Source, op.Target, err)
		p.Logger.Warnf("%s", warning)
		return outcome{warning: warning}
	}
	return outcome{}
}
