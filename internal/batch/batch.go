package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/EngoDev/voxelify/internal/config"
	"github.com/EngoDev/voxelify/pkg/convert"
)

// Outcome reports what happened to one job.
type Outcome struct {
	Job      Job
	Stats    convert.Stats
	Skipped  bool
	Duration time.Duration
	Err      error
}

// Runner converts jobs on a bounded worker pool.
type Runner struct {
	cfg *config.Config
	log *zap.Logger
}

// NewRunner creates a runner. A nil logger discards output.
func NewRunner(cfg *config.Config, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{cfg: cfg, log: log}
}

// Run converts every job and returns one outcome per job in input order.
// Failures do not stop other jobs; they are joined into the returned error.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	concurrency := r.cfg.Batch.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	// each file already culls in parallel; avoid oversubscribing
	workers := r.cfg.Voxel.Workers
	if len(jobs) > 1 && workers == 0 {
		workers = 1
	}

	pool := pond.NewPool(concurrency, pond.WithContext(ctx))
	defer pool.StopAndWait()

	outcomes := make([]Outcome, len(jobs))
	tasks := make([]pond.Task, len(jobs))
	for i := range jobs {
		tasks[i] = pool.Submit(func() {
			outcomes[i] = r.convert(ctx, jobs[i], workers)
		})
	}

	var errs []error
	for i, task := range tasks {
		if err := task.Wait(); err != nil {
			outcomes[i] = Outcome{Job: jobs[i], Err: err}
		}
		if err := outcomes[i].Err; err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", jobs[i].Input, err))
		}
	}
	return outcomes, errors.Join(errs...)
}

// convert runs a single job and writes its output.
func (r *Runner) convert(ctx context.Context, job Job, workers int) Outcome {
	start := time.Now()
	out := Outcome{Job: job}
	log := r.log.With(zap.String("input", job.Input))

	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}
	if !r.cfg.Output.Overwrite {
		if _, err := os.Stat(job.Output); err == nil {
			log.Info("skipping existing output", zap.String("output", job.Output))
			out.Skipped = true
			return out
		}
	}

	src, err := Decode(job.from, job.Input, r.cfg.Input)
	if err != nil {
		out.Err = err
		return out
	}

	opts := r.cfg.ConvertOptions(job.Name)
	opts.Voxel.Workers = workers
	res, err := convert.Run(src, opts)
	if err != nil {
		out.Err = err
		return out
	}
	out.Stats = res.Stats

	if dir := filepath.Dir(job.Output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			out.Err = err
			return out
		}
	}
	if err := os.WriteFile(job.Output, res.GLB, 0644); err != nil {
		out.Err = fmt.Errorf("writing output: %w", err)
		return out
	}

	out.Duration = time.Since(start)
	log.Debug("converted",
		zap.String("output", job.Output),
		zap.Int("voxels", res.Stats.Voxels),
		zap.Int("faces", res.Stats.Faces),
		zap.Int("bytes", res.Stats.Bytes),
		zap.Duration("took", out.Duration),
	)
	return out
}
