// voxelify converts pixel-art images and sprites into voxel meshes stored as
// binary glTF (.glb) files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/EngoDev/voxelify/internal/assets"
	"github.com/EngoDev/voxelify/internal/batch"
	"github.com/EngoDev/voxelify/internal/config"
	"github.com/EngoDev/voxelify/internal/logger"
)

func main() {
	flag.Usage = printUsage
	config.ParseFlags()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `voxelify - pixel art to voxel GLB converter

Usage:
  voxelify [options] <image|pattern>...
  voxelify [options] -grf data.grf <entry|pattern>...

Inputs are PNG, GIF, JPEG, BMP, WebP, TIFF, TGA or SPR files. Each input
becomes <name>.glb next to it, or in -out.

Examples:
  voxelify -depth 2 sword.png
  voxelify -out models -color-key "sprites/*.bmp"
  voxelify -grf data.grf -frame 0 "data/sprite/몬스터/*.spr"
  voxelify -grf data.grf,patch.grf -action walk:sw -list "data/sprite/몬스터/poring.spr"

Options:`)
	flag.PrintDefaults()
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if path := config.WriteConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	}

	args := config.Args()
	if len(args) == 0 {
		printUsage()
		return errors.New("no inputs given")
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()
	logger.Sugar.Debugf("Config: %+v", cfg)

	jobs, closeArchives, err := resolveJobs(cfg, args)
	if err != nil {
		return err
	}
	defer closeArchives()

	if config.ListOnly() {
		for _, job := range jobs {
			fmt.Printf("%s -> %s\n", job.Input, job.Output)
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("converting", zap.Int("inputs", len(jobs)), zap.Int("concurrency", cfg.Batch.Concurrency))
	outcomes, err := batch.NewRunner(cfg, logger.Log).Run(ctx, jobs)
	report(outcomes)
	return err
}

// resolveJobs expands the arguments against the disk or the configured archives.
func resolveJobs(cfg *config.Config, args []string) ([]batch.Job, func(), error) {
	if len(cfg.Input.GRFPaths) == 0 {
		jobs, err := batch.FileJobs(args, cfg.Output.Dir)
		return jobs, func() {}, err
	}

	archives, err := assets.Open(cfg.Input.GRFPaths...)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("opened archives", zap.Strings("paths", cfg.Input.GRFPaths))

	jobs, err := batch.ArchiveJobs(archives, args, cfg.Output.Dir)
	if err != nil {
		archives.Close()
		return nil, nil, err
	}
	return jobs, func() { archives.Close() }, nil
}

func report(outcomes []batch.Outcome) {
	converted, skipped, failed := 0, 0, 0
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			failed++
			logger.Error("conversion failed", zap.String("input", o.Job.Input), zap.Error(o.Err))
		case o.Skipped:
			skipped++
		default:
			converted++
			logger.Info("wrote "+o.Job.Output,
				zap.Int("voxels", o.Stats.Voxels),
				zap.Int("faces", o.Stats.Faces),
				zap.Int("bytes", o.Stats.Bytes),
			)
		}
	}
	if len(outcomes) > 1 {
		logger.Info("done", zap.Int("converted", converted), zap.Int("skipped", skipped), zap.Int("failed", failed))
	}
}
