package config

import (
	"flag"
	"strings"
)

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagWriteConfig = flag.String("write-config", "", "Write the effective config to this path and exit")
	flagList        = flag.Bool("list", false, "Print the inputs that would be converted and exit")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile     = flag.String("log-file", "", "Also write logs to this file")

	flagDepth   = flag.Uint("depth", 0, "Extrusion depth in voxels")
	flagScale   = flag.Float64("scale", 0, "Edge length of one voxel")
	flagYDown   = flag.Bool("y-down", false, "Keep image rows as +Y instead of flipping them up")
	flagWorkers = flag.Int("workers", -1, "Culling workers (0 = all CPUs)")

	flagFlipH    = flag.Bool("flip-h", false, "Mirror the image horizontally")
	flagFlipV    = flag.Bool("flip-v", false, "Mirror the image vertically")
	flagColorKey = flag.Bool("color-key", false, "Treat magenta pixels as transparent")
	flagFrame    = flag.Int("frame", -1, "Sprite frame to convert (.spr input)")
	flagAction   = flag.String("action", "", "Compose an ACT pose for .spr input, e.g. idle or walk:sw")
	flagActFrame = flag.Int("act-frame", -1, "Frame within the ACT action")
	flagGRF      = flag.String("grf", "", "Comma-separated GRF archives to read inputs from; later archives override earlier ones")

	flagOut         = flag.String("out", "", "Output directory")
	flagGenerator   = flag.String("generator", "", "glTF asset generator string")
	flagNoOverwrite = flag.Bool("no-overwrite", false, "Skip inputs whose output already exists")
	flagConcurrency = flag.Int("concurrency", -1, "Files converted in parallel (0 = all CPUs)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the positional arguments (input paths or patterns).
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigPath returns the --write-config destination, if any.
func WriteConfigPath() string {
	return *flagWriteConfig
}

// ListOnly reports whether --list was given.
func ListOnly() bool {
	return *flagList
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}

	if *flagDepth > 0 {
		cfg.Voxel.Depth = uint32(*flagDepth)
	}
	if *flagScale != 0 {
		cfg.Voxel.Scale = float32(*flagScale)
	}
	if *flagYDown {
		cfg.Voxel.YUp = false
	}
	if *flagWorkers >= 0 {
		cfg.Voxel.Workers = *flagWorkers
	}

	if *flagFlipH {
		cfg.Input.FlipHorizontal = true
	}
	if *flagFlipV {
		cfg.Input.FlipVertical = true
	}
	if *flagColorKey {
		cfg.Input.ColorKey = true
	}
	if *flagFrame >= 0 {
		cfg.Input.Frame = *flagFrame
	}
	if *flagAction != "" {
		cfg.Input.Action = *flagAction
	}
	if *flagActFrame >= 0 {
		cfg.Input.ActFrame = *flagActFrame
	}
	if *flagGRF != "" {
		cfg.Input.GRFPaths = splitList(*flagGRF)
	}

	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
	if *flagGenerator != "" {
		cfg.Output.Generator = *flagGenerator
	}
	if *flagNoOverwrite {
		cfg.Output.Overwrite = false
	}
	if *flagConcurrency >= 0 {
		cfg.Batch.Concurrency = *flagConcurrency
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
