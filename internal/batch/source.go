// Package batch converts many inputs concurrently, from disk or GRF archives.
package batch

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	// decoders registered with image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/EngoDev/voxelify/internal/config"
	"github.com/EngoDev/voxelify/pkg/formats"
	"github.com/EngoDev/voxelify/pkg/grf"
	"github.com/EngoDev/voxelify/pkg/pixel"
)

// ErrNoInputs is returned when no path or pattern matched anything.
var ErrNoInputs = errors.New("no inputs matched")

// Loader reads inputs by name.
type Loader interface {
	Read(name string) ([]byte, error)
}

type dirLoader struct{}

func (dirLoader) Read(name string) ([]byte, error) {
	return os.ReadFile(name)
}

type memLoader map[string][]byte

func (m memLoader) Read(name string) ([]byte, error) {
	data, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}
	return data, nil
}

// Job is one input to convert.
type Job struct {
	Name   string // display name, also the mesh name
	Input  string // file path or archive entry
	Output string // destination .glb path
	from   Loader
}

// Decode reads name from l and turns it into a pixel source, choosing the
// decoder by extension. Sprites use the configured frame, or the configured
// ACT pose read from the sibling .act file.
func Decode(l Loader, name string, in config.InputConfig) (pixel.Source, error) {
	data, err := l.Read(name)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	var src pixel.Source
	switch ext := path.Ext(filepath.ToSlash(name)); strings.ToLower(ext) {
	case ".spr":
		spr, err := formats.ParseSPR(data)
		if err != nil {
			return nil, err
		}
		if in.Action == "" {
			if src, err = pixel.FromSPR(spr, in.Frame); err != nil {
				return nil, err
			}
			break
		}
		if src, err = decodePose(l, strings.TrimSuffix(name, ext), spr, in); err != nil {
			return nil, err
		}
	case ".tga":
		img, err := formats.DecodeTGA(data)
		if err != nil {
			return nil, err
		}
		src = pixel.FromImage(img)
	default:
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding image: %w", err)
		}
		src = pixel.FromImage(img)
	}
	return Prepare(src, in), nil
}

// decodePose composes the configured ACT pose of a sprite.
func decodePose(l Loader, base string, spr *formats.SPR, in config.InputConfig) (pixel.Source, error) {
	data, err := l.Read(base + ".act")
	if errors.Is(err, fs.ErrNotExist) {
		data, err = l.Read(base + ".ACT")
	}
	if err != nil {
		return nil, fmt.Errorf("reading animation: %w", err)
	}
	act, err := formats.ParseACT(data)
	if err != nil {
		return nil, err
	}
	action, err := formats.ParseAction(in.Action, len(act.Actions))
	if err != nil {
		return nil, err
	}
	frame, err := act.Frame(action, in.ActFrame)
	if err != nil {
		return nil, err
	}
	return pixel.ComposeFrame(spr, frame)
}

// Prepare applies the configured color key and flips to src.
func Prepare(src pixel.Source, in config.InputConfig) pixel.Source {
	if in.ColorKey {
		src = pixel.ColorKey(src, pixel.IsMagentaKey)
	}
	if in.FlipHorizontal {
		src = pixel.FlipHorizontal(src)
	}
	if in.FlipVertical {
		src = pixel.FlipVertical(src)
	}
	return src
}

// FileJobs expands paths and glob patterns on disk into jobs.
func FileJobs(args []string, outDir string) ([]Job, error) {
	var jobs []Job
	seen := make(map[string]bool)
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", arg, err)
		}
		if matches == nil {
			if _, err := os.Stat(arg); err != nil {
				return nil, err
			}
			matches = []string{arg}
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			jobs = append(jobs, Job{
				Name:   stem(m),
				Input:  m,
				Output: outputPath(m, outDir),
				from:   dirLoader{},
			})
		}
	}
	if len(jobs) == 0 {
		return nil, ErrNoInputs
	}
	return jobs, nil
}

// Archive is a Loader that can also list its entries. *grf.Archive and
// *assets.Manager are Archives.
type Archive interface {
	Loader
	Glob(pattern string) ([]string, error)
}

// ArchiveJobs resolves paths and patterns against an archive. Outputs
// default to the working directory since archive entries have no directory
// on disk.
func ArchiveJobs(a Archive, args []string, outDir string) ([]Job, error) {
	if outDir == "" {
		outDir = "."
	}
	var jobs []Job
	seen := make(map[string]bool)
	for _, arg := range args {
		matches, err := a.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %s", grf.ErrNotFound, arg)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			jobs = append(jobs, Job{
				Name:   stem(m),
				Input:  m,
				Output: outputPath(path.Base(m), outDir),
				from:   a,
			})
		}
	}
	if len(jobs) == 0 {
		return nil, ErrNoInputs
	}
	return jobs, nil
}

// NewJob wraps in-memory data as a job.
func NewJob(name string, data []byte, output string) Job {
	return Job{
		Name:   stem(name),
		Input:  name,
		Output: output,
		from:   memLoader{name: data},
	}
}

func stem(name string) string {
	base := path.Base(filepath.ToSlash(name))
	return strings.TrimSuffix(base, path.Ext(base))
}

func outputPath(input, outDir string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input)) + ".glb"
	if outDir == "" {
		return base
	}
	return filepath.Join(outDir, filepath.Base(base))
}
