package assets

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/EngoDev/voxelify/pkg/grf"
	"github.com/EngoDev/voxelify/pkg/grf/grftest"
)

func newArchive(t *testing.T, files ...grftest.File) *grf.Archive {
	t.Helper()
	a, err := grf.NewArchive(bytes.NewReader(grftest.Build(files...)))
	if err != nil {
		t.Fatalf("NewArchive failed: %v", err)
	}
	return a
}

func TestManagerPriority(t *testing.T) {
	m := NewManager()
	m.Add(newArchive(t,
		grftest.File{Name: "data/sprite/a.spr", Data: []byte("base a")},
		grftest.File{Name: "data/sprite/b.spr", Data: []byte("base b")},
	))
	m.Add(newArchive(t,
		grftest.File{Name: "data/sprite/b.spr", Data: []byte("patch b")},
		grftest.File{Name: "data/sprite/c.act", Data: []byte("patch c")},
	))

	tests := []struct {
		name string
		want string
	}{
		{"data/sprite/a.spr", "base a"},
		{"data/sprite/b.spr", "patch b"},
		{`DATA\SPRITE\C.ACT`, "patch c"},
	}
	for _, tt := range tests {
		data, err := m.Read(tt.name)
		if err != nil {
			t.Errorf("Read(%q) failed: %v", tt.name, err)
			continue
		}
		if string(data) != tt.want {
			t.Errorf("Read(%q): expected %q, got %q", tt.name, tt.want, data)
		}
	}

	_, err := m.Read("data/sprite/d.spr")
	if !errors.Is(err, grf.ErrNotFound) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotFound wrapping fs.ErrNotExist, got %v", err)
	}
}

func TestManagerGlob(t *testing.T) {
	m := NewManager()
	m.Add(newArchive(t,
		grftest.File{Name: "data/sprite/b.spr", Data: []byte("1")},
		grftest.File{Name: "data/sprite/a.spr", Data: []byte("2")},
	))
	m.Add(newArchive(t,
		grftest.File{Name: "data/sprite/b.spr", Data: []byte("3")},
		grftest.File{Name: "data/sprite/b.act", Data: []byte("4")},
	))

	matches, err := m.Glob("data/sprite/*.spr")
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(matches) != 2 || matches[0] != "data/sprite/a.spr" || matches[1] != "data/sprite/b.spr" {
		t.Errorf("expected [a.spr b.spr], got %v", matches)
	}
	if _, err := m.Glob("data/[sprite"); err == nil {
		t.Error("expected error for malformed pattern")
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.grf")
	if err := os.WriteFile(path, grftest.Build(grftest.File{Name: "data/x.bmp", Data: []byte("BM")}), 0644); err != nil {
		t.Fatalf("failed to write archive: %v", err)
	}

	m, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 archive, got %d", m.Len())
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("expected no archives after Close, got %d", m.Len())
	}

	if _, err := Open(path, filepath.Join(dir, "missing.grf")); err == nil {
		t.Error("expected error for missing archive")
	}
}
