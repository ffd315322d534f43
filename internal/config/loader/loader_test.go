package loader

import (
	"errors"
	"io/fs"
	"reflect"
	"strings"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

const tomlConfig = `
[ui]
backend = "terminal"
frame_rate = 30
font_size = 14.5

[editor]
args = ["--clean"]
multigrid = false
`

const yamlConfig = `
ui:
  backend: terminal
  frame_rate: 30
  font_size: 14.5
editor:
  args: ["--clean"]
  multigrid: false
`

func TestFileLoaders(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/c/config.toml", tomlConfig)
	memfs.AddFile("/c/config.yaml", yamlConfig)

	want := map[string]any{
		"ui": map[string]any{
			"backend":    "terminal",
			"frame_rate": int64(30),
			"font_size":  14.5,
		},
		"editor": map[string]any{
			"args":      []any{"--clean"},
			"multigrid": false,
		},
	}

	for _, path := range []string{"/c/config.toml", "/c/config.yaml"} {
		t.Run(path, func(t *testing.T) {
			l, err := ForPath(memfs, path)
			if err != nil {
				t.Fatal(err)
			}
			got, err := l.Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Load() = %#v\nwant %#v", got, want)
			}
		})
	}
}

func TestMissingFile(t *testing.T) {
	memfs := NewMemFS()
	for _, l := range []Loader{
		NewTOMLLoaderWithFS(memfs, "/none.toml"),
		NewYAMLLoaderWithFS(memfs, "/none.yaml"),
	} {
		got, err := l.Load()
		if got != nil || err != nil {
			t.Errorf("Load() = (%v, %v), want (nil, nil)", got, err)
		}
	}
}

func TestParseErrors(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[ui\nbackend = 1")
	memfs.AddFile("/bad.yaml", "ui: [unclosed")

	for _, path := range []string{"/bad.toml", "/bad.yaml"} {
		l, _ := ForPath(memfs, path)
		_, err := l.Load()
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("%s: err = %v, want *ParseError", path, err)
		}
		if perr.Path != path {
			t.Errorf("%s: ParseError.Path = %q", path, perr.Path)
		}
	}
}

func TestTOMLParseErrorPosition(t *testing.T) {
	_, err := NewTOMLLoader("").LoadFromReader(strings.NewReader("a = 1\nb = = 2\n"))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
	if perr.Line != 2 {
		t.Errorf("Line = %d, want 2", perr.Line)
	}
}

func TestForPathUnsupported(t *testing.T) {
	if _, err := ForPath(NewMemFS(), "/c/config.json"); err == nil {
		t.Error("ForPath(.json) succeeded")
	}
}

func TestEnvLoader(t *testing.T) {
	l := NewEnvLoader(DefaultPrefix)
	l.environ = func() []string {
		return []string{
			"NWIN_BACKEND=terminal",
			"NWIN_UI_FRAME_RATE=144",
			"NWIN_UI_FONT_SIZE=12.5",
			"NWIN_MULTIGRID=off",
			"NWIN_LOG_LEVEL=debug",
			"NWIN_WM_SOCKET=/run/i3.sock",
			"NWIN_NOSECTION=1",
			"HOME=/root",
		}
	}
	got, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"ui": map[string]any{
			"backend":    "terminal",
			"frame_rate": int64(144),
			"font_size":  12.5,
		},
		"editor": map[string]any{"multigrid": false},
		"log":    map[string]any{"level": "debug"},
		"wm":     map[string]any{"socket_path": "/run/i3.sock"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %#v\nwant %#v", got, want)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"yes", true},
		{"OFF", false},
		{"0", int64(0)},
		{"-3", int64(-3)},
		{"1.5", 1.5},
		{"3s", "3s"},
		{"", ""},
		{"#1e1e2e", "#1e1e2e"},
	}
	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
