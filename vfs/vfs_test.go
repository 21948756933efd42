package vfs

import (
	"errors"
	"testing"

	termfolio "github.com/safwanadnan/termfolio"
)

func dir(name string) termfolio.Entry { return termfolio.Entry{Name: name, Kind: termfolio.EntryDirectory} }
func file(name string) termfolio.Entry { return termfolio.Entry{Name: name, Kind: termfolio.EntryFile} }

func newTestFS(t *testing.T) *FS {
	t.Helper()
	fs, err := New(
		map[string][]termfolio.Entry{
			"/":              {dir("projects"), file("README.md"), file("resume.pdf"), dir("ghost")},
			"/projects":      {file("alpha.md"), file("beta.md"), dir("old")},
			"/projects/old/": {},
		},
		map[string]string{
			"/README.md":         "hello",
			"projects//alpha.md": "alpha",
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	return fs
}

func TestListPreservesOrder(t *testing.T) {
	fs := newTestFS(t)
	entries, ok := fs.List("/projects")
	if !ok {
		t.Fatal("expected /projects to exist")
	}
	want := []string{"alpha.md", "beta.md", "old"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, name := range want {
		if entries[i].Name != name {
			t.Errorf("entry %d: expected %q, got %q", i, name, entries[i].Name)
		}
	}
}

func TestListReturnsCopy(t *testing.T) {
	fs := newTestFS(t)
	entries, _ := fs.List("/")
	entries[0].Name = "mutated"
	again, _ := fs.List("/")
	if again[0].Name != "projects" {
		t.Errorf("List must not expose internal state, got %q", again[0].Name)
	}
}

func TestNormalizedKeys(t *testing.T) {
	fs := newTestFS(t)
	if !fs.IsDir("/projects/old") {
		t.Error("expected trailing-slash key to be normalized")
	}
	body, err := fs.ReadFile("/projects/alpha.md")
	if err != nil || body != "alpha" {
		t.Errorf("ReadFile = (%q, %v)", body, err)
	}
}

func TestCheckDir(t *testing.T) {
	fs := newTestFS(t)
	tests := []struct {
		path string
		want error
	}{
		{"/", nil},
		{"/projects", nil},
		{"/README.md", ErrNotDir},
		{"/missing", ErrNotFound},
		// Listed as a directory but never defined: not navigable.
		{"/ghost", ErrNotFound},
	}
	for _, tt := range tests {
		if got := fs.CheckDir(tt.path); !errors.Is(got, tt.want) {
			t.Errorf("CheckDir(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestReadFileErrors(t *testing.T) {
	fs := newTestFS(t)
	tests := []struct {
		path string
		want error
	}{
		{"/projects", ErrIsDir},
		{"/ghost", ErrIsDir},
		{"/resume.pdf", ErrUnreadable},
		{"/projects/beta.md", ErrUnreadable},
		{"/missing.txt", ErrNotFound},
		{"/nowhere/file", ErrNotFound},
	}
	for _, tt := range tests {
		if _, err := fs.ReadFile(tt.path); !errors.Is(err, tt.want) {
			t.Errorf("ReadFile(%q) error = %v, want %v", tt.path, err, tt.want)
		}
	}
}

func TestNewRejectsInvalidTables(t *testing.T) {
	tests := []struct {
		name  string
		dirs  map[string][]termfolio.Entry
		files map[string]string
	}{
		{"missing root", map[string][]termfolio.Entry{"/a": {}}, nil},
		{"orphan content", map[string][]termfolio.Entry{"/": {}}, map[string]string{"/x": "x"}},
		{"content on directory", map[string][]termfolio.Entry{"/": {dir("a")}, "/a": {}}, map[string]string{"/a": "x"}},
		{"duplicate entry", map[string][]termfolio.Entry{"/": {file("a"), file("a")}}, nil},
		{"separator in name", map[string][]termfolio.Entry{"/": {file("a/b")}}, nil},
		{"duplicate normalized dir", map[string][]termfolio.Entry{"/": {}, "//": {}}, nil},
		{"unknown kind", map[string][]termfolio.Entry{"/": {{Name: "a", Kind: "link"}}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.dirs, tt.files); err == nil {
				t.Error("expected error")
			}
		})
	}
}
