// Package vfs implements the read-only virtual filesystem browsed by the
// shell: a fixed mapping from absolute directory path to its ordered
// entries, and a content table for readable files.
package vfs

import (
	"errors"
	"fmt"
	"strings"

	termfolio "github.com/safwanadnan/termfolio"
)

var (
	// ErrNotFound is returned for paths unknown to the filesystem.
	ErrNotFound = errors.New("no such file or directory")
	// ErrNotDir is returned when a directory was expected but a file was found.
	ErrNotDir = errors.New("not a directory")
	// ErrIsDir is returned when a file was expected but a directory was found.
	ErrIsDir = errors.New("is a directory")
	// ErrUnreadable is returned for files that exist but carry no content.
	ErrUnreadable = errors.New("cannot read file")
)

// FS is an immutable virtual filesystem. The zero value is not usable; build
// one with New.
type FS struct {
	dirs  map[string][]termfolio.Entry
	files map[string]string
}

// New builds a filesystem from a directory table and a file content table.
// Both tables are copied and keys are normalized. Every content entry must
// name a file entry listed in an existing directory, and Root must exist.
func New(dirs map[string][]termfolio.Entry, files map[string]string) (*FS, error) {
	fs := &FS{
		dirs:  make(map[string][]termfolio.Entry, len(dirs)),
		files: make(map[string]string, len(files)),
	}
	for path, entries := range dirs {
		key := Normalize(path)
		if _, dup := fs.dirs[key]; dup {
			return nil, fmt.Errorf("vfs: duplicate directory %q", key)
		}
		seen := make(map[string]bool, len(entries))
		list := make([]termfolio.Entry, 0, len(entries))
		for _, e := range entries {
			if e.Name == "" || e.Name == "." || e.Name == ".." || strings.ContainsRune(e.Name, '/') {
				return nil, fmt.Errorf("vfs: invalid entry name %q in %q", e.Name, key)
			}
			if e.Kind != termfolio.EntryFile && e.Kind != termfolio.EntryDirectory {
				return nil, fmt.Errorf("vfs: entry %q in %q has unknown kind %q", e.Name, key, e.Kind)
			}
			if seen[e.Name] {
				return nil, fmt.Errorf("vfs: duplicate entry %q in %q", e.Name, key)
			}
			seen[e.Name] = true
			list = append(list, e)
		}
		fs.dirs[key] = list
	}
	if _, ok := fs.dirs[Root]; !ok {
		return nil, fmt.Errorf("vfs: root directory is missing")
	}

	for path, body := range files {
		key := Normalize(path)
		kind, ok := fs.entryKind(key)
		if !ok {
			return nil, fmt.Errorf("vfs: content for %q has no file entry", key)
		}
		if kind != termfolio.EntryFile {
			return nil, fmt.Errorf("vfs: content for %q attached to a directory", key)
		}
		fs.files[key] = body
	}
	return fs, nil
}

// entryKind looks p up in its parent's listing.
func (fs *FS) entryKind(p string) (termfolio.EntryKind, bool) {
	if p == Root {
		return termfolio.EntryDirectory, true
	}
	entries, ok := fs.dirs[Parent(p)]
	if !ok {
		return "", false
	}
	name := Base(p)
	for _, e := range entries {
		if e.Name == name {
			return e.Kind, true
		}
	}
	return "", false
}

// List returns a copy of the entries of directory p in stored order.
func (fs *FS) List(p string) ([]termfolio.Entry, bool) {
	entries, ok := fs.dirs[Normalize(p)]
	if !ok {
		return nil, false
	}
	out := make([]termfolio.Entry, len(entries))
	copy(out, entries)
	return out, true
}

// IsDir reports whether p is a navigable directory.
func (fs *FS) IsDir(p string) bool {
	_, ok := fs.dirs[Normalize(p)]
	return ok
}

// Stat classifies p. Navigable directories and entries listed in an existing
// parent are known; everything else reports false.
func (fs *FS) Stat(p string) (termfolio.EntryKind, bool) {
	p = Normalize(p)
	if _, ok := fs.dirs[p]; ok {
		return termfolio.EntryDirectory, true
	}
	return fs.entryKind(p)
}

// CheckDir returns nil when p is a navigable directory, ErrNotDir when it
// names a file and ErrNotFound otherwise.
func (fs *FS) CheckDir(p string) error {
	p = Normalize(p)
	if fs.IsDir(p) {
		return nil
	}
	if kind, ok := fs.entryKind(p); ok && kind == termfolio.EntryFile {
		return ErrNotDir
	}
	return ErrNotFound
}

// ReadFile returns the content of file p. Directories yield ErrIsDir, known
// files without content ErrUnreadable, and unknown paths ErrNotFound.
func (fs *FS) ReadFile(p string) (string, error) {
	p = Normalize(p)
	if body, ok := fs.files[p]; ok {
		return body, nil
	}
	kind, ok := fs.Stat(p)
	switch {
	case !ok:
		return "", ErrNotFound
	case kind == termfolio.EntryDirectory:
		return "", ErrIsDir
	default:
		return "", ErrUnreadable
	}
}

// Dirs returns the number of navigable directories.
func (fs *FS) Dirs() int {
	return len(fs.dirs)
}
