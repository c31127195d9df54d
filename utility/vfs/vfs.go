// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package vfs loads resources by path from directories, packr boxes and
// kar archives. File systems are mounted under a prefix in a VFS and
// queried in the order they were registered.
package vfs

import (
	"errors"
	"os"
	"sort"
	"strings"
	"time"
)

// FileSystem is a read only source of files.
// Missing files are reported with errors satisfying errors.Is(err, os.ErrNotExist).
type FileSystem interface {

	// ReadFile returns the whole content of the named file
	ReadFile(name string) ([]byte, error)

	// ModTime returns the last modification time of the named file
	ModTime(name string) (time.Time, error)
}

// Lister is implemented by file systems that can enumerate their files.
type Lister interface {

	// Names returns slash separated names of every file
	Names() ([]string, error)
}

func notExist(op, name string) error {
	return &os.PathError{Op: op, Path: name, Err: os.ErrNotExist}
}

type mount struct {
	prefix string
	fs     FileSystem
}

// New creates an empty VFS
func New() *VFS {
	return &VFS{}
}

// VFS resolves names against mounted file systems.
type VFS struct {
	mounts []mount
}

// Register mounts fs under prefix. Names starting with the prefix are
// looked up in fs with the prefix removed. An empty prefix matches every name.
func (v *VFS) Register(prefix string, fs FileSystem) {
	v.mounts = append(v.mounts, mount{prefix: prefix, fs: fs})
}

// ReadFile implements FileSystem. The first mount that has the file wins.
func (v *VFS) ReadFile(name string) ([]byte, error) {
	for _, m := range v.mounts {
		if !strings.HasPrefix(name, m.prefix) {
			continue
		}
		data, err := m.fs.ReadFile(strings.TrimPrefix(name, m.prefix))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	return nil, notExist("read", name)
}

// ModTime implements FileSystem.
func (v *VFS) ModTime(name string) (time.Time, error) {
	for _, m := range v.mounts {
		if !strings.HasPrefix(name, m.prefix) {
			continue
		}
		t, err := m.fs.ModTime(strings.TrimPrefix(name, m.prefix))
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return time.Time{}, err
		}
	}
	return time.Time{}, notExist("stat", name)
}

// Names implements Lister over every mount that supports listing.
func (v *VFS) Names() ([]string, error) {
	seen := map[string]struct{}{}
	for _, m := range v.mounts {
		l, ok := m.fs.(Lister)
		if !ok {
			continue
		}
		names, err := l.Names()
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			seen[m.prefix+name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
