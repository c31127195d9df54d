// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vfs

import (
	"io"
	"time"

	"github.com/devblok/korugl/utility/kar"
	"golang.org/x/exp/mmap"
)

// OpenArchive memory maps the kar archive at path.
// The returned Archive must be closed when no longer used.
func OpenArchive(path string) (*Archive, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	ar, err := kar.Open(r)
	if err != nil {
		r.Close()
		return nil, err
	}
	return &Archive{
		archive: ar,
		closer:  r,
	}, nil
}

// NewArchive wraps an already opened kar archive
func NewArchive(ar *kar.Archive) *Archive {
	return &Archive{
		archive: ar,
	}
}

// Archive is a FileSystem over a kar archive. Archives are immutable,
// every file reports the archive creation date as its modification time.
type Archive struct {
	archive *kar.Archive
	closer  io.Closer
}

// ReadFile implements FileSystem
func (a *Archive) ReadFile(name string) ([]byte, error) {
	data, err := a.archive.ReadAll(name)
	if err == kar.ErrNotFound {
		return nil, notExist("read", name)
	}
	return data, err
}

// ModTime implements FileSystem
func (a *Archive) ModTime(name string) (time.Time, error) {
	if _, err := a.archive.Stat(name); err != nil {
		return time.Time{}, notExist("stat", name)
	}
	return time.Unix(a.archive.Header().DateCreated, 0), nil
}

// Names implements Lister
func (a *Archive) Names() ([]string, error) {
	return a.archive.Names(), nil
}

// Close releases the mapping, if the archive was opened with OpenArchive
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
