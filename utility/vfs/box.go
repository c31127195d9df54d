// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vfs

import (
	"sort"
	"time"

	"github.com/gobuffalo/packd"
	"github.com/gobuffalo/packr"
)

// NewBox wraps a packr box. During development packr reads the files
// from disk, in packed binaries they are embedded.
func NewBox(box packr.Box) *Box {
	return &Box{
		box: box,
	}
}

// Box is a FileSystem over a packr box
type Box struct {
	box packr.Box
}

// ReadFile implements FileSystem
func (b *Box) ReadFile(name string) ([]byte, error) {
	if !b.box.Has(name) {
		return nil, notExist("read", name)
	}
	return b.box.Find(name)
}

// ModTime implements FileSystem
func (b *Box) ModTime(name string) (time.Time, error) {
	if !b.box.Has(name) {
		return time.Time{}, notExist("stat", name)
	}
	f, err := b.box.Open(name)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// Names implements Lister
func (b *Box) Names() ([]string, error) {
	var names []string
	if err := b.box.Walk(func(name string, _ packd.File) error {
		names = append(names, name)
		return nil
	}); err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}
