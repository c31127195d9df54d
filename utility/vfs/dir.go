// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vfs

import (
	"io/ioutil"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"
)

// Dir is a FileSystem rooted at a directory of the host file system.
// Names are slash separated and cannot escape the root.
type Dir string

func (d Dir) resolve(name string) string {
	return filepath.Join(string(d), filepath.FromSlash(path.Clean("/"+name)))
}

// ReadFile implements FileSystem
func (d Dir) ReadFile(name string) ([]byte, error) {
	return ioutil.ReadFile(d.resolve(name))
}

// ModTime implements FileSystem
func (d Dir) ModTime(name string) (time.Time, error) {
	info, err := os.Stat(d.resolve(name))
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// Names implements Lister
func (d Dir) Names() ([]string, error) {
	var names []string
	root := string(d)
	if err := filepath.Walk(root, func(p string, f os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if f.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	}); err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}
