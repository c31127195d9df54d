// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package glsl

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/devblok/korugl/utility/vfs"
	"github.com/pelletier/go-toml/v2"
)

// Manifest lists the programs an application uses.
//
//	[[program]]
//	name = "terrain"
//	vertex = "shaders/terrain.vert"
//	fragment = "shaders/terrain.frag"
type Manifest struct {
	Programs []ProgramSource `toml:"program"`
}

// ProgramSource names the sources of one program.
// An empty Name defaults to the base name of the vertex source.
type ProgramSource struct {
	Name     string `toml:"name"`
	Vertex   string `toml:"vertex"`
	Fragment string `toml:"fragment"`
}

// ParseManifest decodes a TOML manifest
func ParseManifest(data []byte) (Manifest, error) {
	var manifest Manifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return Manifest{}, fmt.Errorf("glsl: manifest: %w", err)
	}
	for i, src := range manifest.Programs {
		if src.Vertex == "" || src.Fragment == "" {
			return Manifest{}, fmt.Errorf("glsl: manifest: program %d needs a vertex and a fragment source", i)
		}
	}
	return manifest, nil
}

// LoadManifest reads and decodes the manifest called name from fs
func LoadManifest(fs vfs.FileSystem, name string) (Manifest, error) {
	data, err := fs.ReadFile(name)
	if err != nil {
		return Manifest{}, fmt.Errorf("glsl: manifest: %w", err)
	}
	return ParseManifest(data)
}

// Discover builds a manifest from the shader files l contains. Only files
// named like name.vert and name.frag are considered, a program is made
// for every name that has both. The file name must not contain more dots,
// the first node is the name of the program and the second its stage.
func Discover(l vfs.Lister) (Manifest, error) {
	names, err := l.Names()
	if err != nil {
		return Manifest{}, err
	}

	type pair struct{ vertex, fragment string }
	pairs := map[string]*pair{}
	for _, name := range names {
		nodes := strings.Split(path.Base(name), ".")
		if len(nodes) != 2 {
			continue
		}
		key := path.Join(path.Dir(name), nodes[0])
		if pairs[key] == nil {
			pairs[key] = &pair{}
		}
		switch nodes[1] {
		case "vert":
			pairs[key].vertex = name
		case "frag":
			pairs[key].fragment = name
		}
	}

	var manifest Manifest
	for key, p := range pairs {
		if p.vertex == "" || p.fragment == "" {
			continue
		}
		manifest.Programs = append(manifest.Programs, ProgramSource{
			Name:     path.Base(key),
			Vertex:   p.vertex,
			Fragment: p.fragment,
		})
	}
	sort.Slice(manifest.Programs, func(i, j int) bool {
		return manifest.Programs[i].Vertex < manifest.Programs[j].Vertex
	})
	return manifest, nil
}
