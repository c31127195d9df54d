// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package renderer

// Configuration describes the renderer configuration
type Configuration struct {
	ScreenWidth  uint32
	ScreenHeight uint32

	// ShaderDirectory is the root of the shader sources on disk
	ShaderDirectory string

	// ShaderArchive optionally names a kar archive that is searched
	// after ShaderDirectory
	ShaderArchive string

	// ShaderManifest is the manifest listing the programs to create,
	// relative to the shader roots. When it cannot be found the programs
	// are discovered from name.vert and name.frag pairs instead.
	ShaderManifest string

	FatalOnCompileError bool

	// WatchShaders refreshes programs when ShaderDirectory changes
	WatchShaders bool
}
