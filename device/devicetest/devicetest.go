// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package devicetest provides an in-memory device.Device for tests.
//
// The fake understands just enough GLSL to be useful: a source containing
// CompileErrorMarker fails to compile, a source containing LinkErrorMarker
// fails to link, and every `attribute`, `in` (vertex stage only) and
// `uniform` declaration becomes an active name of the linked program.
package devicetest

import (
	"strconv"
	"strings"

	"github.com/devblok/korugl/device"
	glm "github.com/go-gl/mathgl/mgl32"
)

// Markers recognised inside shader sources.
const (
	CompileErrorMarker = "#error"
	LinkErrorMarker    = "#link_error"
)

type shader struct {
	kind     device.ShaderType
	source   string
	compiled bool
}

type program struct {
	shaders    []device.Shader
	linked     bool
	attributes map[string]int32
	uniforms   map[string]int32
}

// Device is a fake device.Device. Handles are never reused, so tests
// can tell a recompiled program apart from the previous one.
type Device struct {
	next     uint32
	shaders  map[device.Shader]*shader
	programs map[device.Program]*program
	current  device.Program

	// Uniforms holds the last value uploaded per location
	Uniforms map[int32]interface{}

	// InvalidDeletes counts deletes of non-zero handles that do not exist,
	// either double deletes or deletes of handles lost with the context
	InvalidDeletes int

	// Compiles and Links count driver calls
	Compiles int
	Links    int
	Clears   int

	ViewportSize [2]int32
}

// New creates an empty fake device
func New() *Device {
	return &Device{
		shaders:  map[device.Shader]*shader{},
		programs: map[device.Program]*program{},
		Uniforms: map[int32]interface{}{},
	}
}

// Reset simulates a context loss: every handle becomes meaningless.
func (d *Device) Reset() {
	d.shaders = map[device.Shader]*shader{}
	d.programs = map[device.Program]*program{}
	d.current = 0
	d.Uniforms = map[int32]interface{}{}
}

// LiveShaders returns the number of shader objects not yet deleted
func (d *Device) LiveShaders() int {
	return len(d.shaders)
}

// LivePrograms returns the number of program objects not yet deleted
func (d *Device) LivePrograms() int {
	return len(d.programs)
}

// IsShader reports whether s is a live shader object
func (d *Device) IsShader(s device.Shader) bool {
	_, ok := d.shaders[s]
	return ok
}

// IsProgram reports whether p is a live program object
func (d *Device) IsProgram(p device.Program) bool {
	_, ok := d.programs[p]
	return ok
}

// Current returns the program selected by the last UseProgram
func (d *Device) Current() device.Program {
	return d.current
}

// Info implements interface
func (d *Device) Info() device.Info {
	return device.Info{
		Vendor:                 "devblok",
		Renderer:               "devicetest",
		Version:                "3.3 fake",
		ShadingLanguageVersion: "3.30",
	}
}

// CreateShader implements interface
func (d *Device) CreateShader(t device.ShaderType) device.Shader {
	d.next++
	s := device.Shader(d.next)
	d.shaders[s] = &shader{kind: t}
	return s
}

// CompileShader implements interface
func (d *Device) CompileShader(s device.Shader, source string) (bool, string) {
	d.Compiles++
	sh, ok := d.shaders[s]
	if !ok {
		return false, "invalid shader object"
	}
	sh.source = source
	if idx := strings.Index(source, CompileErrorMarker); idx >= 0 {
		line := strings.Count(source[:idx], "\n") + 1
		return false, "0:" + strconv.Itoa(line) + ": error: " + CompileErrorMarker + " directive"
	}
	sh.compiled = true
	return true, ""
}

// DeleteShader implements interface
func (d *Device) DeleteShader(s device.Shader) {
	if s == 0 {
		return
	}
	if _, ok := d.shaders[s]; !ok {
		d.InvalidDeletes++
		return
	}
	delete(d.shaders, s)
}

// CreateProgram implements interface
func (d *Device) CreateProgram() device.Program {
	d.next++
	p := device.Program(d.next)
	d.programs[p] = &program{}
	return p
}

// AttachShader implements interface
func (d *Device) AttachShader(p device.Program, s device.Shader) {
	if prog, ok := d.programs[p]; ok {
		prog.shaders = append(prog.shaders, s)
	}
}

// LinkProgram implements interface
func (d *Device) LinkProgram(p device.Program) (bool, string) {
	d.Links++
	prog, ok := d.programs[p]
	if !ok {
		return false, "invalid program object"
	}

	prog.attributes = map[string]int32{}
	prog.uniforms = map[string]int32{}
	var stages int
	for _, s := range prog.shaders {
		sh, ok := d.shaders[s]
		if !ok || !sh.compiled {
			return false, "attached shader is not compiled"
		}
		if strings.Contains(sh.source, LinkErrorMarker) {
			return false, "error: " + sh.kind.String() + " stage does not match"
		}
		stages++
		for _, decl := range declarations(sh.source) {
			switch {
			case decl.qualifier == "uniform":
				if _, ok := prog.uniforms[decl.name]; !ok {
					prog.uniforms[decl.name] = int32(len(prog.uniforms))
				}
			case sh.kind == device.VertexShaderType:
				prog.attributes[decl.name] = int32(len(prog.attributes))
			}
		}
	}
	if stages < 2 {
		return false, "program needs a vertex and a fragment stage"
	}
	prog.linked = true
	return true, ""
}

// DeleteProgram implements interface
func (d *Device) DeleteProgram(p device.Program) {
	if p == 0 {
		return
	}
	if _, ok := d.programs[p]; !ok {
		d.InvalidDeletes++
		return
	}
	delete(d.programs, p)
	if d.current == p {
		d.current = 0
	}
}

// AttribLocation implements interface
func (d *Device) AttribLocation(p device.Program, name string) int32 {
	prog, ok := d.programs[p]
	if !ok || !prog.linked {
		return device.NotFound
	}
	if loc, ok := prog.attributes[name]; ok {
		return loc
	}
	return device.NotFound
}

// UniformLocation implements interface
func (d *Device) UniformLocation(p device.Program, name string) int32 {
	prog, ok := d.programs[p]
	if !ok || !prog.linked {
		return device.NotFound
	}
	if loc, ok := prog.uniforms[name]; ok {
		return loc
	}
	return device.NotFound
}

// UseProgram implements interface
func (d *Device) UseProgram(p device.Program) {
	d.current = p
}

// Uniform1i implements interface
func (d *Device) Uniform1i(location int32, value int32) {
	d.Uniforms[location] = value
}

// Uniform3f implements interface
func (d *Device) Uniform3f(location int32, value glm.Vec3) {
	d.Uniforms[location] = value
}

// Uniform4f implements interface
func (d *Device) Uniform4f(location int32, value glm.Vec4) {
	d.Uniforms[location] = value
}

// UniformMatrix4f implements interface
func (d *Device) UniformMatrix4f(location int32, value glm.Mat4) {
	d.Uniforms[location] = value
}

// Viewport implements interface
func (d *Device) Viewport(width, height int32) {
	d.ViewportSize = [2]int32{width, height}
}

// Clear implements interface
func (d *Device) Clear(color glm.Vec4) {
	d.Clears++
}

type declaration struct {
	qualifier string
	name      string
}

// declarations picks `qualifier type name;` statements out of the source.
func declarations(source string) []declaration {
	var decls []declaration
	for _, line := range strings.Split(source, "\n") {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		for _, stmt := range strings.Split(line, ";") {
			stmt = strings.TrimSpace(stmt)
			if strings.HasPrefix(stmt, "layout") {
				if i := strings.Index(stmt, ")"); i >= 0 {
					stmt = stmt[i+1:]
				}
			}
			fields := strings.Fields(stmt)
			if len(fields) < 3 {
				continue
			}
			switch fields[0] {
			case "attribute", "in", "uniform":
			default:
				continue
			}
			name := fields[len(fields)-1]
			if i := strings.Index(name, "["); i >= 0 {
				name = name[:i]
			}
			decls = append(decls, declaration{qualifier: fields[0], name: name})
		}
	}
	return decls
}
