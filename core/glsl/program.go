// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package glsl

import (
	"time"

	"github.com/devblok/korugl/device"
	"github.com/sirupsen/logrus"
)

// Program is a linked vertex and fragment shader pair.
// A program whose handle is zero holds no GPU program and must not be drawn with.
type Program struct {
	manager *Manager

	name            string
	vshaderFilename string
	fshaderFilename string
	vshaderMtime    time.Time
	fshaderMtime    time.Time

	vsh     device.Shader
	fsh     device.Shader
	program device.Program

	loc       Locations
	destroyed bool

	// missing is set while a source could not be read, so the
	// next Refresh retries even if the modification times match.
	missing bool
}

// Name returns the display name of the program
func (p *Program) Name() string {
	return p.name
}

// VertexPath returns the path of the vertex shader source
func (p *Program) VertexPath() string {
	return p.vshaderFilename
}

// FragmentPath returns the path of the fragment shader source
func (p *Program) FragmentPath() string {
	return p.fshaderFilename
}

// Compiled reports whether the program currently holds a linked program
func (p *Program) Compiled() bool {
	return p.program != 0
}

// Handles returns the vertex shader, fragment shader and program handles
func (p *Program) Handles() (device.Shader, device.Shader, device.Program) {
	return p.vsh, p.fsh, p.program
}

// Locations returns the cached locations of the well known names
func (p *Program) Locations() Locations {
	return p.loc
}

func (p *Program) fields() logrus.Fields {
	return logrus.Fields{
		"program":  p.name,
		"vertex":   p.vshaderFilename,
		"fragment": p.fshaderFilename,
	}
}

// Recompile reads both sources again and replaces the program.
// On failure the previous program, if any, stays in place and usable.
func (p *Program) Recompile() error {
	if p.destroyed {
		return ErrDestroyed
	}
	m := p.manager
	p.vshaderMtime = m.modTime(p.vshaderFilename)
	p.fshaderMtime = m.modTime(p.fshaderFilename)

	vsrc, err := m.readSource(p.vshaderFilename)
	if err != nil {
		p.missing = true
		return err
	}
	fsrc, err := m.readSource(p.fshaderFilename)
	if err != nil {
		p.missing = true
		return err
	}
	p.missing = false

	vsh, err := m.compileShader(device.VertexShaderType, p.vshaderFilename, vsrc)
	if err != nil {
		m.compileFailed(err)
		return err
	}
	fsh, err := m.compileShader(device.FragmentShaderType, p.fshaderFilename, fsrc)
	if err != nil {
		m.dev.DeleteShader(vsh)
		m.compileFailed(err)
		return err
	}

	prog := m.dev.CreateProgram()
	m.dev.AttachShader(prog, vsh)
	m.dev.AttachShader(prog, fsh)
	if ok, infoLog := m.dev.LinkProgram(prog); !ok {
		m.log.WithFields(p.fields()).Errorf("Could not link program:\n %s", infoLog)
		m.dev.DeleteShader(vsh)
		m.dev.DeleteShader(fsh)
		m.dev.DeleteProgram(prog)
		return &LinkError{
			Program: p.name,
			Log:     infoLog,
		}
	}

	// The old objects go only once the new program linked.
	m.dev.DeleteProgram(p.program)
	m.dev.DeleteShader(p.vsh)
	m.dev.DeleteShader(p.fsh)

	p.program = prog
	p.vsh = vsh
	p.fsh = fsh
	p.loc = resolveLocations(m.dev, prog)
	m.active[p] = struct{}{}

	m.log.WithFields(p.fields()).Debug("Shader compilation success")
	return nil
}

// GLLost implements lost.Holder. The handles died with the context,
// so they are forgotten instead of deleted before recompiling.
func (p *Program) GLLost() error {
	p.manager.log.WithFields(p.fields()).Infof("Restoring GLSL program %s/%s", p.vshaderFilename, p.fshaderFilename)
	p.program = 0
	p.vsh = 0
	p.fsh = 0
	p.loc = notFoundLocations()
	return p.Recompile()
}

// UpToDate reports whether neither source file changed since the last compile attempt
func (p *Program) UpToDate() bool {
	m := p.manager
	return m.modTime(p.vshaderFilename).Equal(p.vshaderMtime) &&
		m.modTime(p.fshaderFilename).Equal(p.fshaderMtime)
}

// AttribLocation looks up an attribute that is not part of Locations.
func (p *Program) AttribLocation(name string) int32 {
	if p.program == 0 {
		return device.NotFound
	}
	return p.manager.dev.AttribLocation(p.program, name)
}

// UniformLocation looks up a uniform that is not part of Locations.
func (p *Program) UniformLocation(name string) int32 {
	if p.program == 0 {
		return device.NotFound
	}
	return p.manager.dev.UniformLocation(p.program, name)
}

// Bind makes the program current for the following draw calls
func (p *Program) Bind() {
	p.manager.dev.UseProgram(p.program)
}

// Destroy unregisters the program and deletes its GPU objects.
// Destroying a program twice does nothing the second time.
func (p *Program) Destroy() {
	if p.destroyed {
		return
	}
	m := p.manager
	m.registry.Unregister(p)
	m.dev.DeleteShader(p.vsh)
	m.dev.DeleteShader(p.fsh)
	m.dev.DeleteProgram(p.program)
	p.vsh = 0
	p.fsh = 0
	p.program = 0
	p.loc = notFoundLocations()
	delete(m.active, p)
	delete(m.created, p)
	p.destroyed = true
}
