// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package devicetest_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/korugl/device"
	"github.com/devblok/korugl/device/devicetest"
)

const (
	vertex = `#version 330 core
layout(location = 0) in vec3 a_position;
in vec2 a_texcoord0; // second attribute
uniform mat4 u_worldviewproj;
uniform float u_weights[4];
void main() { gl_Position = u_worldviewproj * vec4(a_position, 1.0); }
`
	fragment = `#version 330 core
uniform mat4 u_worldviewproj;
uniform sampler2D sampler0;
in vec2 v_texcoord;
out vec4 fragColor;
void main() { fragColor = texture(sampler0, v_texcoord); }
`
)

func link(c *qt.C, d *devicetest.Device, vsrc, fsrc string) (device.Program, bool, string) {
	vs := d.CreateShader(device.VertexShaderType)
	ok, log := d.CompileShader(vs, vsrc)
	c.Assert(ok, qt.IsTrue, qt.Commentf("vertex: %s", log))
	fs := d.CreateShader(device.FragmentShaderType)
	ok, log = d.CompileShader(fs, fsrc)
	c.Assert(ok, qt.IsTrue, qt.Commentf("fragment: %s", log))

	p := d.CreateProgram()
	d.AttachShader(p, vs)
	d.AttachShader(p, fs)
	ok, log = d.LinkProgram(p)
	return p, ok, log
}

func TestLocations(t *testing.T) {
	c := qt.New(t)
	d := devicetest.New()

	p, ok, log := link(c, d, vertex, fragment)
	c.Assert(ok, qt.IsTrue, qt.Commentf("link: %s", log))

	c.Assert(d.AttribLocation(p, "a_position"), qt.Equals, int32(0))
	c.Assert(d.AttribLocation(p, "a_texcoord0"), qt.Equals, int32(1))
	c.Assert(d.AttribLocation(p, "v_texcoord"), qt.Equals, device.NotFound)
	c.Assert(d.UniformLocation(p, "u_worldviewproj"), qt.Equals, int32(0))
	c.Assert(d.UniformLocation(p, "u_weights"), qt.Equals, int32(1))
	c.Assert(d.UniformLocation(p, "sampler0"), qt.Equals, int32(2))
	c.Assert(d.UniformLocation(p, "u_missing"), qt.Equals, device.NotFound)
}

func TestCompileError(t *testing.T) {
	c := qt.New(t)
	d := devicetest.New()

	s := d.CreateShader(device.FragmentShaderType)
	ok, log := d.CompileShader(s, "#version 330 core\n\n"+devicetest.CompileErrorMarker+"\n")
	c.Assert(ok, qt.IsFalse)
	c.Assert(log, qt.Equals, "0:3: error: #error directive")
	c.Assert(d.Compiles, qt.Equals, 1)
}

func TestLinkError(t *testing.T) {
	c := qt.New(t)
	d := devicetest.New()

	_, ok, log := link(c, d, vertex, devicetest.LinkErrorMarker+"\n"+fragment)
	c.Assert(ok, qt.IsFalse)
	c.Assert(log, qt.Contains, "fragment")

	p := d.CreateProgram()
	vs := d.CreateShader(device.VertexShaderType)
	d.CompileShader(vs, vertex)
	d.AttachShader(p, vs)
	ok, _ = d.LinkProgram(p)
	c.Assert(ok, qt.IsFalse)
}

func TestResetInvalidatesHandles(t *testing.T) {
	c := qt.New(t)
	d := devicetest.New()

	p, ok, _ := link(c, d, vertex, fragment)
	c.Assert(ok, qt.IsTrue)
	d.UseProgram(p)
	c.Assert(d.LiveShaders(), qt.Equals, 2)
	c.Assert(d.LivePrograms(), qt.Equals, 1)

	d.Reset()
	c.Assert(d.IsProgram(p), qt.IsFalse)
	c.Assert(d.Current(), qt.Equals, device.Program(0))
	c.Assert(d.UniformLocation(p, "u_worldviewproj"), qt.Equals, device.NotFound)

	d.DeleteProgram(p)
	d.DeleteShader(0)
	c.Assert(d.InvalidDeletes, qt.Equals, 1)

	// Handles are never handed out twice.
	p2, ok, _ := link(c, d, vertex, fragment)
	c.Assert(ok, qt.IsTrue)
	c.Assert(p2 > p, qt.IsTrue)
}
