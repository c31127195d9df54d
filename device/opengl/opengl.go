// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package opengl implements device.Device on top of an OpenGL 3.3 core context.
package opengl

import (
	"errors"
	"strings"

	"github.com/devblok/korugl/device"
	"github.com/go-gl/gl/v3.3-core/gl"
	glm "github.com/go-gl/mathgl/mgl32"
)

// NewOpenGLDevice loads the GL function pointers for the context that is
// current on the calling thread and returns a Device backed by it.
func NewOpenGLDevice() (device.Device, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.New("gl.Init(): " + err.Error())
	}
	return &OpenGL{}, nil
}

// OpenGL is a device.Device that issues real GL calls
type OpenGL struct {
	device.Device
}

// Info implements interface
func (o *OpenGL) Info() device.Info {
	return device.Info{
		Vendor:                 gl.GoStr(gl.GetString(gl.VENDOR)),
		Renderer:               gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:                gl.GoStr(gl.GetString(gl.VERSION)),
		ShadingLanguageVersion: gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}
}

// CreateShader implements interface
func (o *OpenGL) CreateShader(t device.ShaderType) device.Shader {
	switch t {
	case device.VertexShaderType:
		return device.Shader(gl.CreateShader(gl.VERTEX_SHADER))
	case device.FragmentShaderType:
		return device.Shader(gl.CreateShader(gl.FRAGMENT_SHADER))
	default:
		return 0
	}
}

// CompileShader implements interface
func (o *OpenGL) CompileShader(s device.Shader, source string) (bool, string) {
	handle := uint32(s)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(handle, 1, csource, nil)
	free()
	gl.CompileShader(handle)

	var status int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &status)
	if status == gl.TRUE {
		return true, ""
	}

	var logLen int32
	gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &logLen)
	if logLen == 0 {
		return false, ""
	}
	infoLog := strings.Repeat("\x00", int(logLen+1))
	gl.GetShaderInfoLog(handle, logLen, nil, gl.Str(infoLog))
	return false, strings.TrimRight(infoLog, "\x00")
}

// DeleteShader implements interface
func (o *OpenGL) DeleteShader(s device.Shader) {
	if s == 0 {
		return
	}
	gl.DeleteShader(uint32(s))
}

// CreateProgram implements interface
func (o *OpenGL) CreateProgram() device.Program {
	return device.Program(gl.CreateProgram())
}

// AttachShader implements interface
func (o *OpenGL) AttachShader(p device.Program, s device.Shader) {
	gl.AttachShader(uint32(p), uint32(s))
}

// LinkProgram implements interface
func (o *OpenGL) LinkProgram(p device.Program) (bool, string) {
	handle := uint32(p)
	gl.LinkProgram(handle)

	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)
	if status == gl.TRUE {
		return true, ""
	}

	var logLen int32
	gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &logLen)
	if logLen == 0 {
		return false, ""
	}
	infoLog := strings.Repeat("\x00", int(logLen+1))
	gl.GetProgramInfoLog(handle, logLen, nil, gl.Str(infoLog))
	return false, strings.TrimRight(infoLog, "\x00")
}

// DeleteProgram implements interface
func (o *OpenGL) DeleteProgram(p device.Program) {
	if p == 0 {
		return
	}
	gl.DeleteProgram(uint32(p))
}

// AttribLocation implements interface
func (o *OpenGL) AttribLocation(p device.Program, name string) int32 {
	if p == 0 {
		return device.NotFound
	}
	return gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00"))
}

// UniformLocation implements interface
func (o *OpenGL) UniformLocation(p device.Program, name string) int32 {
	if p == 0 {
		return device.NotFound
	}
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

// UseProgram implements interface
func (o *OpenGL) UseProgram(p device.Program) {
	gl.UseProgram(uint32(p))
}

// Uniform1i implements interface
func (o *OpenGL) Uniform1i(location int32, value int32) {
	gl.Uniform1i(location, value)
}

// Uniform3f implements interface
func (o *OpenGL) Uniform3f(location int32, value glm.Vec3) {
	gl.Uniform3f(location, value[0], value[1], value[2])
}

// Uniform4f implements interface
func (o *OpenGL) Uniform4f(location int32, value glm.Vec4) {
	gl.Uniform4f(location, value[0], value[1], value[2], value[3])
}

// UniformMatrix4f implements interface
func (o *OpenGL) UniformMatrix4f(location int32, value glm.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &value[0])
}

// Viewport implements interface
func (o *OpenGL) Viewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

// Clear implements interface
func (o *OpenGL) Clear(color glm.Vec4) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}
