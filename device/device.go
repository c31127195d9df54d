// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package device abstracts the GL driver the renderer talks to.
// Everything that creates, compiles or queries GPU objects goes
// through a Device, so the same code can run against a real
// OpenGL context or the in-memory fake in devicetest.
package device

import (
	glm "github.com/go-gl/mathgl/mgl32"
)

// NotFound is the location returned for attributes and uniforms
// that the linked program does not expose.
const NotFound int32 = -1

// ShaderType represents the type of shader thats loaded
type ShaderType int

// Identifies shader objects with their types
const (
	VertexShaderType ShaderType = iota
	FragmentShaderType
	UnknownShaderType
)

func (t ShaderType) String() string {
	switch t {
	case VertexShaderType:
		return "vertex"
	case FragmentShaderType:
		return "fragment"
	default:
		return "unknown"
	}
}

// Shader is a driver handle of a shader object. Zero means not compiled.
type Shader uint32

// Program is a driver handle of a linked program. Zero means not compiled.
type Program uint32

// Info describes the driver behind a Device.
type Info struct {
	Vendor                 string
	Renderer               string
	Version                string
	ShadingLanguageVersion string
}

// Device describes a non-concrete rendering device.
// All methods must be called on the thread that owns the context.
type Device interface {
	// Info returns the driver identification strings
	Info() Info

	// CreateShader creates an empty shader object of the given type
	CreateShader(ShaderType) Shader

	// CompileShader sets the source of the shader and compiles it.
	// When compilation fails ok is false and log holds the driver diagnostics.
	CompileShader(s Shader, source string) (ok bool, log string)

	// DeleteShader deletes the shader object, deleting zero is a no-op
	DeleteShader(Shader)

	// CreateProgram creates an empty program object
	CreateProgram() Program

	// AttachShader attaches a compiled shader to the program
	AttachShader(Program, Shader)

	// LinkProgram links the program. When linking fails ok is false
	// and log holds the driver diagnostics.
	LinkProgram(Program) (ok bool, log string)

	// DeleteProgram deletes the program object, deleting zero is a no-op
	DeleteProgram(Program)

	// AttribLocation returns the location of the named attribute or NotFound
	AttribLocation(p Program, name string) int32

	// UniformLocation returns the location of the named uniform or NotFound
	UniformLocation(p Program, name string) int32

	// UseProgram makes the program current, zero unbinds
	UseProgram(Program)

	// Uniform1i uploads an integer uniform, typically a sampler unit
	Uniform1i(location int32, value int32)

	// Uniform3f uploads a vec3 uniform
	Uniform3f(location int32, value glm.Vec3)

	// Uniform4f uploads a vec4 uniform
	Uniform4f(location int32, value glm.Vec4)

	// UniformMatrix4f uploads a mat4 uniform
	UniformMatrix4f(location int32, value glm.Mat4)

	// Viewport sets the drawable area
	Viewport(width, height int32)

	// Clear clears the color and depth buffers
	Clear(color glm.Vec4)
}
