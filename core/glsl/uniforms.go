// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package glsl

import (
	"github.com/devblok/korugl/device"
	glm "github.com/go-gl/mathgl/mgl32"
)

// The setters below upload to the well known uniforms of a bound program.
// They do nothing when the program is not compiled or does not use the uniform.

func (p *Program) usable(loc int32) bool {
	return p.program != 0 && loc != device.NotFound
}

// SetWorld uploads u_world
func (p *Program) SetWorld(m glm.Mat4) {
	if p.usable(p.loc.World) {
		p.manager.dev.UniformMatrix4f(p.loc.World, m)
	}
}

// SetViewProj uploads u_viewproj
func (p *Program) SetViewProj(m glm.Mat4) {
	if p.usable(p.loc.ViewProj) {
		p.manager.dev.UniformMatrix4f(p.loc.ViewProj, m)
	}
}

// SetWorldViewProj uploads u_worldviewproj
func (p *Program) SetWorldViewProj(m glm.Mat4) {
	if p.usable(p.loc.WorldViewProj) {
		p.manager.dev.UniformMatrix4f(p.loc.WorldViewProj, m)
	}
}

// SetTransforms uploads u_world, u_viewproj and their product u_worldviewproj
func (p *Program) SetTransforms(world, viewProj glm.Mat4) {
	p.SetWorld(world)
	p.SetViewProj(viewProj)
	p.SetWorldViewProj(viewProj.Mul4(world))
}

// SetFog uploads u_fog
func (p *Program) SetFog(v glm.Vec4) {
	if p.usable(p.loc.Fog) {
		p.manager.dev.Uniform4f(p.loc.Fog, v)
	}
}

// SetSunDir uploads u_sundir, normalized
func (p *Program) SetSunDir(v glm.Vec3) {
	if p.usable(p.loc.SunDir) {
		if v.Len() > 0 {
			v = v.Normalize()
		}
		p.manager.dev.Uniform3f(p.loc.SunDir, v)
	}
}

// SetCameraPos uploads u_camerapos
func (p *Program) SetCameraPos(v glm.Vec3) {
	if p.usable(p.loc.CameraPos) {
		p.manager.dev.Uniform3f(p.loc.CameraPos, v)
	}
}

// SetSamplers binds sampler0 and sampler1 to texture units
func (p *Program) SetSamplers(unit0, unit1 int32) {
	if p.usable(p.loc.Sampler0) {
		p.manager.dev.Uniform1i(p.loc.Sampler0, unit0)
	}
	if p.usable(p.loc.Sampler1) {
		p.manager.dev.Uniform1i(p.loc.Sampler1, unit1)
	}
}
