// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package glsl

import "github.com/devblok/korugl/device"

// Names of the attributes and uniforms every program is queried for.
const (
	Sampler0 = "sampler0"
	Sampler1 = "sampler1"

	APosition  = "a_position"
	AColor     = "a_color"
	ANormal    = "a_normal"
	ATexcoord0 = "a_texcoord0"
	ATexcoord1 = "a_texcoord1"

	UWorldViewProj = "u_worldviewproj"
	UWorld         = "u_world"
	UViewProj      = "u_viewproj"
	UFog           = "u_fog"
	USunDir        = "u_sundir"
	UCameraPos     = "u_camerapos"
)

// Locations caches the locations of the well known names of a linked
// program. Names the program does not use hold device.NotFound.
type Locations struct {
	Sampler0 int32
	Sampler1 int32

	Position  int32
	Color     int32
	Normal    int32
	Texcoord0 int32
	Texcoord1 int32

	WorldViewProj int32
	World         int32
	ViewProj      int32
	Fog           int32
	SunDir        int32
	CameraPos     int32
}

// notFoundLocations is the table of a program that is not compiled
func notFoundLocations() Locations {
	return Locations{
		Sampler0:      device.NotFound,
		Sampler1:      device.NotFound,
		Position:      device.NotFound,
		Color:         device.NotFound,
		Normal:        device.NotFound,
		Texcoord0:     device.NotFound,
		Texcoord1:     device.NotFound,
		WorldViewProj: device.NotFound,
		World:         device.NotFound,
		ViewProj:      device.NotFound,
		Fog:           device.NotFound,
		SunDir:        device.NotFound,
		CameraPos:     device.NotFound,
	}
}

func resolveLocations(dev device.Device, p device.Program) Locations {
	return Locations{
		Sampler0: dev.UniformLocation(p, Sampler0),
		Sampler1: dev.UniformLocation(p, Sampler1),

		Position:  dev.AttribLocation(p, APosition),
		Color:     dev.AttribLocation(p, AColor),
		Normal:    dev.AttribLocation(p, ANormal),
		Texcoord0: dev.AttribLocation(p, ATexcoord0),
		Texcoord1: dev.AttribLocation(p, ATexcoord1),

		WorldViewProj: dev.UniformLocation(p, UWorldViewProj),
		World:         dev.UniformLocation(p, UWorld),
		ViewProj:      dev.UniformLocation(p, UViewProj),
		Fog:           dev.UniformLocation(p, UFog),
		SunDir:        dev.UniformLocation(p, USunDir),
		CameraPos:     dev.UniformLocation(p, UCameraPos),
	}
}
