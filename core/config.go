// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"time"

	"github.com/devblok/korugl/core/renderer"
)

// Configuration defines a global engine configuration setting
type Configuration struct {
	Time     TimeConfiguration
	Renderer renderer.Configuration

	// LogLevel is a logrus level name
	LogLevel string
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out
	// To unlimit, set to 0
	FramesPerSecond int

	// RefreshInterval is the period of the shader staleness sweep.
	// Zero disables periodic sweeps.
	RefreshInterval time.Duration
}

// DefaultConfiguration returns the configuration used when nothing is set
func DefaultConfiguration() Configuration {
	return Configuration{
		Time: TimeConfiguration{
			FramesPerSecond: 60,
			RefreshInterval: 0,
		},
		Renderer: renderer.Configuration{
			ScreenWidth:     800,
			ScreenHeight:    600,
			ShaderDirectory: "./shaders",
			ShaderManifest:  "shaders.toml",
		},
		LogLevel: "info",
	}
}
