// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core holds the engine wide configuration and time services.
package core

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
)

// Environment variables read by LoadConfiguration
const (
	EnvFramesPerSecond     = "KORU_FPS"
	EnvRefreshInterval     = "KORU_REFRESH_INTERVAL"
	EnvScreenWidth         = "KORU_SCREEN_WIDTH"
	EnvScreenHeight        = "KORU_SCREEN_HEIGHT"
	EnvShaderDirectory     = "KORU_SHADER_DIR"
	EnvShaderArchive       = "KORU_SHADER_ARCHIVE"
	EnvShaderManifest      = "KORU_SHADER_MANIFEST"
	EnvFatalOnCompileError = "KORU_SHADER_FATAL"
	EnvWatchShaders        = "KORU_SHADER_WATCH"
	EnvLogLevel            = "KORU_LOG_LEVEL"
)

// LoadConfiguration builds a Configuration from the environment.
// Variables in the given env files are used when the process
// environment does not already define them.
func LoadConfiguration(files ...string) (Configuration, error) {
	envy.Reload()
	if len(files) > 0 {
		vars, err := godotenv.Read(files...)
		if err != nil {
			return Configuration{}, err
		}
		for k, v := range vars {
			if _, ok := os.LookupEnv(k); !ok {
				envy.Set(k, v)
			}
		}
	}

	cfg := DefaultConfiguration()
	var err error
	if cfg.Time.FramesPerSecond, err = envInt(EnvFramesPerSecond, cfg.Time.FramesPerSecond); err != nil {
		return Configuration{}, err
	}
	if cfg.Time.RefreshInterval, err = envDuration(EnvRefreshInterval, cfg.Time.RefreshInterval); err != nil {
		return Configuration{}, err
	}

	width, err := envInt(EnvScreenWidth, int(cfg.Renderer.ScreenWidth))
	if err != nil {
		return Configuration{}, err
	}
	height, err := envInt(EnvScreenHeight, int(cfg.Renderer.ScreenHeight))
	if err != nil {
		return Configuration{}, err
	}
	cfg.Renderer.ScreenWidth = uint32(width)
	cfg.Renderer.ScreenHeight = uint32(height)

	cfg.Renderer.ShaderDirectory = envy.Get(EnvShaderDirectory, cfg.Renderer.ShaderDirectory)
	cfg.Renderer.ShaderArchive = envy.Get(EnvShaderArchive, cfg.Renderer.ShaderArchive)
	cfg.Renderer.ShaderManifest = envy.Get(EnvShaderManifest, cfg.Renderer.ShaderManifest)
	if cfg.Renderer.FatalOnCompileError, err = envBool(EnvFatalOnCompileError, cfg.Renderer.FatalOnCompileError); err != nil {
		return Configuration{}, err
	}
	if cfg.Renderer.WatchShaders, err = envBool(EnvWatchShaders, cfg.Renderer.WatchShaders); err != nil {
		return Configuration{}, err
	}
	cfg.LogLevel = envy.Get(EnvLogLevel, cfg.LogLevel)
	return cfg, nil
}

func envInt(key string, def int) (int, error) {
	v := envy.Get(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("core: %s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("core: %s must not be negative", key)
	}
	return n, nil
}

func envBool(key string, def bool) (bool, error) {
	v := envy.Get(key, "")
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("core: %s: %w", key, err)
	}
	return b, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := envy.Get(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("core: %s: %w", key, err)
	}
	return d, nil
}
