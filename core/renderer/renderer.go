// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package renderer ties the GPU resources of one rendering context together.
package renderer

import (
	"errors"
	"os"

	"github.com/devblok/korugl/core/glsl"
	"github.com/devblok/korugl/core/lost"
	"github.com/devblok/korugl/device"
	"github.com/devblok/korugl/utility/vfs"
	"github.com/sirupsen/logrus"
)

// New creates a Renderer drawing with dev. Shader sources are read from
// the configured directory and archive, a watcher is started when
// asked for. The context must be current on the calling thread.
func New(dev device.Device, cfg Configuration, logger logrus.FieldLogger) (*Renderer, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	r := &Renderer{
		dev: dev,
		cfg: cfg,
		log: logger,
		fs:  vfs.New(),
	}

	if cfg.ShaderDirectory != "" {
		r.fs.Register("", vfs.Dir(cfg.ShaderDirectory))
	}
	if cfg.ShaderArchive != "" {
		ar, err := vfs.OpenArchive(cfg.ShaderArchive)
		if err != nil {
			return nil, err
		}
		r.archive = ar
		r.fs.Register("", ar)
	}

	if cfg.WatchShaders && cfg.ShaderDirectory != "" {
		w, err := glsl.NewWatcher(logger)
		if err != nil {
			r.closeArchive()
			return nil, err
		}
		if err := w.WatchTree(cfg.ShaderDirectory); err != nil {
			w.Close()
			r.closeArchive()
			return nil, err
		}
		r.watcher = w
	}

	r.registry = lost.NewManager(logger)
	r.shaders = glsl.NewManager(dev, r.fs, r.registry, glsl.Configuration{
		FatalOnCompileError: cfg.FatalOnCompileError,
	}, logger)

	info := dev.Info()
	logger.WithFields(logrus.Fields{
		"vendor":   info.Vendor,
		"renderer": info.Renderer,
		"version":  info.Version,
		"glsl":     info.ShadingLanguageVersion,
	}).Info("Renderer created")
	return r, nil
}

// Renderer owns the loss registry, the shader programs and the resource
// file system of a rendering context.
type Renderer struct {
	dev      device.Device
	cfg      Configuration
	log      logrus.FieldLogger
	fs       *vfs.VFS
	archive  *vfs.Archive
	watcher  *glsl.Watcher
	registry *lost.Manager
	shaders  *glsl.Manager
	programs []*glsl.Program
}

// Device returns the device the renderer draws with
func (r *Renderer) Device() device.Device {
	return r.dev
}

// FileSystem returns the file system shader sources are read from.
// More file systems can be mounted before LoadShaders is called.
func (r *Renderer) FileSystem() *vfs.VFS {
	return r.fs
}

// Registry returns the loss registry of the context. Every GPU
// resource created for this context must register with it.
func (r *Renderer) Registry() *lost.Manager {
	return r.registry
}

// Shaders returns the program manager of the context
func (r *Renderer) Shaders() *glsl.Manager {
	return r.shaders
}

// Programs returns the programs created by LoadShaders
func (r *Renderer) Programs() []*glsl.Program {
	return r.programs
}

// Program returns the program created by LoadShaders under name
func (r *Renderer) Program(name string) (*glsl.Program, bool) {
	for _, p := range r.programs {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// LoadShaders creates the programs of the manifest. Without a manifest the
// programs are discovered from the mounted file systems. Programs that
// failed to compile are kept and returned along with the error.
func (r *Renderer) LoadShaders() ([]*glsl.Program, error) {
	var (
		manifest glsl.Manifest
		err      error
	)
	if r.cfg.ShaderManifest == "" {
		err = os.ErrNotExist
	} else {
		manifest, err = glsl.LoadManifest(r.fs, r.cfg.ShaderManifest)
	}
	switch {
	case errors.Is(err, os.ErrNotExist):
		r.log.WithField("manifest", r.cfg.ShaderManifest).Info("No shader manifest, discovering programs")
		if manifest, err = glsl.Discover(r.fs); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	programs, err := r.shaders.CreateAll(manifest)
	r.programs = append(r.programs, programs...)
	return programs, err
}

// ContextLost restores every resource registered for the context.
// Call it once the new context is current.
func (r *Renderer) ContextLost() error {
	r.log.Warn("Rendering context lost")
	return r.registry.Lost()
}

// Refresh recompiles the programs whose sources changed
func (r *Renderer) Refresh() error {
	return r.shaders.Refresh()
}

// Changed fires when a watched shader source changed. It is nil when
// shaders are not watched, so receiving from it blocks forever.
func (r *Renderer) Changed() <-chan struct{} {
	if r.watcher == nil {
		return nil
	}
	return r.watcher.Changed()
}

// Close destroys every program created through Shaders, loaded or not,
// and releases the file system.
func (r *Renderer) Close() error {
	r.shaders.DestroyAll()
	r.programs = nil
	r.registry.Shutdown()

	var errs []error
	if r.watcher != nil {
		errs = append(errs, r.watcher.Close())
		r.watcher = nil
	}
	errs = append(errs, r.closeArchive())
	return errors.Join(errs...)
}

func (r *Renderer) closeArchive() error {
	if r.archive == nil {
		return nil
	}
	err := r.archive.Close()
	r.archive = nil
	return err
}
