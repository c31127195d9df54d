// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package glsl compiles, links and hot reloads GLSL programs.
//
// A Manager owns the set of live programs of one rendering context. Every
// program registers itself with the lost.Manager of that context and
// recompiles in place when the context is lost. Refresh recompiles only the
// programs whose source files changed since they were last compiled.
// Nothing in this package is safe for concurrent use, call it from the
// thread that owns the context.
package glsl

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/devblok/korugl/core/lost"
	"github.com/devblok/korugl/device"
	"github.com/devblok/korugl/utility/vfs"
	"github.com/sirupsen/logrus"
)

// Configuration is used to configure the compile error policy
type Configuration struct {
	// FatalOnCompileError terminates the process through the logger
	// when a shader fails to compile. Shader sources are then treated
	// as build artifacts whose syntax errors are programmer errors.
	// Tools that must stay alive, like an editor, leave it unset and
	// get a *CompileError back instead.
	FatalOnCompileError bool
}

// NewManager creates a Manager compiling through dev, reading sources from fs
// and registering programs with registry. A nil registry gets a private one,
// a nil logger means the logrus standard logger.
func NewManager(dev device.Device, fs vfs.FileSystem, registry *lost.Manager, cfg Configuration, logger logrus.FieldLogger) *Manager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if registry == nil {
		registry = lost.NewManager(logger)
	}
	return &Manager{
		dev:      dev,
		fs:       fs,
		registry: registry,
		cfg:      cfg,
		log:      logger,
		active:   map[*Program]struct{}{},
		created:  map[*Program]struct{}{},
	}
}

// Manager creates programs and keeps track of the active ones.
type Manager struct {
	dev      device.Device
	fs       vfs.FileSystem
	registry *lost.Manager
	cfg      Configuration
	log      logrus.FieldLogger

	active  map[*Program]struct{}
	created map[*Program]struct{}
}

// Registry returns the lost manager programs register with
func (m *Manager) Registry() *lost.Manager {
	return m.registry
}

// Create creates a program from a vertex and a fragment shader source and
// compiles it. The program is returned even when the initial compilation
// fails, it stays registered for context loss and can be recompiled later.
func (m *Manager) Create(vertexPath, fragmentPath string) (*Program, error) {
	return m.create(filepath.Base(vertexPath), vertexPath, fragmentPath)
}

func (m *Manager) create(name, vertexPath, fragmentPath string) (*Program, error) {
	p := &Program{
		manager:         m,
		name:            name,
		vshaderFilename: vertexPath,
		fshaderFilename: fragmentPath,
		loc:             notFoundLocations(),
	}
	err := p.Recompile()
	m.registry.Register(p)
	m.created[p] = struct{}{}

	entry := m.log.WithFields(p.fields())
	if err != nil {
		entry.WithError(err).Warn("Created GLSL program without a compiled program")
	} else {
		entry.Info("Created GLSL program")
	}
	return p, err
}

// CreateAll creates every program in the manifest. All programs are
// returned, compilation failures are joined in the error.
func (m *Manager) CreateAll(manifest Manifest) ([]*Program, error) {
	programs := make([]*Program, 0, len(manifest.Programs))
	var errs []error
	for _, src := range manifest.Programs {
		name := src.Name
		if name == "" {
			name = filepath.Base(src.Vertex)
		}
		p, err := m.create(name, src.Vertex, src.Fragment)
		if err != nil {
			errs = append(errs, err)
		}
		programs = append(programs, p)
	}
	return programs, errors.Join(errs...)
}

// Unbind makes no program current
func (m *Manager) Unbind() {
	m.dev.UseProgram(0)
}

// Active returns the active programs ordered by their source paths
func (m *Manager) Active() []*Program {
	programs := make([]*Program, 0, len(m.active))
	for p := range m.active {
		programs = append(programs, p)
	}
	sort.Slice(programs, func(i, j int) bool {
		if programs[i].vshaderFilename != programs[j].vshaderFilename {
			return programs[i].vshaderFilename < programs[j].vshaderFilename
		}
		return programs[i].fshaderFilename < programs[j].fshaderFilename
	})
	return programs
}

// Len returns the number of active programs
func (m *Manager) Len() int {
	return len(m.active)
}

// DestroyAll destroys every program the manager created that was not
// destroyed yet, compiled or not.
func (m *Manager) DestroyAll() {
	programs := make([]*Program, 0, len(m.created))
	for p := range m.created {
		programs = append(programs, p)
	}
	for _, p := range programs {
		p.Destroy()
	}
}

// Refresh recompiles every active program that is not up to date.
// Programs that fail are left as they were. Programs whose sources could
// not be read are retried on every Refresh until they can.
func (m *Manager) Refresh() error {
	m.log.WithField("programs", len(m.active)).Info("Refreshing GLSL programs")

	var errs []error
	for _, p := range m.Active() {
		if p.UpToDate() && !p.missing {
			continue
		}
		m.log.WithFields(p.fields()).Info("Recompiling stale GLSL program")
		if err := p.Recompile(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) modTime(name string) time.Time {
	t, err := m.fs.ModTime(name)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (m *Manager) readSource(name string) (string, error) {
	data, err := m.fs.ReadFile(name)
	if err != nil {
		m.log.WithError(err).WithField("file", name).Errorf("File missing: %s", name)
		return "", fmt.Errorf("glsl: %w: %s: %w", ErrSourceMissing, name, err)
	}
	return string(data), nil
}

// compileShader compiles one shader object, the object is deleted again
// when compilation fails.
func (m *Manager) compileShader(t device.ShaderType, filename, source string) (device.Shader, error) {
	s := m.dev.CreateShader(t)
	if ok, infoLog := m.dev.CompileShader(s, source); !ok {
		m.dev.DeleteShader(s)
		return 0, &CompileError{
			Type:     t,
			Filename: filename,
			Log:      infoLog,
			Source:   source,
		}
	}
	return s, nil
}

// compileFailed logs a compile error and terminates the process
// when the configuration asks for it.
func (m *Manager) compileFailed(err error) {
	var cerr *CompileError
	if !errors.As(err, &cerr) {
		return
	}
	entry := m.log.WithFields(logrus.Fields{
		"file": cerr.Filename,
		"type": cerr.Type.String(),
	})
	entry.Errorf("Error in shader compilation of %s!", cerr.Filename)
	entry.Errorf("Info log: %s", cerr.Log)
	entry.Errorf("Shader source:\n%s", cerr.Source)
	if m.cfg.FatalOnCompileError {
		entry.Fatal("Shader compilation errors are fatal, exiting")
	}
}
