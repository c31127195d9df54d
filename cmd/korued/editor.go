// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"fmt"

	"github.com/devblok/korugl/core"
	"github.com/devblok/korugl/core/glsl"
	"github.com/devblok/korugl/core/renderer"
	"github.com/devblok/korugl/device"
	"github.com/devblok/korugl/device/opengl"
	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/gotk3/gotk3/gtk"
	log "github.com/sirupsen/logrus"
)

var clearColor = glm.Vec4{0.1, 0.1, 0.12, 1}

func newEditor(cfg core.Configuration) *editor {
	return &editor{
		cfg: cfg,
		log: log.StandardLogger(),
	}
}

// editor drives a renderer inside a GLArea. GTK calls every handler on
// the main thread, which is also the thread the GL context belongs to.
type editor struct {
	cfg core.Configuration
	log *log.Logger

	area   *gtk.GLArea
	status *gtk.Label

	dev      device.Device
	renderer *renderer.Renderer
}

// realize runs whenever the area got a new GL context. The first one
// creates the renderer, every later one restores it.
func (e *editor) realize() {
	e.area.MakeCurrent()
	if err := e.area.GetError(); err != nil {
		e.log.WithError(err).Error("GL context creation failed")
		return
	}

	if e.renderer != nil {
		e.report(e.renderer.ContextLost(), "Context restored")
		return
	}

	dev, err := opengl.NewOpenGLDevice()
	if err != nil {
		e.log.WithError(err).Error("OpenGL initialisation failed")
		return
	}
	r, err := renderer.New(dev, e.cfg.Renderer, e.log)
	if err != nil {
		e.log.WithError(err).Error("Renderer creation failed")
		return
	}
	e.dev = dev
	e.renderer = r

	programs, err := r.LoadShaders()
	e.report(err, fmt.Sprintf("Loaded %d programs", len(programs)))
}

func (e *editor) render() bool {
	if e.renderer == nil {
		return false
	}
	e.dev.Clear(clearColor)
	for _, p := range e.renderer.Shaders().Active() {
		p.Bind()
		p.SetTransforms(glm.Ident4(), glm.Ident4())
	}
	e.renderer.Shaders().Unbind()
	return true
}

// refresh recompiles changed programs
func (e *editor) refresh() {
	if e.renderer == nil {
		return
	}
	e.area.MakeCurrent()
	e.report(e.renderer.Refresh(), "Programs up to date")
	e.area.QueueRender()
}

// pollChanges is called from a GLib timeout, it never blocks.
func (e *editor) pollChanges() bool {
	if e.renderer == nil {
		return true
	}
	select {
	case <-e.renderer.Changed():
		e.refresh()
	default:
	}
	return true
}

func (e *editor) report(err error, success string) {
	if e.status == nil {
		return
	}
	if err == nil {
		e.status.SetText(success)
		return
	}
	e.status.SetText(fmt.Sprintf("%s: %v", glsl.KindOf(err), err))
}

func (e *editor) close() {
	if e.renderer == nil {
		return
	}
	e.area.MakeCurrent()
	if err := e.renderer.Close(); err != nil {
		e.log.WithError(err).Warn("Renderer did not close cleanly")
	}
	e.renderer = nil
}
