// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"flag"
	"runtime"

	"github.com/devblok/korugl/core"
	"github.com/devblok/korugl/core/renderer"
	"github.com/devblok/korugl/device"
	"github.com/devblok/korugl/device/opengl"
	glm "github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
)

func init() {
	runtime.LockOSThread()
}

var envFile = flag.String("env", "", "Read configuration variables from this file")

var clearColor = glm.Vec4{0.1, 0.1, 0.12, 1}

func newWindow(cfg renderer.Configuration) *sdl.Window {
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)

	window, err := sdl.CreateWindow("Koru3D",
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.ScreenWidth),
		int32(cfg.ScreenHeight),
		sdl.WINDOW_OPENGL|sdl.WINDOW_RESIZABLE)
	if err != nil {
		log.Fatal(err)
	}
	return window
}

func loadConfiguration() core.Configuration {
	var files []string
	if *envFile != "" {
		files = append(files, *envFile)
	}
	cfg, err := core.LoadConfiguration(files...)
	if err != nil {
		log.Fatal(err)
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(level)
	return cfg
}

func main() {
	flag.Parse()
	configuration := loadConfiguration()

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		log.Fatal(err)
	}
	defer sdl.Quit()

	window := newWindow(configuration.Renderer)
	defer window.Destroy()

	context, err := window.GLCreateContext()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { sdl.GLDeleteContext(context) }()

	dev, err := opengl.NewOpenGLDevice()
	if err != nil {
		log.Fatal(err)
	}
	dev.Viewport(int32(configuration.Renderer.ScreenWidth), int32(configuration.Renderer.ScreenHeight))

	r, err := renderer.New(dev, configuration.Renderer, log.StandardLogger())
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	if _, err := r.LoadShaders(); err != nil {
		log.WithError(err).Error("Not every shader program compiled")
	}

	time := core.NewTime(configuration.Time)
	defer time.Stop()
	exitC := make(chan struct{}, 2)
	lostC := make(chan struct{}, 1)

	loseContext := func() {
		select {
		case lostC <- struct{}{}:
		default:
		}
	}

	refresh := func() {
		if err := r.Refresh(); err != nil {
			log.WithError(err).Error("Shader refresh failed")
		}
	}

EventLoop:
	for {
		select {
		case <-exitC:
			log.Info("Event loop exited")
			break EventLoop
		case <-lostC:
			// A context that reset is gone for good, everything is made
			// again in a fresh one.
			sdl.GLDeleteContext(context)
			if context, err = window.GLCreateContext(); err != nil {
				log.Fatal(err)
			}
			w, h := window.GLGetDrawableSize()
			dev.Viewport(w, h)
			if err := r.ContextLost(); err != nil {
				log.WithError(err).Error("Not every resource was restored")
			}
		case <-r.Changed():
			refresh()
		case <-time.Refresh():
			refresh()
		case <-time.FpsTicker().C:
			for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
				switch et := event.(type) {
				case *sdl.KeyboardEvent:
					if et.Type != sdl.KEYDOWN {
						continue
					}
					switch et.Keysym.Sym {
					case sdl.K_ESCAPE:
						exitC <- struct{}{}
						continue EventLoop
					case sdl.K_F5:
						refresh()
					case sdl.K_F9:
						log.Info("Simulating context loss")
						loseContext()
					}
				case *sdl.RenderEvent:
					if et.Type == sdl.RENDER_DEVICE_RESET || et.Type == sdl.RENDER_TARGETS_RESET {
						loseContext()
					}
				case *sdl.WindowEvent:
					if et.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
						dev.Viewport(et.Data1, et.Data2)
					}
				case *sdl.QuitEvent:
					exitC <- struct{}{}
					continue EventLoop
				}
			}
			draw(dev, r)
			window.GLSwap()
		}
	}
}

func draw(dev device.Device, r *renderer.Renderer) {
	dev.Clear(clearColor)
	for _, p := range r.Shaders().Active() {
		p.Bind()
		p.SetTransforms(glm.Ident4(), glm.Ident4())
	}
	r.Shaders().Unbind()
}
