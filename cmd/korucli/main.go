// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/devblok/korugl/core"
	"github.com/devblok/korugl/core/glsl"
	"github.com/devblok/korugl/core/renderer"
	"github.com/devblok/korugl/device"
	"github.com/devblok/korugl/device/opengl"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
)

func init() {
	runtime.LockOSThread()
}

var (
	envFile   = flag.String("env", "", "Read configuration variables from this file")
	shaderDir = flag.String("dir", "", "Shader directory, overrides the configuration")
	archive   = flag.String("archive", "", "Shader archive, overrides the configuration")
	manifest  = flag.String("manifest", "", "Shader manifest, overrides the configuration")
)

// Report is printed as JSON once every program was compiled
type Report struct {
	Device   device.Info     `json:"device"`
	Programs []ProgramResult `json:"programs"`
}

// ProgramResult is the outcome of compiling one program
type ProgramResult struct {
	Name     string `json:"name"`
	Vertex   string `json:"vertex"`
	Fragment string `json:"fragment"`
	Compiled bool   `json:"compiled"`
	Error    string `json:"error,omitempty"`
}

func configuration() renderer.Configuration {
	var files []string
	if *envFile != "" {
		files = append(files, *envFile)
	}
	cfg, err := core.LoadConfiguration(files...)
	if err != nil {
		log.Fatal(err)
	}
	if *shaderDir != "" {
		cfg.Renderer.ShaderDirectory = *shaderDir
	}
	if *archive != "" {
		cfg.Renderer.ShaderArchive = *archive
	}
	if *manifest != "" {
		cfg.Renderer.ShaderManifest = *manifest
	}
	// Every program is reported, a broken one must not end the run.
	cfg.Renderer.FatalOnCompileError = false
	cfg.Renderer.WatchShaders = false
	return cfg.Renderer
}

// programErrors maps the programs to their part of the joined errors
func programErrors(err error) map[string]error {
	errs := map[string]error{}
	var joined interface{ Unwrap() []error }
	parts := []error{err}
	if errors.As(err, &joined) {
		parts = joined.Unwrap()
	}
	for _, e := range parts {
		var (
			cerr *glsl.CompileError
			lerr *glsl.LinkError
		)
		switch {
		case errors.As(e, &cerr):
			errs[cerr.Filename] = e
		case errors.As(e, &lerr):
			errs[lerr.Program] = e
		}
	}
	return errs
}

func main() {
	flag.Parse()
	log.SetOutput(os.Stderr)
	cfg := configuration()

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		log.Fatal(err)
	}
	defer sdl.Quit()

	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	window, err := sdl.CreateWindow("korucli", 0, 0, 1, 1, sdl.WINDOW_OPENGL|sdl.WINDOW_HIDDEN)
	if err != nil {
		log.Fatal(err)
	}
	defer window.Destroy()

	context, err := window.GLCreateContext()
	if err != nil {
		log.Fatal(err)
	}
	defer sdl.GLDeleteContext(context)

	dev, err := opengl.NewOpenGLDevice()
	if err != nil {
		log.Fatal(err)
	}

	r, err := renderer.New(dev, cfg, log.StandardLogger())
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	programs, loadErr := r.LoadShaders()
	if programs == nil && loadErr != nil {
		log.Fatal(loadErr)
	}
	failures := programErrors(loadErr)

	report := Report{Device: dev.Info()}
	for _, p := range programs {
		result := ProgramResult{
			Name:     p.Name(),
			Vertex:   p.VertexPath(),
			Fragment: p.FragmentPath(),
			Compiled: p.Compiled(),
		}
		for _, key := range []string{p.Name(), p.VertexPath(), p.FragmentPath()} {
			if err, ok := failures[key]; ok {
				result.Error = err.Error()
				break
			}
		}
		if !result.Compiled && result.Error == "" {
			result.Error = "source missing"
		}
		report.Programs = append(report.Programs, result)
	}

	bytes, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s\n", bytes)

	if loadErr != nil {
		r.Close()
		os.Exit(1)
	}
}
