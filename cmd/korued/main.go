// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"flag"
	"os"

	"github.com/devblok/korugl/core"
	"github.com/gotk3/gotk3/gtk"
	log "github.com/sirupsen/logrus"
)

var (
	envFile   = flag.String("env", "", "Read configuration variables from this file")
	shaderDir = flag.String("dir", "", "Shader directory, overrides the configuration")
)

func loadConfiguration() core.Configuration {
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
	// The editor reports broken shaders instead of exiting on them.
	cfg.Renderer.FatalOnCompileError = false
	cfg.Renderer.WatchShaders = true

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	return cfg
}

func main() {
	flag.Parse()
	gtk.Init(nil)
	app, err := buildInterface(newEditor(loadConfiguration()))
	if err != nil {
		log.Fatal(err)
	}
	os.Exit(app.Run([]string{os.Args[0]}))
}
