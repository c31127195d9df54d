// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package glsl_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/devblok/korugl/core/glsl"
	"github.com/devblok/korugl/core/lost"
	"github.com/devblok/korugl/device/devicetest"
	"github.com/devblok/korugl/utility/vfs"
)

const vertexSource = `#version 330 core
in vec3 a_position;
in vec4 a_color;
uniform mat4 u_world;
uniform mat4 u_worldviewproj;
out vec4 v_color;
void main() {
	v_color = a_color;
	gl_Position = u_worldviewproj * vec4(a_position, 1.0);
}
`

const fragmentSource = `#version 330 core
uniform sampler2D sampler0;
uniform vec4 u_fog;
in vec4 v_color;
out vec4 fragColor;
void main() {
	fragColor = v_color * texture(sampler0, vec2(0.0)) + u_fog;
}
`

type fixture struct {
	dir      string
	dev      *devicetest.Device
	registry *lost.Manager
	manager  *glsl.Manager
	logger   *logrus.Logger
	hook     *test.Hook
}

func newFixture(c *qt.C, cfg glsl.Configuration) *fixture {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	f := &fixture{
		dir:    c.TempDir(),
		dev:    devicetest.New(),
		logger: logger,
		hook:   hook,
	}
	f.registry = lost.NewManager(logger)
	f.manager = glsl.NewManager(f.dev, vfs.Dir(f.dir), f.registry, cfg, logger)
	return f
}

func (f *fixture) write(c *qt.C, name, source string) {
	path := filepath.Join(f.dir, filepath.FromSlash(name))
	c.Assert(os.MkdirAll(filepath.Dir(path), 0755), qt.IsNil)
	c.Assert(os.WriteFile(path, []byte(source), 0644), qt.IsNil)
}

func (f *fixture) remove(c *qt.C, name string) {
	c.Assert(os.Remove(filepath.Join(f.dir, filepath.FromSlash(name))), qt.IsNil)
}

// touch moves the modification time of name an hour forward per call.
func (f *fixture) touch(c *qt.C, name string, hours int) {
	t := time.Now().Add(time.Duration(hours) * time.Hour)
	c.Assert(os.Chtimes(filepath.Join(f.dir, filepath.FromSlash(name)), t, t), qt.IsNil)
}

func (f *fixture) entries(level logrus.Level) []*logrus.Entry {
	var entries []*logrus.Entry
	for _, e := range f.hook.AllEntries() {
		if e.Level == level {
			entries = append(entries, e)
		}
	}
	return entries
}

func TestKindOf(t *testing.T) {
	c := qt.New(t)

	c.Assert(glsl.KindOf(nil), qt.Equals, glsl.KindNone)
	c.Assert(glsl.KindOf(os.ErrNotExist), qt.Equals, glsl.KindRecoverable)
	c.Assert(glsl.KindOf(&glsl.CompileError{Filename: "a.vert"}), qt.Equals, glsl.KindFatal)
	c.Assert(glsl.KindOf(&glsl.LinkError{Program: "a"}), qt.Equals, glsl.KindRollback)
	c.Assert(glsl.KindOf(glsl.ErrDestroyed), qt.Equals, glsl.KindRecoverable)
	c.Assert(glsl.KindFatal.String(), qt.Equals, "fatal")
}

func TestKindOfJoined(t *testing.T) {
	c := qt.New(t)

	err := errors.Join(&glsl.LinkError{Program: "a"}, &glsl.CompileError{Filename: "b.frag"})
	c.Assert(glsl.KindOf(err), qt.Equals, glsl.KindFatal)
}
