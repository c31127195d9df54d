// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"fmt"

	"github.com/devblok/korugl/utility/vfs"
	"github.com/gobuffalo/packr"
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	log "github.com/sirupsen/logrus"
)

// StaticResources holds the interface definitions
var StaticResources = vfs.NewBox(packr.NewBox("./resources"))

// textHook copies log entries into the log view of the editor. Entries
// can come from any goroutine, the view is only written from the GTK main loop.
type textHook struct {
	post  func(func())
	write func(string)
}

func newTextHook(buffer *gtk.TextBuffer) *textHook {
	return &textHook{
		post: func(f func()) {
			glib.IdleAdd(func() bool {
				f()
				return false
			})
		},
		write: func(line string) {
			buffer.Insert(buffer.GetEndIter(), line)
		},
	}
}

func (h *textHook) Levels() []log.Level {
	return log.AllLevels[:log.InfoLevel+1]
}

func (h *textHook) Fire(entry *log.Entry) error {
	line, err := entry.String()
	if err != nil {
		return err
	}
	h.post(func() { h.write(line) })
	return nil
}

func object(builder *gtk.Builder, name string) (glib.IObject, error) {
	obj, err := builder.GetObject(name)
	if err != nil {
		return nil, fmt.Errorf("korued: %s: %w", name, err)
	}
	return obj, nil
}

func buildInterface(ed *editor) (*gtk.Application, error) {
	app, err := gtk.ApplicationNew("org.koru3d.korued", glib.APPLICATION_FLAGS_NONE)
	if err != nil {
		return nil, err
	}

	app.Connect("startup", func() {
		log.Info("Application starting")
	})

	app.Connect("activate", func() {
		log.Info("Application activating")
		if err := activate(app, ed); err != nil {
			log.Fatal(err)
		}
	})

	app.Connect("shutdown", func() {
		ed.close()
		log.Info("Application shutting down")
	})
	return app, nil
}

func activate(app *gtk.Application, ed *editor) error {
	resource, err := StaticResources.ReadFile("korued.glade")
	if err != nil {
		return err
	}
	builder, err := gtk.BuilderNew()
	if err != nil {
		return err
	}
	if err := builder.AddFromString(string(resource)); err != nil {
		return err
	}

	obj, err := object(builder, "mainWindow")
	if err != nil {
		return err
	}
	win, ok := obj.(*gtk.Window)
	if !ok {
		return fmt.Errorf("korued: mainWindow is a %T, not a window", obj)
	}

	if obj, err = object(builder, "logView"); err != nil {
		return err
	}
	if view, ok := obj.(*gtk.TextView); ok {
		buffer, err := view.GetBuffer()
		if err != nil {
			return err
		}
		ed.log.AddHook(newTextHook(buffer))
	}

	if obj, err = object(builder, "statusLabel"); err != nil {
		return err
	}
	ed.status, _ = obj.(*gtk.Label)

	if obj, err = object(builder, "viewport"); err != nil {
		return err
	}
	viewport, ok := obj.(*gtk.Box)
	if !ok {
		return fmt.Errorf("korued: viewport is a %T, not a box", obj)
	}

	area, err := gtk.GLAreaNew()
	if err != nil {
		return err
	}
	area.SetRequiredVersion(3, 3)
	area.SetHasDepthBuffer(true)
	area.Connect("realize", ed.realize)
	area.Connect("render", func(_ *gtk.GLArea, _ *gdk.GLContext) bool {
		return ed.render()
	})
	ed.area = area
	viewport.PackStart(area, true, true, 0)

	if obj, err = object(builder, "reloadButton"); err != nil {
		return err
	}
	if button, ok := obj.(*gtk.Button); ok {
		button.Connect("clicked", ed.refresh)
	}

	if obj, err = object(builder, "loseContextButton"); err != nil {
		return err
	}
	if button, ok := obj.(*gtk.Button); ok {
		// Taking the area off screen destroys its context, putting it
		// back creates a fresh one.
		button.Connect("clicked", func() {
			log.Info("Simulating context loss")
			viewport.Remove(area)
			viewport.PackStart(area, true, true, 0)
			area.Show()
		})
	}

	win.Connect("key-press-event", func(_ *gtk.Window, ev *gdk.Event) bool {
		if gdk.EventKeyNewFromEvent(ev).KeyVal() == gdk.KEY_F5 {
			ed.refresh()
			return true
		}
		return false
	})

	glib.TimeoutAdd(250, ed.pollChanges)

	win.SetDefaultSize(800, 600)
	win.ShowAll()
	app.AddWindow(win)
	return nil
}
