// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package lost coordinates recovery after the rendering context is lost.
//
// Every object that owns GPU resident state registers itself with a Manager
// for as long as it lives. When the platform reports that the context is gone
// (backgrounding, device reset, driver reset) the host calls Manager.Lost once
// and every registered Holder is told to recreate its resources.
// All methods must be called from the thread that owns the rendering context.
package lost

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Holder is implemented by anything that owns GPU resources which have to
// be recreated after a context loss. Implementations must be comparable,
// others are ignored with a warning. Pointer receivers are the usual choice.
type Holder interface {

	// GLLost is called after the context was lost. The old handles are
	// already invalid and must be discarded, not deleted.
	GLLost() error
}

// NewManager creates an initialised Manager.
// A nil logger means the logrus standard logger.
func NewManager(logger logrus.FieldLogger) *Manager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	m := &Manager{
		log: logger,
	}
	m.Init()
	return m
}

// Manager keeps the set of registered holders.
type Manager struct {
	log     logrus.FieldLogger
	holders map[Holder]struct{}
}

// Init prepares the manager for use. Calling it on an
// initialised manager keeps the registered holders.
func (m *Manager) Init() {
	if m.holders != nil {
		return
	}
	m.holders = map[Holder]struct{}{}
}

// Shutdown releases the manager. Holders that are still registered
// are dropped without being notified.
func (m *Manager) Shutdown() {
	if m.holders == nil {
		return
	}
	if n := len(m.holders); n > 0 {
		m.log.WithField("holders", n).Warn("Lost manager shut down with registered holders")
	}
	m.holders = nil
}

// Register adds h to the managed set. Registering a holder
// twice keeps a single entry.
func (m *Manager) Register(h Holder) {
	if h == nil {
		m.log.Warn("Ignoring registration of a nil holder")
		return
	}
	if m.holders == nil {
		m.log.WithField("holder", fmt.Sprintf("%T", h)).Warn("Ignoring registration on a shut down lost manager")
		return
	}
	if !hashable(h) {
		m.log.WithField("holder", fmt.Sprintf("%T", h)).Warn("Ignoring registration of a holder that is not comparable")
		return
	}
	m.holders[h] = struct{}{}
}

// hashable reports whether h can be a map key. Values holding
// slices, maps or funcs cannot.
func hashable(h Holder) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return h == h
}

// Unregister removes h from the managed set, absent holders are ignored.
func (m *Manager) Unregister(h Holder) {
	if h == nil || m.holders == nil || !hashable(h) {
		return
	}
	delete(m.holders, h)
}

// Contains reports whether h is registered.
func (m *Manager) Contains(h Holder) bool {
	if h == nil || m.holders == nil || !hashable(h) {
		return false
	}
	_, ok := m.holders[h]
	return ok
}

// Len returns the number of registered holders.
func (m *Manager) Len() int {
	return len(m.holders)
}

// Lost notifies every registered holder that the context was lost.
// It returns after every holder has been asked to recreate its resources.
// A failing or panicking holder does not stop the others from being
// notified, all failures are returned joined together.
func (m *Manager) Lost() error {
	m.log.WithField("holders", len(m.holders)).Info("Context lost, restoring GPU resources")
	if len(m.holders) == 0 {
		return nil
	}

	// Holders may unregister while being notified.
	snapshot := make([]Holder, 0, len(m.holders))
	for h := range m.holders {
		snapshot = append(snapshot, h)
	}

	var errs []error
	for _, h := range snapshot {
		if err := notify(h); err != nil {
			m.log.WithError(err).WithField("holder", fmt.Sprintf("%T", h)).Error("Holder failed to restore")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func notify(h Holder) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lost: %T panicked: %v", h, r)
		}
	}()
	return h.GLLost()
}
