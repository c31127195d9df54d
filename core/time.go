// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"time"
)

// NewTime creates a new time service
func NewTime(cfg TimeConfiguration) Time {
	var interval time.Duration
	if cfg.FramesPerSecond == 0 {
		interval = time.Nanosecond
	} else {
		interval = time.Second / (time.Duration)(cfg.FramesPerSecond)
	}

	t := Time{
		fps:       cfg.FramesPerSecond,
		fpsTicker: time.NewTicker(interval),
	}
	if cfg.RefreshInterval > 0 {
		t.refreshTicker = time.NewTicker(cfg.RefreshInterval)
	}
	return t
}

// Time contains all the time services and tickers
type Time struct {
	fps       int
	fpsTicker *time.Ticker

	refreshTicker *time.Ticker
}

// Fps gets the set frames per second
func (t *Time) Fps() int {
	return t.fps
}

// FpsTicker gets the initialized fps ticker
func (t *Time) FpsTicker() *time.Ticker {
	return t.fpsTicker
}

// Refresh returns the channel of the shader refresh ticker.
// It is nil when periodic refresh is disabled, so selecting on it blocks forever.
func (t *Time) Refresh() <-chan time.Time {
	if t.refreshTicker == nil {
		return nil
	}
	return t.refreshTicker.C
}

// Stop stops all tickers
func (t *Time) Stop() {
	t.fpsTicker.Stop()
	if t.refreshTicker != nil {
		t.refreshTicker.Stop()
	}
}
