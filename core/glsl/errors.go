// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package glsl

import (
	"errors"
	"fmt"

	"github.com/devblok/korugl/device"
)

// package errors
var (
	ErrSourceMissing = errors.New("shader source missing")
	ErrCompile       = errors.New("shader compilation failed")
	ErrLink          = errors.New("program link failed")
	ErrDestroyed     = errors.New("program was destroyed")
)

// CompileError describes a shader that did not compile.
type CompileError struct {
	Type     device.ShaderType
	Filename string
	Log      string
	Source   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("glsl: %s shader %s: %s", e.Type, e.Filename, e.Log)
}

// Unwrap makes errors.Is(err, ErrCompile) hold.
func (e *CompileError) Unwrap() error {
	return ErrCompile
}

// LinkError describes a program whose shaders compiled but did not link.
type LinkError struct {
	Program string
	Log     string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("glsl: linking %s: %s", e.Program, e.Log)
}

// Unwrap makes errors.Is(err, ErrLink) hold.
func (e *LinkError) Unwrap() error {
	return ErrLink
}

// ErrorKind classifies a failed compilation by what it left behind.
type ErrorKind int

// Error kinds
const (
	// KindNone is the kind of a nil error
	KindNone ErrorKind = iota

	// KindRecoverable failures left the previous program untouched,
	// typically a source file that could not be read.
	KindRecoverable

	// KindRollback failures created GPU objects that were destroyed again,
	// the previous program is untouched.
	KindRollback

	// KindFatal failures are programmer errors in the shader source.
	KindFatal
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindRecoverable:
		return "recoverable"
	case KindRollback:
		return "rollback"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// KindOf returns the kind of err. Errors joined together take the
// most severe kind of their parts.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrCompile):
		return KindFatal
	case errors.Is(err, ErrLink):
		return KindRollback
	default:
		return KindRecoverable
	}
}
