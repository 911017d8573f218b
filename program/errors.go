// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package program

import (
	"errors"
	"fmt"

	"github.com/gogpu/mapview/gfx"
)

// Sentinel errors for the program package. The typed errors below match
// them with errors.Is.
var (
	// ErrNoStages is returned for a program that declares neither stage.
	ErrNoStages = errors.New("program: no shader stages")

	// ErrCompile matches every *CompileError.
	ErrCompile = errors.New("program: compile failed")

	// ErrLink matches every *LinkError.
	ErrLink = errors.New("program: link failed")

	// ErrBinding matches every *BindingError.
	ErrBinding = errors.New("program: unresolved binding")

	// ErrAllocation matches every *AllocationError.
	ErrAllocation = errors.New("program: allocation failed")
)

// CompileError reports a shader stage that failed to compile, or whose
// source could not be resolved.
type CompileError struct {
	Program string
	Stage   gfx.Stage
	Log     string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("program: %s: %s: compile failed:\n%s", e.Program, e.Stage, e.Log)
}

func (e *CompileError) Unwrap() error { return e.Err }

func (e *CompileError) Is(target error) bool { return target == ErrCompile }

// LinkError reports a program that failed to link.
type LinkError struct {
	Program string
	Log     string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("program: %s: link failed: %s", e.Program, e.Log)
}

func (e *LinkError) Is(target error) bool { return target == ErrLink }

// BindingError reports a declared input that did not resolve against the
// linked program.
type BindingError struct {
	Program string
	Kind    gfx.InputKind
	Name    string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("program: %s: could not link %s '%s'", e.Program, e.Kind, e.Name)
}

func (e *BindingError) Is(target error) bool { return target == ErrBinding }

// AllocationError reports a backend resource that could not be created.
type AllocationError struct {
	Program  string
	Resource string
	Err      error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("program: %s: cannot allocate %s: %v", e.Program, e.Resource, e.Err)
}

func (e *AllocationError) Unwrap() error { return e.Err }

func (e *AllocationError) Is(target error) bool { return target == ErrAllocation }
