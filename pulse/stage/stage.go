// Package stage runs an ordered list of rendering stages into a single frame.
package stage

import (
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/cubic/pulse"
)

// Stage records its commands into the frame. Render must not finish the frame.
type Stage interface {
	Render(frame *pulse.Frame) error

	// Release frees all resources the stage allocated during setup.
	Release()
}

// SetupFunc creates a stage from its parameters. Parameters are captured
// once and never change afterward.
type SetupFunc[P any] func(ctx *pulse.Context, params P) (Stage, error)

type namedStage struct {
	name  string
	stage Stage
}

// Builder collects stages in the order they will run.
type Builder struct {
	ctx    *pulse.Context
	stages []namedStage
	err    error
}

func NewBuilder(ctx *pulse.Context) *Builder {
	return &Builder{ctx: ctx}
}

// Add sets up a stage and appends it to the pipeline. If setup fails, all
// further calls are ignored and Build reports the error.
func Add[P any](b *Builder, name string, setup SetupFunc[P], params P) *Builder {
	if b.err != nil {
		return b
	}

	st, err := setup(b.ctx, params)
	if err != nil {
		b.err = fmt.Errorf("setup stage %q: %w", name, err)
		return b
	}

	slog.Debug("Add render stage", slog.String("name", name), slog.Int("index", len(b.stages)))

	b.stages = append(b.stages, namedStage{name: name, stage: st})

	return b
}

// Build seals the stage list. On error, every stage set up so far is released.
func (b *Builder) Build() (*Pipeline, error) {
	if b.err != nil {
		for _, st := range b.stages {
			st.stage.Release()
		}

		b.stages = nil
		return nil, b.err
	}

	stages := b.stages
	b.stages = nil

	return &Pipeline{stages: stages}, nil
}

// Pipeline is an immutable, ordered list of stages.
type Pipeline struct {
	stages []namedStage
}

// Render runs every stage in registration order. The first failing
// stage aborts the frame.
func (p *Pipeline) Render(frame *pulse.Frame) error {
	for _, st := range p.stages {
		if err := st.stage.Render(frame); err != nil {
			return fmt.Errorf("render stage %q: %w", st.name, err)
		}
	}

	return nil
}

// Len returns the number of stages.
func (p *Pipeline) Len() int {
	return len(p.stages)
}

func (p *Pipeline) Release() {
	for _, st := range p.stages {
		st.stage.Release()
	}

	p.stages = nil
}
