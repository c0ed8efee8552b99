package pattern

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Group runs several patterns' Play loops concurrently and gives them
// shared cancellation: if any one pattern's Play returns an error (other
// than context cancellation), every other pattern in the group is
// canceled too, the same coordinated-shutdown shape the pack's
// coprocessor fan-out workers use for their goroutine groups.
type Group struct {
	patterns []*MusicPattern
}

// NewGroup collects patterns to be run together by Play.
func NewGroup(patterns ...*MusicPattern) *Group {
	return &Group{patterns: patterns}
}

// Play runs every pattern to completion (or cancellation) and returns
// the first non-nil error any pattern's Play returned; when ctx is
// canceled, that is the context's cancellation error.
func (g *Group) Play(ctx context.Context) error {
	eg, gctx := errgroup.WithContext(ctx)
	for _, p := range g.patterns {
		p := p
		eg.Go(func() error {
			return p.Play(gctx)
		})
	}
	return eg.Wait()
}

// Pause pauses every pattern in the group at its next step boundary.
func (g *Group) Pause() {
	for _, p := range g.patterns {
		p.Pause()
	}
}

// Resume resumes every paused pattern in the group.
func (g *Group) Resume() {
	for _, p := range g.patterns {
		p.Resume()
	}
}
