package datastore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/strrl/lain/internal/query"
)

func TestExecutorCancelsOlderStats(t *testing.T) {
	s := NewStore(nil)
	e := NewExecutor()

	projects := s.Begin(KindProjects, query.Query{})
	pctx := e.Context(context.Background(), projects)
	older := s.Begin(KindStats, query.Query{})
	octx := e.Context(context.Background(), older)
	newer := s.Begin(KindStats, query.Query{})
	nctx := e.Context(context.Background(), newer)

	assert.ErrorIs(t, octx.Err(), context.Canceled)
	assert.NoError(t, nctx.Err())
	assert.NoError(t, pctx.Err(), "projects fetch is not superseded by stats")
	assert.Equal(t, 2, e.Active())

	e.Done(newer)
	assert.ErrorIs(t, nctx.Err(), context.Canceled)
	assert.Equal(t, 1, e.Active())
}

func TestExecutorCancelAll(t *testing.T) {
	s := NewStore(nil)
	e := NewExecutor()
	req := s.Begin(KindProjects, query.Query{})
	ctx := e.Context(context.Background(), req)

	e.Done(s.Begin(KindStats, query.Query{}))
	assert.NoError(t, ctx.Err(), "Done on an unknown request is a no-op")

	e.CancelAll()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.Zero(t, e.Active())

	again := e.Context(context.Background(), s.Begin(KindStats, query.Query{}))
	assert.NoError(t, again.Err(), "CancelAll does not close the executor")
}

func TestExecutorClose(t *testing.T) {
	s := NewStore(nil)
	e := NewExecutor()
	a := e.Context(context.Background(), s.Begin(KindStats, query.Query{}))
	b := e.Context(context.Background(), s.Begin(KindProjects, query.Query{}))

	e.Close()
	e.Close()

	assert.Error(t, a.Err())
	assert.Error(t, b.Err())
	late := e.Context(context.Background(), s.Begin(KindStats, query.Query{}))
	assert.Error(t, late.Err(), "closed executor hands out cancelled contexts")
	assert.Zero(t, e.Active())
}

func TestExecutorFollowsParent(t *testing.T) {
	s := NewStore(nil)
	e := NewExecutor()
	parent, cancel := context.WithCancel(context.Background())
	ctx := e.Context(parent, s.Begin(KindStats, query.Query{}))

	cancel()
	assert.Error(t, ctx.Err())
}
