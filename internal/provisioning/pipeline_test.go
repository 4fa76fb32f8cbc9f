package provisioning

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// phaseFunc adapts a function to the Phase interface.
type phaseFunc struct {
	name string
	fn   func(*Context) error
}

func (p phaseFunc) Name() string                 { return p.name }
func (p phaseFunc) Provision(ctx *Context) error { return p.fn(ctx) }

func testContext() (*Context, *MockObserver) {
	observer := NewMockObserver()
	return &Context{
		Context:  context.Background(),
		State:    &State{},
		Observer: observer,
	}, observer
}

func TestRunPhases_ExecutesInOrder(t *testing.T) {
	t.Parallel()
	ctx, observer := testContext()
	var executed []string

	phases := []Phase{
		phaseFunc{"packages", func(*Context) error { executed = append(executed, "packages"); return nil }},
		phaseFunc{"runtime", func(*Context) error { executed = append(executed, "runtime"); return nil }},
		phaseFunc{"workspace", func(*Context) error { executed = append(executed, "workspace"); return nil }},
	}

	err := RunPhases(ctx, phases)

	require.NoError(t, err)
	assert.Equal(t, []string{"packages", "runtime", "workspace"}, executed)
	assert.Len(t, observer.EventsOfType(EventPhaseStarted), 3)
	assert.Len(t, observer.EventsOfType(EventPhaseCompleted), 3)
}

func TestRunPhases_FailFast(t *testing.T) {
	t.Parallel()
	ctx, observer := testContext()
	var executed []string

	phases := []Phase{
		phaseFunc{"packages", func(*Context) error { executed = append(executed, "packages"); return nil }},
		phaseFunc{"runtime", func(*Context) error { return errors.New("install failed") }},
		phaseFunc{"workspace", func(*Context) error { executed = append(executed, "workspace"); return nil }},
	}

	err := RunPhases(ctx, phases)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "runtime phase failed")
	assert.Contains(t, err.Error(), "install failed")
	assert.Equal(t, []string{"packages"}, executed, "phases after the failure must not run")
	require.Len(t, observer.EventsOfType(EventPhaseFailed), 1)
	assert.Equal(t, "runtime", observer.EventsOfType(EventPhaseFailed)[0].Phase)
}

func TestRunPhases_Empty(t *testing.T) {
	t.Parallel()
	ctx, _ := testContext()

	require.NoError(t, RunPhases(ctx, nil))
}
