package lumen

import (
	"fmt"
	"reflect"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type meshBudget struct {
	bytes int
}

type frameCounter struct {
	frames int
}

func TestApp_ChangeStateIsDeferred(t *testing.T) {
	app := &App{stateful: true, initialState: 1, state: 1, finalState: 2}

	app.changeState(2)
	assert.Equal(t, State(2), app.nextState)
	assert.Equal(t, State(1), app.state)
	assert.True(t, app.stateTransitioning)

	app.executeChangeState(app.nextState)
	assert.Equal(t, State(2), app.state)
}

func TestApp_AddResourcesRejectsDuplicateType(t *testing.T) {
	app := newApp()
	budget := &meshBudget{bytes: 1 << 20}
	app.addResources(budget, &frameCounter{})

	assert.Contains(t, app.resources, reflect.TypeOf(budget).Elem())
	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(budget)), func() {
		app.addResources(&meshBudget{})
	})
	got, ok := Resource[meshBudget](app)
	require.True(t, ok)
	assert.Equal(t, 1<<20, got.bytes)
}

func TestApp_SystemReceivesResourcesAndCommands(t *testing.T) {
	app := NewAppBuilder().Build()
	app.addResources(&frameCounter{})
	app.UseSystem(System(func(c *frameCounter, cmd *Commands) {
		c.frames++
		require.NotNil(t, cmd)
	}))

	app.Step()
	app.Step()
	c, _ := Resource[frameCounter](app)
	assert.Equal(t, 2, c.frames)
}

type stageRecorder struct {
	calls []string
}

func TestApp_StagesRunInOrder(t *testing.T) {
	app := NewAppBuilder().Build()
	rec := &stageRecorder{}
	app.addResources(rec)

	app.UseSystem(System(func(r *stageRecorder) { r.calls = append(r.calls, "render") }).InStage(Render))
	app.UseSystem(System(func(r *stageRecorder) { r.calls = append(r.calls, "prelude") }).InStage(Prelude))
	app.UseSystem(System(func(r *stageRecorder) { r.calls = append(r.calls, "update") }))

	app.Step()
	assert.Equal(t, []string{"prelude", "update", "render"}, rec.calls)
}

func TestApp_UseStage(t *testing.T) {
	app := NewAppBuilder().Build()
	physics := Stage{Name: "Physics"}
	app.UseStage(physics, AfterStage(Update))

	idx := slices.IndexFunc(app.stages, func(s Stage) bool { return s.Name == "Physics" })
	require.Greater(t, idx, 0)
	assert.Equal(t, Update, app.stages[idx-1])
	assert.Panics(t, func() { app.UseStage(Stage{Name: "X"}, BeforeStage(Stage{Name: "Missing"})) })
}

func TestApp_UnresolvedSystemDependencyPanics(t *testing.T) {
	app := NewAppBuilder().Build()
	app.UseSystem(System(func(r *stageRecorder) {}))
	assert.Panics(t, app.Step)
}

func TestApp_StatefulRun(t *testing.T) {
	app := NewAppBuilder().UseStates(0, 2).Build()
	rec := &stageRecorder{}
	app.addResources(rec)

	app.UseSystem(System(func(r *stageRecorder) { r.calls = append(r.calls, "enter 0") }).InState(OnEnter(0)))
	app.UseSystem(System(func(r *stageRecorder, cmd *Commands) {
		r.calls = append(r.calls, "execute 0")
		cmd.ChangeState(1)
	}).InState(OnExecute(0)))
	app.UseSystem(System(func(r *stageRecorder) { r.calls = append(r.calls, "exit 0") }).InState(OnExit(0)))
	app.UseSystem(System(func(cmd *Commands) { cmd.ChangeState(2) }).InState(OnExecute(1)))
	app.UseSystem(System(func(r *stageRecorder) { r.calls = append(r.calls, "exit 2") }).InState(OnExit(2)))

	app.Run()
	assert.Equal(t, []string{"enter 0", "execute 0", "exit 0", "exit 2"}, rec.calls)
}

func TestApp_ExitStopsRun(t *testing.T) {
	app := NewAppBuilder().Build()
	rec := &stageRecorder{}
	app.addResources(rec)
	app.UseSystem(System(func(r *stageRecorder, cmd *Commands) {
		r.calls = append(r.calls, "frame")
		if len(r.calls) == 3 {
			cmd.Exit()
		}
	}).InStage(Finale))

	app.Run()
	assert.Len(t, rec.calls, 3)
}

func TestResource(t *testing.T) {
	app := newApp()
	_, ok := Resource[frameCounter](app)
	assert.False(t, ok)

	r := &frameCounter{}
	app.addResources(r)
	got, ok := Resource[frameCounter](app)
	require.True(t, ok)
	assert.Same(t, r, got)
}
