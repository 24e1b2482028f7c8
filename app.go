package lumen

import (
	"fmt"
	"reflect"
	"runtime"

	"github.com/gekko3d/lumen/render/core"
	"github.com/gekko3d/lumen/render/scene"
)

type systemFn any

// Module installs resources and systems into an App.
type Module interface {
	Install(app *App, cmd *Commands)
}

type App struct {
	stateful           bool
	stateTransitioning bool
	initialState       State
	finalState         State
	nextState          State
	state              State
	stages             []Stage
	systems            map[string]map[State]map[statePhase][]systemFn
	systemsStateless   map[string][]systemFn
	resources          map[reflect.Type]any
	exitRequested      bool

	// Scene registry changes are buffered and applied between stages, in order.
	pendingSceneOps []pendingSceneOp
}

type pendingSceneOp struct {
	entity *core.Entity
	remove bool
}

func newApp() *App {
	app := &App{
		resources:        make(map[reflect.Type]any),
		systems:          make(map[string]map[State]map[statePhase][]systemFn),
		systemsStateless: make(map[string][]systemFn),
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

// UseModules installs modules immediately, in order.
func (app *App) UseModules(modules ...Module) *App {
	cmd := app.Commands()
	for _, module := range modules {
		module.Install(app, cmd)
	}
	return app
}

// Run executes frames until the final state is reached or an exit is requested.
func (app *App) Run() {
	if app.stateful {
		app.Logger().Infof("Running in stateful mode...")

		app.state = app.initialState
		app.callSystems(app.state, enter)
	} else {
		app.Logger().Infof("Running in stateless mode...")
	}

	for !app.exitRequested {
		app.Step()

		if app.stateful && app.state == app.finalState {
			app.callSystems(app.state, exit)
			break
		}
	}
}

// Step runs every stage once.
func (app *App) Step() {
	app.callSystems(app.state, execute)

	if app.stateful && app.stateTransitioning {
		app.stateTransitioning = false
		app.executeChangeState(app.nextState)
	}
}

func (app *App) callSystems(state State, phase statePhase) {
	for _, stage := range app.stages {
		// Stateless systems only run on execute, before stateful ones.
		if execute == phase {
			for _, system := range app.systemsStateless[stage.Name] {
				app.callSystem(system)
			}
		}

		if app.stateful {
			if systemsInStage, ok := app.systems[stage.Name]; ok {
				if systemsInState, ok := systemsInStage[state]; ok {
					for _, system := range systemsInState[phase] {
						app.callSystem(system)
					}
				}
			}
		}
		app.FlushCommands()
	}
}

func (app *App) changeState(newState State) {
	app.nextState = newState
	app.stateTransitioning = true
}

func (app *App) executeChangeState(newState State) {
	app.callSystems(app.state, exit)
	app.state = newState
	app.callSystems(app.state, enter)
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource returns the resource registered for T.
func Resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

var typeOfCommands = reflect.TypeOf(Commands{})

// resolve maps one system parameter to *Commands or a registered resource.
func (app *App) resolve(param reflect.Type) (reflect.Value, bool) {
	if param.Kind() != reflect.Pointer {
		return reflect.Value{}, false
	}
	if param.Elem() == typeOfCommands {
		return reflect.ValueOf(app.Commands()), true
	}
	resource, ok := app.resources[param.Elem()]
	if !ok {
		return reflect.Value{}, false
	}
	return reflect.ValueOf(resource), true
}

func (app *App) callSystem(system systemFn) {
	fn := reflect.ValueOf(system)
	fnType := fn.Type()

	args := make([]reflect.Value, fnType.NumIn())
	for i := range args {
		arg, ok := app.resolve(fnType.In(i))
		if !ok {
			msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
				runtime.FuncForPC(fn.Pointer()).Name(), fnType, fnType.In(i))
			app.Logger().Errorf("%s", msg)
			panic(msg)
		}
		args[i] = arg
	}
	fn.Call(args)
}

// FlushCommands applies buffered scene registry changes in the order they were
// queued, so the last add or remove of an entity wins.
func (app *App) FlushCommands() {
	if len(app.pendingSceneOps) == 0 {
		return
	}
	ops := app.pendingSceneOps
	app.pendingSceneOps = nil

	s, ok := Resource[scene.Scene](app)
	if !ok {
		app.Logger().Warnf("Dropping %d scene changes: no scene installed", len(ops))
		return
	}
	for _, op := range ops {
		if op.remove {
			s.Remove(op.entity)
		} else {
			s.Add(op.entity)
		}
	}
}
