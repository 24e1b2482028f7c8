package lumen

import "fmt"

// AppBuilder collects modules and state configuration. Nothing is installed
// until Build, so modules see the full stage list regardless of the order
// UseModule was called in relative to UseStates.
type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{app: newApp()}
}

// UseStates makes the app stateful. States run from initial to final inclusive.
func (b *AppBuilder) UseStates(initialState State, finalState State) *AppBuilder {
	if finalState < initialState {
		panic(fmt.Sprintf("final state %d precedes initial state %d", finalState, initialState))
	}
	b.app.stateful = true
	b.app.initialState = initialState
	b.app.finalState = finalState
	b.app.state = initialState
	b.app.nextState = initialState
	return b
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)
	return b
}

// Build creates the default stages and installs modules in the order given.
func (b *AppBuilder) Build() *App {
	app := b.app
	app.stages = append(app.stages[:0], DefaultStages...)
	for _, stage := range app.stages {
		app.initStatefulStage(stage)
	}
	app.UseModules(b.modules...)
	return app
}
