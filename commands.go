package lumen

import "github.com/gekko3d/lumen/render/core"

// Commands is handed to modules and systems. Scene changes are deferred until
// the current stage finishes.
type Commands struct {
	app *App
}

func (cmd *Commands) ChangeState(newState State) *Commands {
	cmd.app.changeState(newState)
	return cmd
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) UseSystem(system systemScheduleBuilder) *Commands {
	cmd.app.UseSystem(system)
	return cmd
}

// AddToScene queues entities for registration with the scene resource.
func (cmd *Commands) AddToScene(entities ...*core.Entity) *Commands {
	for _, e := range entities {
		cmd.app.pendingSceneOps = append(cmd.app.pendingSceneOps, pendingSceneOp{entity: e})
	}
	return cmd
}

// RemoveFromScene queues entities for removal from the scene resource.
func (cmd *Commands) RemoveFromScene(entities ...*core.Entity) *Commands {
	for _, e := range entities {
		cmd.app.pendingSceneOps = append(cmd.app.pendingSceneOps, pendingSceneOp{entity: e, remove: true})
	}
	return cmd
}

// Exit stops Run after the current frame.
func (cmd *Commands) Exit() {
	cmd.app.exitRequested = true
}
