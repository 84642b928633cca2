package zone

import "github.com/jvs-project/zonectl/pkg/model"

// guards lists the states from which each state-guarded operation may run.
// Operations absent from the table are not state-guarded.
var guards = map[model.Operation]model.StateSet{
	model.OpInstall:   {model.StateConfigured},
	model.OpUninstall: {model.StateInstalled, model.StateIncomplete},
	model.OpBoot:      {model.StateInstalled},
	model.OpReady:     {model.StateInstalled},
	model.OpShutdown:  {model.StateRunning},
	model.OpHalt:      {model.StateRunning},
	model.OpReboot:    {model.StateRunning},
	model.OpDelete:    {model.StateConfigured, model.StateIncomplete},
	model.OpClone:     {model.StateInstalled}, // state of the source zone
	model.OpExecute:   {model.StateRunning},
}

// AllowedStates returns the allowed-state set for op and whether op is
// state-guarded at all.
func AllowedStates(op model.Operation) (model.StateSet, bool) {
	s, ok := guards[op]
	return s, ok
}

// CanTransition reports whether op is permitted from state. Unguarded
// operations are permitted from any state.
func CanTransition(op model.Operation, state model.State) bool {
	allowed, guarded := guards[op]
	return !guarded || allowed.Contains(state)
}
