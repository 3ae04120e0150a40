package undo

// Command is a single reversible edit. Exec performs the mutation for the
// first time and must capture enough state for replay; Undo and Redo reapply
// the prior or next state and may alternate any number of times.
type Command interface {
	Exec()
	Undo()
	Redo()
}

// Stable marks a command that must never be combined with its neighbors by
// callers that batch edits externally. The stack itself never merges.
type Stable interface {
	Command
	Stable()
}

// Listener observes one history entry. It is notified once per entry on
// execute, undo, and redo, regardless of how many commands the entry holds.
type Listener interface {
	OnExecuted()
	OnUndone()
	OnRedone()
}

// Delegate wraps an exec/undo closure pair into a Command. Redo replays the
// exec closure.
type Delegate struct {
	exec func()
	undo func()
}

// NewDelegate builds a Delegate from the given closures. Both must be non-nil.
func NewDelegate(exec, undo func()) *Delegate {
	if exec == nil || undo == nil {
		panic("undo: delegate requires exec and undo closures")
	}
	return &Delegate{exec: exec, undo: undo}
}

func (d *Delegate) Exec() { d.exec() }

func (d *Delegate) Undo() { d.undo() }

func (d *Delegate) Redo() { d.exec() }
