package undo

// entry is one undoable unit: a single command or a labeled macro group.
type entry struct {
	label     string
	commands  []Command
	listeners []Listener
}

func (e *entry) undo() {
	for i := len(e.commands) - 1; i >= 0; i-- {
		e.commands[i].Undo()
	}
	for _, l := range e.listeners {
		l.OnUndone()
	}
}

func (e *entry) redo() {
	for _, c := range e.commands {
		c.Redo()
	}
	for _, l := range e.listeners {
		l.OnRedone()
	}
}

// Stack is an ordered edit history with a cursor. Pushed commands execute
// immediately and ownership transfers to the stack. The stack is confined to
// the mutation thread; it performs no locking of its own.
type Stack struct {
	entries []*entry
	cursor  int
	macro   *entry
	limit   int
}

// NewStack creates a history that retains at most limit entries. A
// non-positive limit keeps the default depth.
func NewStack(limit int) *Stack {
	if limit <= 0 {
		limit = 100
	}
	return &Stack{limit: limit}
}

// Push executes the command once and records it. A nil command is "nothing to
// do" and is ignored. Pushing drops any entries ahead of the cursor.
func (s *Stack) Push(c Command) {
	if c == nil {
		return
	}
	c.Exec()
	if s.macro != nil {
		s.macro.commands = append(s.macro.commands, c)
		return
	}
	s.record(&entry{commands: []Command{c}})
}

// BeginMacro opens a labeled group. Commands pushed before EndMacro form one
// undoable unit.
func (s *Stack) BeginMacro(label string) {
	if s.macro != nil {
		panic("undo: macro already open")
	}
	s.macro = &entry{label: label}
}

// GrabListener attaches a listener to the open macro. The listener's
// OnExecuted fires when the macro closes non-empty.
func (s *Stack) GrabListener(l Listener) {
	if s.macro == nil {
		panic("undo: no open macro")
	}
	if l != nil {
		s.macro.listeners = append(s.macro.listeners, l)
	}
}

// EndMacro closes the open group. An empty macro is a no-op and leaves no
// history entry.
func (s *Stack) EndMacro() {
	m := s.macro
	if m == nil {
		panic("undo: no open macro")
	}
	s.macro = nil
	if len(m.commands) == 0 {
		return
	}
	s.record(m)
	for _, l := range m.listeners {
		l.OnExecuted()
	}
}

func (s *Stack) record(e *entry) {
	s.entries = append(s.entries[:s.cursor], e)
	s.cursor = len(s.entries)
	if len(s.entries) > s.limit {
		over := len(s.entries) - s.limit
		s.entries = append(s.entries[:0], s.entries[over:]...)
		s.cursor -= over
	}
}

// CanUndo reports whether an entry sits behind the cursor.
func (s *Stack) CanUndo() bool {
	return s.cursor > 0 && s.macro == nil
}

// CanRedo reports whether an entry sits ahead of the cursor.
func (s *Stack) CanRedo() bool {
	return s.cursor < len(s.entries) && s.macro == nil
}

// Undo reverses the entry behind the cursor and returns its label, or ""
// when there is nothing to undo.
func (s *Stack) Undo() string {
	if !s.CanUndo() {
		return ""
	}
	s.cursor--
	e := s.entries[s.cursor]
	e.undo()
	return e.label
}

// Redo reapplies the entry ahead of the cursor and returns its label, or ""
// when there is nothing to redo.
func (s *Stack) Redo() string {
	if !s.CanRedo() {
		return ""
	}
	e := s.entries[s.cursor]
	s.cursor++
	e.redo()
	return e.label
}

// Clear drops the whole history. Panics if a macro is open.
func (s *Stack) Clear() {
	if s.macro != nil {
		panic("undo: macro still open")
	}
	s.entries = nil
	s.cursor = 0
}
