package linker

import (
	"slices"

	templatelinker "github.com/wippyai/template-linker"
)

// ScopeStack tracks which names are in lexical scope at the current tree
// position, and which lexically-bound names are known to carry only
// safe-to-dynamically-invoke component values.
//
// Entries come in two shapes: block-param frames, pushed at every block
// entry, and component-block markers, attached directly above the frame of a
// block whose invoked component is known to yield components. A marker only
// applies to the body of the block it was attached to: popping the frame
// also pops the marker and fires its exit callback exactly once.
type ScopeStack struct {
	entries []scopeEntry
}

type scopeEntry interface {
	scopeEntry()
}

type paramsFrame struct {
	names []string
}

// componentMarker records the resolution of the invoked component and the
// argument names retroactively proven to be components while walking the
// block body. The list is append-only; closures must not capture traversal
// state here (the marker owns the facts, the exit callback consumes them).
type componentMarker struct {
	resolution             *templatelinker.ComponentResolution
	argumentsAreComponents []string
	onExit                 func(argumentNames []string)
	fired                  bool
}

func (*paramsFrame) scopeEntry()     {}
func (*componentMarker) scopeEntry() {}

// Push enters a block-params frame. names may be empty.
func (s *ScopeStack) Push(names []string) {
	s.entries = append(s.entries, &paramsFrame{names: names})
}

// Pop exits the innermost block-params frame. A component-block marker
// sitting directly above the frame is popped with it, firing its exit
// callback exactly once.
func (s *ScopeStack) Pop() {
	if len(s.entries) == 0 {
		panic("templatelinker: scope stack underflow")
	}
	if m, ok := s.entries[len(s.entries)-1].(*componentMarker); ok {
		s.entries = s.entries[:len(s.entries)-1]
		m.fire()
	}
	if len(s.entries) == 0 {
		panic("templatelinker: scope stack underflow")
	}
	if _, ok := s.entries[len(s.entries)-1].(*paramsFrame); !ok {
		panic("templatelinker: component marker without a block-params frame")
	}
	s.entries = s.entries[:len(s.entries)-1]
}

// MarkComponentBlock attaches a component-block marker above the innermost
// frame. onExit runs once as the block closes, after all argument-forwarding
// facts discovered inside the body have been recorded; it may be nil.
func (s *ScopeStack) MarkComponentBlock(res *templatelinker.ComponentResolution, onExit func(argumentNames []string)) {
	if len(s.entries) == 0 {
		panic("templatelinker: component marker without a block-params frame")
	}
	if _, ok := s.entries[len(s.entries)-1].(*paramsFrame); !ok {
		panic("templatelinker: component marker without a block-params frame")
	}
	s.entries = append(s.entries, &componentMarker{resolution: res, onExit: onExit})
}

// Depth returns the number of block-params frames currently on the stack.
func (s *ScopeStack) Depth() int {
	n := 0
	for _, e := range s.entries {
		if _, ok := e.(*paramsFrame); ok {
			n++
		}
	}
	return n
}

// IsBound reports whether name is a block param anywhere on the stack.
// Markers are ignored.
func (s *ScopeStack) IsBound(name string) bool {
	for _, e := range s.entries {
		if f, ok := e.(*paramsFrame); ok && slices.Contains(f.names, name) {
			return true
		}
	}
	return false
}

// IsSafeComponentPath resolves a dotted path (at most one object hop)
// against adjacent frame/marker pairs, walking from innermost outward. Once
// a frame is found to be the origin of the first segment the search stops:
// an uncovered origin is unsafe, never shadowed onto an outer frame with the
// same name.
//
// When a slot is recorded as forwarding an argument rather than yielding a
// component directly, the forwarded argument name is appended to the
// marker's mutable list and the path is treated as safe; sibling checks for
// that name as an attribute are retroactively component-valued.
func (s *ScopeStack) IsSafeComponentPath(parts []string) bool {
	if len(parts) == 0 || len(parts) > 2 {
		return false
	}
	for i := len(s.entries) - 1; i >= 0; i-- {
		var m *componentMarker
		e := s.entries[i]
		if marked, ok := e.(*componentMarker); ok {
			m = marked
			i--
			e = s.entries[i]
		}
		f := e.(*paramsFrame)
		slot := slices.Index(f.names, parts[0])
		if slot < 0 {
			continue
		}
		if m == nil {
			return false
		}
		return m.covers(parts, slot)
	}
	return false
}

func (m *componentMarker) covers(parts []string, slot int) bool {
	res := m.resolution
	if len(parts) == 1 {
		if slot < len(res.YieldsComponents) && res.YieldsComponents[slot].Component {
			return true
		}
		if slot < len(res.YieldsArguments) {
			if name := res.YieldsArguments[slot].Argument; name != "" {
				m.noteArgument(name)
				return true
			}
		}
		return false
	}

	// Two segments: the slot must yield an object keyed by the second.
	if slot < len(res.YieldsComponents) {
		if res.YieldsComponents[slot].Fields[parts[1]] {
			return true
		}
	}
	if slot < len(res.YieldsArguments) {
		if name := res.YieldsArguments[slot].Fields[parts[1]]; name != "" {
			m.noteArgument(name)
			return true
		}
	}
	return false
}

func (m *componentMarker) noteArgument(name string) {
	if !slices.Contains(m.argumentsAreComponents, name) {
		m.argumentsAreComponents = append(m.argumentsAreComponents, name)
	}
}

func (m *componentMarker) fire() {
	if m.fired {
		return
	}
	m.fired = true
	if m.onExit != nil {
		m.onExit(m.argumentsAreComponents)
	}
}
