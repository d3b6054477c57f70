package statemachine

import (
	"github.com/matzehuels/astviz/pkg/ast"
	"github.com/matzehuels/astviz/pkg/errors"
)

// Machine tracks the current state of a state-machine AST.
// A Machine is not safe for concurrent use.
type Machine struct {
	root    *ast.Node
	current *ast.Node
}

// New returns a machine positioned at the state referenced by root's "init"
// property. It fails when that reference is missing or unresolved.
func New(root *ast.Node) (*Machine, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil state machine")
	}
	init := root.Reference("init")
	if init == nil {
		return nil, errors.New(errors.ErrCodeInvalidAST, "state machine %q has no initial state", name(root))
	}
	if init.Ref == nil {
		return nil, errors.New(errors.ErrCodeInvalidAST, "initial state %s does not resolve", init.Path)
	}
	return &Machine{root: root, current: init.Ref}, nil
}

// Root returns the state-machine AST.
func (m *Machine) Root() *ast.Node { return m.root }

// NextState returns the target of the current state's transition on event,
// or nil when the current state has no such transition.
func (m *Machine) NextState(event *ast.Node) *ast.Node {
	if event == nil {
		return nil
	}
	for _, t := range m.current.Children("transitions") {
		if ev := t.Reference("event"); ev != nil && ev.Ref == event {
			if target := t.Reference("state"); target != nil {
				return target.Ref
			}
			return nil
		}
	}
	return nil
}

// States returns the machine's states in declaration order.
func (m *Machine) States() []*ast.Node { return m.root.Children("states") }

// Events returns the machine's events in declaration order.
func (m *Machine) Events() []*ast.Node { return m.root.Children("events") }

// SetState moves the machine to state unconditionally.
func (m *Machine) SetState(state *ast.Node) { m.current = state }

// ChangeState follows the current state's transition on event.
// It reports whether the machine moved; without a transition it stays put.
func (m *Machine) ChangeState(event *ast.Node) bool {
	next := m.NextState(event)
	if next == nil {
		return false
	}
	m.current = next
	return true
}

// CurrentState returns the state the machine is in.
func (m *Machine) CurrentState() *ast.Node { return m.current }

// IsCurrentState reports whether the machine is in state.
func (m *Machine) IsCurrentState(state *ast.Node) bool { return m.current == state }

// IsEventEnabled reports whether the current state has a transition on event.
func (m *Machine) IsEventEnabled(event *ast.Node) bool { return m.NextState(event) != nil }

// EnabledEvents returns the events the current state has transitions for,
// in declaration order.
func (m *Machine) EnabledEvents() []*ast.Node {
	var out []*ast.Node
	for _, ev := range m.Events() {
		if m.IsEventEnabled(ev) {
			out = append(out, ev)
		}
	}
	return out
}

// EventByName returns the first event called name, or nil.
func (m *Machine) EventByName(n string) *ast.Node { return byName(m.Events(), n) }

// StateByName returns the first state called name, or nil.
func (m *Machine) StateByName(n string) *ast.Node { return byName(m.States(), n) }

// Run fires the named events in order and returns the names of the states
// visited, starting with the current one. Events without a transition leave
// the state unchanged; unknown event names are an error.
func (m *Machine) Run(events ...string) ([]string, error) {
	visited := []string{name(m.current)}
	for _, e := range events {
		ev := m.EventByName(e)
		if ev == nil {
			return visited, errors.New(errors.ErrCodeNotFound, "unknown event %q", e)
		}
		m.ChangeState(ev)
		visited = append(visited, name(m.current))
	}
	return visited, nil
}

func byName(nodes []*ast.Node, n string) *ast.Node {
	for _, node := range nodes {
		if name(node) == n {
			return node
		}
	}
	return nil
}

// name returns the "name" property of n, or "" when it has none.
func name(n *ast.Node) string {
	if n == nil {
		return ""
	}
	s, _ := n.String("name")
	return s
}

// Name returns the "name" property of a state or event node.
func Name(n *ast.Node) string { return name(n) }
