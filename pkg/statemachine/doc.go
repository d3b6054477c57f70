// Package statemachine drives a linked state-machine AST.
//
// The AST is the output of a state-machine language service: a root with
// "states" and "events" sequences, an "init" reference to the initial state,
// and per-state "transitions" whose "event" and "state" properties reference
// an event and a target state. A [Machine] walks that tree through the
// resolved references; it never copies or rebuilds the AST.
//
//	root, _ := ast.Deserialize(statemachine.TrafficLightAST)
//	m, _ := statemachine.New(root)
//	m.ChangeState(m.EventByName("switchCapacity"))
//	m.CurrentState() // the RedLight state node
//
// [DefaultProgram] is the source text of the bundled TrafficLight machine and
// [TrafficLightAST] its serialized AST.
package statemachine
