package statemachine

import (
	_ "embed"
	"strings"

	"github.com/lithammer/dedent"
)

// TrafficLightAST is the serialized AST of [DefaultProgram].
//
//go:embed trafficlight.ast.json
var TrafficLightAST []byte

// DefaultProgram is the source of the sample TrafficLight state machine.
var DefaultProgram = strings.TrimPrefix(dedent.Dedent(`
	// Create your own statemachine here!
	statemachine TrafficLight

	events
	    switchCapacity
	    next

	initialState PowerOff

	state PowerOff
	    switchCapacity => RedLight
	end

	state RedLight
	    switchCapacity => PowerOff
	    next => GreenLight
	end

	state YellowLight
	    switchCapacity => PowerOff
	    next => RedLight
	end

	state GreenLight
	    switchCapacity => PowerOff
	    next => YellowLight
	end`), "\n")
