// Package command implements the tick-driven command lifecycle shared by
// every motion primitive.
//
// A [Command] moves through Idle -> Running -> {Finished, Interrupted}. The
// [Runner] owns that state machine for a single instance and guarantees
// each hook fires the right number of times; [Sequence] composes commands
// so that nesting never changes a child's lifecycle.
//
// Commands never block: waiting is expressed by not yet reporting
// IsFinished.
package command

import (
	"fmt"
	"strings"
)

// Command is a unit of re-entrant control logic ticked by a scheduler.
//
// Initialize is called once when the command starts and must establish all
// baseline state. Execute is called once per tick. IsFinished is polled
// after every Execute and must not have side effects. Exactly one of End
// or Interrupted is called when the command leaves Running.
type Command interface {
	Initialize()
	Execute()
	IsFinished() bool
	End()
	Interrupted()
}

// Named commands report a display name.
type Named interface {
	Name() string
}

// NameOf returns c's Name when it has one, otherwise its type name.
func NameOf(c Command) string {
	if n, ok := c.(Named); ok {
		return n.Name()
	}
	name := fmt.Sprintf("%T", c)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimPrefix(name, "*")
}

type State int

const (
	StateIdle State = iota
	StateRunning
	StateFinished
	StateInterrupted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	case StateInterrupted:
		return "interrupted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether s is Finished or Interrupted.
func (s State) Terminal() bool {
	return s == StateFinished || s == StateInterrupted
}
