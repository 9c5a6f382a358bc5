// Package cmd provides a transport-agnostic command core: a command is something
// with a name, a trigger and Run(ctx, invocation). How messages reach it
// (Discord, CLI, tests) is up to the adapter that builds the invocation.
package cmd

import (
	"context"
	"strings"
)

// Invocation carries the minimal input any command runner can pass: the raw
// text, its whitespace tokens, and an opaque payload the adapter owns.
type Invocation struct {
	Text string
	Args []string
	Data interface{}
}

// NewInvocation splits text into Args.
func NewInvocation(text string, data interface{}) *Invocation {
	return &Invocation{Text: text, Args: strings.Fields(text), Data: data}
}

// Arg returns the i-th token or "".
func (inv *Invocation) Arg(i int) string {
	if i < 0 || i >= len(inv.Args) {
		return ""
	}
	return inv.Args[i]
}

// Command is the universal contract: identity, trigger and execution.
type Command interface {
	Name() string
	Description() string
	Trigger() Trigger
	Run(ctx context.Context, inv *Invocation) error
}
