package cmd

import "strings"

// Trigger decides whether a message text addresses a command.
type Trigger struct {
	Literal string
	// Contains matches the literal anywhere in the text instead of requiring
	// the whole text to equal it.
	Contains bool
}

// Exact matches text that equals literal.
func Exact(literal string) Trigger { return Trigger{Literal: literal} }

// Substring matches text that contains literal.
func Substring(literal string) Trigger { return Trigger{Literal: literal, Contains: true} }

func (t Trigger) Match(text string) bool {
	if t.Literal == "" {
		return false
	}
	if t.Contains {
		return strings.Contains(text, t.Literal)
	}
	return text == t.Literal
}

func (t Trigger) String() string {
	if t.Contains {
		return "*" + t.Literal + "*"
	}
	return t.Literal
}
