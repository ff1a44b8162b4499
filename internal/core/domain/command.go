package domain

import "io"

// Command is an external process invocation. Nil writers discard output.
type Command struct {
	Name   string
	Args   []string
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}
