// The main package for the snapwalk executable.
package main

import (
	"github.com/snapwalk/snapwalk/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
