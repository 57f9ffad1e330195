// Package main is the entry point for the monsterid CLI tool.
package main

import (
	"github.com/bassjack1/monsterid/internal/cmd"
)

func main() {
	cmd.Execute()
}
