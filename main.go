package main

import (
	"fmt"
	"os"

	"github.com/zeu5/carsim/commands"
)

// main entry point to the simulator commands
func main() {
	rootCommand := commands.GetRootCommand()
	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
