package main

import (
	"fmt"
	"os"

	"github.com/sc2kit/s2bank/internal/cli"
)

func main() {
	root := cli.NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "s2bank: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
