// Command cosmoclicker plays the idle space economy from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/cosmoclicker/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
