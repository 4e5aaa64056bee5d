// Command holical builds holiday calendars from rule tables.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/holical/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil && !cli.Reported(err) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
