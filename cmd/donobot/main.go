// Command donobot runs the donation tracking bot and its offline ledger tools.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/donobot/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "donobot:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
