// Command kitty runs catalogs of operation test cases against submissions.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/kitty/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
