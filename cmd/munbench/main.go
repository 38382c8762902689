package main

import (
	"os"

	"github.com/mun-lang/munbench/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
