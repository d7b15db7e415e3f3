package main

import (
	"os"

	"github.com/jdm64/saphyr/cmd/saphyrc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
