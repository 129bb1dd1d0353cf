package main

import (
	"os"

	"github.com/blaze-data/blaze/cmd"
	"github.com/blaze-data/blaze/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
