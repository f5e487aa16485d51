// Package cmd is the entry point for the pdv binary.
package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/bnema/pdv/internal/adapters/in/cli"
	"github.com/bnema/pdv/internal/adapters/in/cli/ui"
	"github.com/bnema/pdv/pkg/version"
)

// ExecuteCLI records build information and runs the root command.
func ExecuteCLI(v, commit, date string) {
	version.Set(v, commit, date)

	root := cli.NewRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		if errors.Is(err, ui.ErrAborted) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}
