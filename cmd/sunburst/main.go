package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sunburst/internal/cli"
	sberrors "github.com/matzehuels/sunburst/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx)
	if err == nil {
		return
	}
	code := exitCode(err)
	if code != 130 {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(code)
}

// exitCode is 130 after Ctrl-C, 2 for bad input and 1 otherwise.
func exitCode(err error) int {
	if errors.Is(err, context.Canceled) {
		return 130
	}
	switch sberrors.GetCode(err) {
	case sberrors.ErrCodeMalformedInput, sberrors.ErrCodeInvalidInput, sberrors.ErrCodeInvalidFormat,
		sberrors.ErrCodeInvalidScale, sberrors.ErrCodeInvalidConfig:
		return 2
	}
	return 1
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	attachLogger := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return attachLogger(cmd, args)
	}

	return root.ExecuteContext(ctx)
}
