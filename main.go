package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	flags := &hostFlags{}
	root := &cobra.Command{
		Use:          "lumen",
		Short:        "2D simulation runtime with scripted and graph-driven entities",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWindow(cmd, flags)
		},
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	flags.bind(root)

	root.AddCommand(runCmd(flags))
	root.AddCommand(headlessCmd(flags))
	root.AddCommand(validateCmd(flags))
	root.AddCommand(versionCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
