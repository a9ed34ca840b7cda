package main

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/lumen/asset"
	"github.com/milk9111/lumen/engine"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const decodeWorkers = 2

func runCmd(flags *hostFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open the simulation window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWindow(cmd, flags)
		},
	}
}

func runWindow(cmd *cobra.Command, flags *hostFlags) error {
	cfg, logger, err := flags.load(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	eng, err := engine.New(cfg, logger)
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	decoder := asset.NewDecoder(decodeWorkers, logger)
	go func() {
		if err := decoder.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("asset decoder stopped", zap.Error(err))
		}
	}()

	game := NewGame(ctx, eng, decoder, logger)

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
