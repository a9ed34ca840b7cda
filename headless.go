package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/milk9111/lumen/engine"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func headlessCmd(flags *hostFlags) *cobra.Command {
	var (
		ticks    int
		step     time.Duration
		realtime bool
		patches  []string
	)
	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Run the simulation without a window and print the final state as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			clock := engine.NewFakeClock(time.Now())
			eng, err := engine.New(cfg, logger, engine.WithTimeProvider(clock))
			if err != nil {
				return err
			}
			defer eng.Close()

			for _, p := range patches {
				if err := applyPatchFlag(eng, p); err != nil {
					return err
				}
				logger.Info("patch applied", zap.String("patch", p))
			}

			in, err := engine.RunHeadless(cmd.Context(), eng, clock, engine.HeadlessOptions{
				Ticks:    ticks,
				Step:     step,
				Realtime: realtime,
			}, logger)
			if err != nil {
				return err
			}

			out, err := engine.MarshalYAML(in)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().IntVar(&ticks, "ticks", 600, "number of ticks to run")
	cmd.Flags().DurationVar(&step, "step", time.Second/60, "simulated time per tick")
	cmd.Flags().BoolVar(&realtime, "realtime", false, "wait step between ticks")
	cmd.Flags().StringArrayVar(&patches, "patch", nil, "entity patch as id=file, applied before the first tick")
	return cmd
}

func applyPatchFlag(eng *engine.Engine, spec string) error {
	id, path, ok := strings.Cut(spec, "=")
	if !ok || id == "" || path == "" {
		return fmt.Errorf("patch %q: want id=file", spec)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("patch %s: %w", id, err)
	}
	p, err := engine.ParsePatch(data)
	if err != nil {
		return fmt.Errorf("patch %s: %w", id, err)
	}
	return eng.ApplyPatch(id, p)
}
