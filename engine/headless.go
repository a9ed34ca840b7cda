package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/milk9111/lumen/asset"
	"github.com/milk9111/lumen/ecs/component"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// HeadlessOptions controls a windowless run.
type HeadlessOptions struct {
	Ticks int
	// Step is the simulated frame time added to the fake clock per tick.
	Step time.Duration
	// Realtime sleeps Step between ticks so watched files can be edited
	// while the run is in progress.
	Realtime bool
}

// RunHeadless ticks eng opts.Ticks times against clock and decodes every
// sprite asset alongside. The returned inspection includes decoded sprite
// sizes.
func RunHeadless(ctx context.Context, eng *Engine, clock *FakeClock, opts HeadlessOptions, logger *zap.Logger) (Inspection, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Step <= 0 {
		opts.Step = time.Second / 60
	}

	decoder := asset.NewDecoder(2, logger)
	sprites := map[string][]byte{}
	for _, ent := range eng.Snapshot() {
		if ent.Type == component.EntitySprite && len(ent.Asset) > 0 {
			sprites[ent.ID] = ent.Asset
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	decodeCtx, stopDecoder := context.WithCancel(ctx)
	defer stopDecoder()

	g.Go(func() error {
		return decoder.Run(decodeCtx)
	})

	assets := map[string]string{}
	g.Go(func() error {
		defer stopDecoder()
		for id, data := range sprites {
			for !decoder.Request(id, data) {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(time.Millisecond):
				}
			}
		}
		for range sprites {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case res := <-decoder.Results():
				if res.Err != nil {
					assets[res.Key] = fmt.Sprintf("error: %v", res.Err)
					continue
				}
				b := res.Image.Bounds()
				assets[res.Key] = fmt.Sprintf("%dx%d", b.Dx(), b.Dy())
			}
		}
		return nil
	})

	var result Inspection
	g.Go(func() error {
		var ticker *time.Ticker
		if opts.Realtime {
			ticker = time.NewTicker(opts.Step)
			defer ticker.Stop()
		}
		for i := 0; i < opts.Ticks; i++ {
			if ticker != nil {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ticker.C:
				}
			} else if err := ctx.Err(); err != nil {
				return err
			}
			clock.Advance(opts.Step)
			eng.Tick()
		}
		result = eng.Inspect()
		return nil
	})

	if err := g.Wait(); err != nil {
		return Inspection{}, fmt.Errorf("engine: headless: %w", err)
	}
	if len(assets) > 0 {
		result.Assets = assets
	}
	logger.Info("headless run finished", zap.Int("ticks", opts.Ticks), zap.Int("entities", len(result.Entities)))
	return result, nil
}
