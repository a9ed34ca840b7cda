package asset

import (
	"context"
	"image"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result is a finished decode. Key is the caller's handle (an entity id) and
// Hash identifies the bytes that were decoded, so a stale result can be told
// apart from the current asset.
type Result struct {
	Key   string
	Hash  uint64
	Image image.Image
	Err   error
}

type request struct {
	key  string
	hash uint64
	data []byte
}

// Decoder decodes images on worker goroutines. Requests and results cross
// over channels; callers on the tick goroutine never block.
type Decoder struct {
	workers int
	logger  *zap.Logger

	requests chan request
	results  chan Result

	mu       sync.Mutex
	inflight map[string]uint64
}

func NewDecoder(workers int, logger *zap.Logger) *Decoder {
	if workers <= 0 {
		workers = 2
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decoder{
		workers:  workers,
		logger:   logger.Named("asset"),
		requests: make(chan request, 64),
		results:  make(chan Result, 64),
		inflight: map[string]uint64{},
	}
}

// Hash is the content key used for asset bytes.
func Hash(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Request queues data for decoding under key. A request for bytes already in
// flight for the same key is ignored. It reports false when the queue is full;
// the caller may ask again on a later frame.
func (d *Decoder) Request(key string, data []byte) bool {
	h := Hash(data)

	d.mu.Lock()
	if cur, ok := d.inflight[key]; ok && cur == h {
		d.mu.Unlock()
		return true
	}
	d.inflight[key] = h
	d.mu.Unlock()

	select {
	case d.requests <- request{key: key, hash: h, data: data}:
		return true
	default:
		d.mu.Lock()
		delete(d.inflight, key)
		d.mu.Unlock()
		return false
	}
}

// Results delivers finished decodes.
func (d *Decoder) Results() <-chan Result {
	return d.results
}

// Poll returns every finished decode without blocking.
func (d *Decoder) Poll() []Result {
	var out []Result
	for {
		select {
		case r := <-d.results:
			out = append(out, r)
		default:
			return out
		}
	}
}

// Run serves requests until ctx is cancelled.
func (d *Decoder) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < d.workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case req := <-d.requests:
					d.serve(ctx, req)
				}
			}
		})
	}
	return g.Wait()
}

func (d *Decoder) serve(ctx context.Context, req request) {
	img, format, err := Decode(req.data)
	if err != nil {
		d.logger.Debug("decode failed", zap.String("key", req.key), zap.Error(err))
	} else {
		d.logger.Debug("decoded", zap.String("key", req.key), zap.String("format", format),
			zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
	}

	d.mu.Lock()
	if d.inflight[req.key] == req.hash {
		delete(d.inflight, req.key)
	}
	d.mu.Unlock()

	select {
	case d.results <- Result{Key: req.key, Hash: req.hash, Image: img, Err: err}:
	case <-ctx.Done():
	}
}
