package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/sdkorder/pkg/cache"
	sderrors "github.com/matzehuels/sdkorder/pkg/errors"
	sdio "github.com/matzehuels/sdkorder/pkg/io"
	"github.com/matzehuels/sdkorder/pkg/observability"
	"github.com/matzehuels/sdkorder/pkg/packages"
	"github.com/matzehuels/sdkorder/pkg/reflection"
)

// Runner executes pipeline runs with caching.
//
// The Runner holds no run state besides the cache and logger, so one Runner
// can serve several runs. Each run builds its own registry.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long computed reports stay cached. Zero keeps them forever.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects the DefaultKeyer and a nil logger selects log.Default().
// Reports are cached for [cache.TTLReport].
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLReport,
	}
}

// Execute loads the manifest, serves the report from the cache when
// possible, and otherwise builds the registry and computes a fresh report.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	runID := uuid.NewString()
	logger := r.Logger.With("run", runID[:8])
	opts.Logger = logger

	loadStart := time.Now()
	data, err := r.read(ctx, opts.Manifest)
	if err != nil {
		return nil, err
	}
	hash := cache.Hash(data)
	key := r.Keyer.ReportKey(hash, opts.KeyOpts())

	if !opts.Refresh {
		if rep, ok := r.cached(ctx, key); ok {
			logger.Debug("report served from cache", "manifest", opts.Manifest)
			rep.RunID = runID
			return &Result{Report: rep, CacheHit: true}, nil
		}
	}

	reg, err := r.build(ctx, opts.Manifest, data, logger)
	if err != nil {
		return nil, err
	}
	loadTime := time.Since(loadStart)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rep := NewReport(reg, opts)
	rep.RunID = runID
	rep.ManifestHash = hash
	rep.Stats.LoadTime = loadTime

	observability.Pipeline().OnReportComplete(ctx, rep.Stats.Steps, rep.Stats.Cycles, rep.Stats.OrderTime, nil)
	logger.Info("computed emission order",
		"packages", rep.Stats.Packages,
		"steps", rep.Stats.Steps,
		"cycles", rep.Stats.Cycles,
		"duration", rep.Stats.OrderTime)

	if encoded, err := json.Marshal(rep); err == nil {
		if err := r.Cache.Set(ctx, key, encoded, r.TTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "report", len(encoded))
		}
	}
	return &Result{Report: rep, Registry: reg}, nil
}

// Build loads the manifest and returns an initialized registry, bypassing
// the report cache.
func (r *Runner) Build(ctx context.Context, opts Options) (*packages.Registry, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	data, err := r.read(ctx, opts.Manifest)
	if err != nil {
		return nil, err
	}
	return r.build(ctx, opts.Manifest, data, r.Logger)
}

// Load reads and validates the manifest at path and returns the snapshot
// together with the content hash of the file.
func (r *Runner) Load(ctx context.Context, path string) (*reflection.Snapshot, string, error) {
	data, err := r.read(ctx, path)
	if err != nil {
		return nil, "", err
	}
	snap, err := r.decode(ctx, path, data)
	if err != nil {
		return nil, "", err
	}
	return snap, cache.Hash(data), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, sderrors.Wrap(sderrors.ErrCodeFileNotFound, err, "manifest %s", path)
	}
	if err != nil {
		return nil, sderrors.Wrap(sderrors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return data, nil
}

func (r *Runner) decode(ctx context.Context, path string, data []byte) (*reflection.Snapshot, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	format, err := sdio.FormatFromPath(path)
	var snap *reflection.Snapshot
	if err == nil {
		snap, err = sdio.Read(bytes.NewReader(data), format)
	}

	count := 0
	if snap != nil {
		count = len(snap.Packages())
	}
	hooks.OnLoadComplete(ctx, path, count, time.Since(start), err)
	return snap, err
}

func (r *Runner) build(ctx context.Context, path string, data []byte, logger *log.Logger) (*packages.Registry, error) {
	snap, err := r.decode(ctx, path, data)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded manifest", "path", path, "packages", len(snap.Packages()), "objects", snap.Len())

	reg := packages.New(snap, packages.WithLogger(logger))
	if err := reg.Initialize(); err != nil {
		return nil, err
	}
	return reg, nil
}

func (r *Runner) cached(ctx context.Context, key string) (*Report, bool) {
	data, err := cache.Require(ctx, r.Cache, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			r.Logger.Warn("cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "report")
		return nil, false
	}
	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		observability.Cache().OnCacheMiss(ctx, "report")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "report")
	return &rep, true
}
