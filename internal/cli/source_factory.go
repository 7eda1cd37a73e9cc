package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/propbind/pkg/adapters/bundle"
	"github.com/aretw0/propbind/pkg/adapters/env"
	"github.com/aretw0/propbind/pkg/adapters/file"
	"github.com/aretw0/propbind/pkg/adapters/layered"
	loamAdapter "github.com/aretw0/propbind/pkg/adapters/loam"
	redisAdapter "github.com/aretw0/propbind/pkg/adapters/redis"
	"github.com/aretw0/propbind/pkg/ports"
	"golang.org/x/text/language"
)

// SourceOptions selects the layers stacked by BuildSource.
// Priority, highest first: environment, redis, loam document, files (last
// file wins), locale bundle.
type SourceOptions struct {
	Files     []string
	EnvPrefix string
	UseEnv    bool

	RedisAddr string
	RedisHash string

	LoamDir string
	LoamDoc string

	BundleDir  string
	BundleName string
	Locale     string
}

// BuildSource opens every configured layer. The returned closer releases
// network clients and must be called even when no layer needed it.
func BuildSource(ctx context.Context, opts SourceOptions, logger *slog.Logger) (ports.Source, func() error, error) {
	var layers []ports.Source
	var closers []func() error
	closeAll := func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c())
		}
		return errors.Join(errs...)
	}

	if opts.UseEnv || opts.EnvPrefix != "" {
		layers = append(layers, env.New(opts.EnvPrefix))
	}

	if opts.RedisAddr != "" {
		var redisOpts []redisAdapter.Option
		if opts.RedisHash != "" {
			redisOpts = append(redisOpts, redisAdapter.WithHash(opts.RedisHash))
		}
		src := redisAdapter.New(opts.RedisAddr, "", 0, redisOpts...)
		closers = append(closers, src.Close)
		if err := src.Refresh(ctx); err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		logger.Debug("redis layer loaded", "source", src.String(), "keys", len(src.Keys()))
		layers = append(layers, src)
	}

	if opts.LoamDoc != "" {
		dir := opts.LoamDir
		if dir == "" {
			dir = "."
		}
		src, err := loamAdapter.Open(ctx, dir, opts.LoamDoc)
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		layers = append(layers, src)
	}

	for i := len(opts.Files) - 1; i >= 0; i-- {
		src, err := file.Open(opts.Files[i])
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		logger.Debug("file layer loaded", "source", src.String(), "keys", len(src.Keys()))
		layers = append(layers, src)
	}

	if opts.BundleDir != "" {
		name := opts.BundleName
		if name == "" {
			name = "messages"
		}
		b, err := bundle.Load(opts.BundleDir, name)
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		tag := language.Und
		if opts.Locale != "" {
			if tag, err = language.Parse(opts.Locale); err != nil {
				_ = closeAll()
				return nil, nil, fmt.Errorf("invalid locale %q: %w", opts.Locale, err)
			}
		}
		layers = append(layers, b.For(tag))
	}

	if len(layers) == 0 {
		_ = closeAll()
		return nil, nil, errors.New("no source configured: use --file, --env, --redis, --loam-doc or --bundle-dir")
	}
	if len(layers) == 1 {
		return layers[0], closeAll, nil
	}
	return layered.New(layers...), closeAll, nil
}
