package cli

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/sandeepkv93/chronos/internal/config"
	"github.com/sandeepkv93/chronos/internal/storage"
	"github.com/sandeepkv93/chronos/internal/suggest"
)

// loadConfig reads the runtime config and applies the persistent flags on
// top of it.
func loadConfig(opts *rootOptions) (config.RuntimeConfig, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.RuntimeConfig{}, err
	}
	if store := strings.ToLower(strings.TrimSpace(opts.Store)); store != "" {
		if !storage.Backend(store).IsValid() {
			return config.RuntimeConfig{}, fmt.Errorf("%w: unknown store backend %q", config.ErrInvalidConfig, opts.Store)
		}
		cfg.StoreBackend = store
	}
	if dir := strings.TrimSpace(opts.DataDir); dir != "" {
		expanded, err := homedir.Expand(dir)
		if err != nil {
			return config.RuntimeConfig{}, fmt.Errorf("%w: data dir: %v", config.ErrInvalidConfig, err)
		}
		cfg.DataDir = expanded
	}
	return cfg, nil
}

// openState opens the configured blob store. The caller closes it.
func openState(cfg config.RuntimeConfig) (*storage.StateStore, storage.BlobStore, error) {
	blobs, err := storage.Open(storage.Backend(cfg.StoreBackend), cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	return storage.NewStateStore(blobs, nil), blobs, nil
}

// suggestClient builds the AI client. Without a usable generator the client
// still works but every request fails, matching an unreachable service.
func suggestClient(ctx context.Context, cfg config.RuntimeConfig, e env) *suggest.Client {
	gen, err := e.newGenerator(ctx, cfg)
	if err != nil {
		log.Printf("cli: AI suggestions unavailable: %v", err)
		return suggest.NewClient(nil, cfg.AITimeout)
	}
	return suggest.NewClient(gen, cfg.AITimeout)
}

func geminiGenerator(ctx context.Context, cfg config.RuntimeConfig) (suggest.Generator, error) {
	return suggest.NewGeminiGenerator(ctx, cfg.AIAPIKey, cfg.AIModel)
}
