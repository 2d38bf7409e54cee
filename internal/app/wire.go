package app

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/idilsaglam/shop/internal/config"
	"github.com/idilsaglam/shop/internal/persist"
	"github.com/idilsaglam/shop/internal/shoplist"
	"github.com/idilsaglam/shop/internal/store"
	"github.com/idilsaglam/shop/internal/store/jsonstore"
	"github.com/idilsaglam/shop/internal/store/sqlitestore"
)

// Wire bundles the stores and services commands use.
type Wire struct {
	Config  config.Config
	KV      store.KeyValue
	Gateway *persist.Gateway
	Lists   *shoplist.Store
	Log     *log.Logger

	// RestoreErr is set when the autosave could not be read or decoded.
	// Lists then starts empty; the error is for reporting only.
	RestoreErr error
}

// OpenKV opens the backend named by cfg.Store. A nil logger discards.
func OpenKV(cfg config.StoreConfig, logger *log.Logger) (store.KeyValue, error) {
	switch strings.ToLower(cfg.Backend) {
	case "sqlite":
		return sqlitestore.Open(cfg.DataDir)
	case "json", "":
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir data dir: %w", err)
		}
		return jsonstore.New(cfg.DataDir, jsonstore.WithLogger(logger)), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// NewWire constructs the dependency graph from cfg. A nil logger discards.
func NewWire(cfg config.Config, logger *log.Logger) (*Wire, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	kv, err := OpenKV(cfg.Store, logger)
	if err != nil {
		return nil, err
	}
	return NewWireWithKV(cfg, kv, logger)
}

// NewWireWithKV is NewWire over an already open keyed store.
func NewWireWithKV(cfg config.Config, kv store.KeyValue, logger *log.Logger) (*Wire, error) {
	mode, err := shoplist.ParseTransferMode(cfg.Transfer.Mode)
	if err != nil {
		return nil, err
	}
	gw := persist.New(kv, logger)
	lists := shoplist.New(gw, shoplist.WithLogger(logger), shoplist.WithTransferMode(mode))

	w := &Wire{Config: cfg, KV: kv, Gateway: gw, Lists: lists, Log: logger}
	st, err := gw.LoadAutosaved()
	if err != nil {
		w.RestoreErr = err
	}
	lists.Hydrate(st)
	return w, nil
}

// Import replaces both lists with the contents of path. On error the lists
// are left as they were.
func (w *Wire) Import(path string) error {
	st, err := w.Gateway.ImportFrom(path)
	if err != nil {
		return err
	}
	w.Lists.Replace(st)
	return nil
}

// Export writes the current lists to dest and returns the file written.
func (w *Wire) Export(dest string) (string, error) {
	return w.Gateway.ExportTo(dest, w.Lists.Snapshot())
}

func (w *Wire) Close() error { return w.KV.Close() }

// NewLogger builds the diagnostics logger. An empty path writes to fallback
// (nil discards); otherwise the file is appended to.
func NewLogger(path string, fallback io.Writer) (*log.Logger, io.Closer, error) {
	if path == "" {
		if fallback == nil {
			fallback = io.Discard
		}
		return log.New(fallback, "shop: ", log.LstdFlags), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return log.New(f, "shop: ", log.LstdFlags), f, nil
}
