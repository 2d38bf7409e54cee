// Package persist maps the two lists to bytes and back, and moves those bytes
// between the keyed autosave store and user-chosen files.
package persist

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/idilsaglam/shop/internal/fsutil"
	"github.com/idilsaglam/shop/internal/model"
	"github.com/idilsaglam/shop/internal/store"
)

const (
	// AutosaveKey is where the autosave blob lives in the keyed store.
	AutosaveKey = "savedState"
	// DefaultExportName is the file name used when the export destination is a directory.
	DefaultExportName = "ShoppingList"
	// Ext is the extension of exported files.
	Ext = ".json"
)

// Gateway is the only code that touches the keyed store or export files.
type Gateway struct {
	kv  store.KeyValue
	log *log.Logger
}

// New wraps kv. A nil logger discards.
func New(kv store.KeyValue, logger *log.Logger) *Gateway {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Gateway{kv: kv, log: logger}
}

// Autosave overwrites the autosave key with st. Failures are returned, not
// logged; the list store reports them.
func (g *Gateway) Autosave(st model.State) error {
	b, err := Encode(st)
	if err != nil {
		return err
	}
	if err := g.kv.Set(AutosaveKey, b); err != nil {
		return fmt.Errorf("write %s: %w", AutosaveKey, err)
	}
	return nil
}

// LoadAutosaved returns the saved state. A missing key is a cold start and
// yields an empty state with no error. Unreadable or malformed data yields an
// empty state together with the error, so callers can report and carry on.
func (g *Gateway) LoadAutosaved() (model.State, error) {
	b, ok, err := g.kv.Get(AutosaveKey)
	if errors.Is(err, store.ErrCorrupt) {
		g.log.Printf("RESTORE_FAILED | stage=decode err=%v", err)
		return model.Empty(), fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err != nil {
		g.log.Printf("RESTORE_FAILED | stage=read err=%v", err)
		return model.Empty(), fmt.Errorf("read %s: %w", AutosaveKey, err)
	}
	if !ok {
		return model.Empty(), nil
	}
	st, err := Decode(b)
	if err != nil {
		g.log.Printf("RESTORE_FAILED | stage=decode err=%v", err)
		return model.Empty(), err
	}
	return st, nil
}

// ExportTo writes st as a standalone file and returns the path written.
// An empty dest or an existing directory gets DefaultExportName; a name
// without extension gets Ext.
func (g *Gateway) ExportTo(dest string, st model.State) (string, error) {
	path, err := ExportPath(dest)
	if err != nil {
		return "", err
	}
	b, err := Encode(st)
	if err != nil {
		return "", err
	}
	if err := fsutil.WriteFileAtomic(path, b, 0o644); err != nil {
		g.log.Printf("EXPORT_FAILED | path=%s err=%v", path, err)
		return "", fmt.Errorf("export %s: %w", path, err)
	}
	g.log.Printf("EXPORT | path=%s items=%d suggested=%d", path, len(st.Items), len(st.SuggestedItems))
	return path, nil
}

// ImportFrom reads and decodes a file written by ExportTo (or by hand).
func (g *Gateway) ImportFrom(src string) (model.State, error) {
	b, err := os.ReadFile(src)
	if err != nil {
		g.log.Printf("IMPORT_FAILED | path=%s err=%v", src, err)
		return model.State{}, fmt.Errorf("read file: %w", err)
	}
	st, err := Decode(b)
	if err != nil {
		g.log.Printf("IMPORT_FAILED | path=%s err=%v", src, err)
		return model.State{}, fmt.Errorf("import %s: %w", src, err)
	}
	g.log.Printf("IMPORT | path=%s items=%d suggested=%d", src, len(st.Items), len(st.SuggestedItems))
	return st, nil
}

// ExportPath resolves the file an export to dest would write. A dest ending
// in a separator names a directory even if it does not exist yet.
func ExportPath(dest string) (string, error) {
	if strings.TrimSpace(dest) == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dest = wd
	}
	if strings.HasSuffix(dest, "/") || strings.HasSuffix(dest, string(filepath.Separator)) {
		return filepath.Join(dest, DefaultExportName+Ext), nil
	}
	fi, err := os.Stat(dest)
	switch {
	case err == nil && fi.IsDir():
		return filepath.Join(dest, DefaultExportName+Ext), nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("stat: %w", err)
	}
	if filepath.Ext(dest) == "" {
		dest += Ext
	}
	return dest, nil
}
