package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/shop/internal/store"
	"github.com/idilsaglam/shop/internal/store/jsonstore"
	"github.com/idilsaglam/shop/internal/store/memstore"
	"github.com/idilsaglam/shop/internal/store/sqlitestore"
)

// backends returns a fresh instance of every KeyValue implementation.
func backends(t *testing.T) map[string]store.KeyValue {
	t.Helper()
	sq, err := sqlitestore.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })
	return map[string]store.KeyValue{
		"mem":    memstore.New(),
		"json":   jsonstore.New(t.TempDir()),
		"sqlite": sq,
	}
}

func TestKeyValue_GetMissing(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			v, ok, err := kv.Get("savedState")
			require.NoError(t, err)
			require.False(t, ok)
			require.Nil(t, v)
		})
	}
}

func TestKeyValue_SetOverwritesAndDelete(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Set("k", []byte(`{"a":1}`)))
			require.NoError(t, kv.Set("k", []byte(`{"a":2}`)))

			v, ok, err := kv.Get("k")
			require.NoError(t, err)
			require.True(t, ok)
			require.JSONEq(t, `{"a":2}`, string(v))

			require.NoError(t, kv.Delete("k"))
			_, ok, err = kv.Get("k")
			require.NoError(t, err)
			require.False(t, ok)

			// deleting a missing key is fine
			require.NoError(t, kv.Delete("k"))
		})
	}
}

func TestKeyValue_NonJSONBytes(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			raw := []byte{0xff, 0x00, 'x'}
			require.NoError(t, kv.Set("bin", raw))
			v, ok, err := kv.Get("bin")
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, raw, v)
		})
	}
}

func TestJSONStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, jsonstore.New(dir).Set("savedState", []byte(`{"items":["milk"]}`)))

	v, ok, err := jsonstore.New(dir).Get("savedState")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"items":["milk"]}`, string(v))

	_, err = os.Stat(filepath.Join(dir, "defaults.json"))
	require.NoError(t, err)
}

func TestJSONStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "defaults.json"), []byte("{not json"), 0o644))
	s := jsonstore.New(dir)
	_, _, err := s.Get("savedState")
	require.ErrorIs(t, err, store.ErrCorrupt)

	// the next write replaces the broken file
	require.NoError(t, s.Set("savedState", []byte(`{"items":["milk"]}`)))
	v, ok, err := s.Get("savedState")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"items":["milk"]}`, string(v))
	require.FileExists(t, filepath.Join(dir, "defaults.json.corrupt"))
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := sqlitestore.Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set("savedState", []byte(`{"items":[]}`)))
	require.NoError(t, s.Close())

	s, err = sqlitestore.Open(dir)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get("savedState")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"items":[]}`, string(v))
}

func TestClosedStores(t *testing.T) {
	for _, kv := range []store.KeyValue{memstore.New(), jsonstore.New(t.TempDir())} {
		require.NoError(t, kv.Close())
		require.ErrorIs(t, kv.Set("k", []byte("1")), store.ErrClosed)
		_, _, err := kv.Get("k")
		require.ErrorIs(t, err, store.ErrClosed)
	}
}
