package settings

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/appshell/internal/geometry"
)

type memStorage struct {
	mu        sync.Mutex
	initial   Settings
	loadErr   error
	persisted []Settings
	written   []Settings
	writeErr  error
}

func (m *memStorage) Load() (Settings, error) {
	if m.loadErr != nil {
		return Settings{}, m.loadErr
	}
	return m.initial.Clone(), nil
}

func (m *memStorage) Persist(s Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persisted = append(m.persisted, s)
}

func (m *memStorage) Write(s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.written = append(m.written, s)
	return m.writeErr
}

func withWindowState(g geometry.Geometry) Settings {
	s := Default()
	s.WindowState = g
	return s
}

func TestDispatch_RememberBoundsIsIdempotent(t *testing.T) {
	storage := &memStorage{initial: Default()}
	store, err := NewStore(storage)
	require.NoError(t, err)

	action := RememberBounds{State: geometry.FromRect(10, 10, 800, 600)}
	store.Dispatch(action)
	once := store.Get()
	store.Dispatch(action)
	twice := store.Get()

	assert.True(t, once.WindowState.Equal(twice.WindowState))
	assert.True(t, twice.WindowState.Equal(geometry.FromRect(10, 10, 800, 600)))
}

func TestDispatch_RememberBoundsMergesPayload(t *testing.T) {
	storage := &memStorage{initial: withWindowState(geometry.FromRect(0, 0, 800, 600))}
	store, err := NewStore(storage)
	require.NoError(t, err)

	store.Dispatch(RememberBounds{State: geometry.FromRect(0, 0, 900, 600)})

	got := store.Get().WindowState
	assert.Equal(t, 900, *got.Width)
	assert.Equal(t, 600, *got.Height)
	assert.Equal(t, 0, *got.Left)
	assert.Equal(t, 0, *got.Top)
}

func TestDispatch_PartialPayloadLeavesOtherFields(t *testing.T) {
	storage := &memStorage{initial: withWindowState(geometry.FromRect(5, 6, 800, 600))}
	store, err := NewStore(storage)
	require.NoError(t, err)

	store.Dispatch(RememberBounds{State: geometry.Geometry{Top: geometry.Int(99)}})

	assert.True(t, store.Get().WindowState.Equal(geometry.FromRect(5, 99, 800, 600)))
}

func TestDispatch_PersistsEverySnapshot(t *testing.T) {
	storage := &memStorage{initial: Default()}
	store, err := NewStore(storage)
	require.NoError(t, err)

	store.Dispatch(RememberBounds{State: geometry.FromRect(1, 2, 3, 4)})
	store.Dispatch(SetFramework{State: Framework{Locale: "de-DE"}})

	require.Len(t, storage.persisted, 2)
	assert.True(t, storage.persisted[0].WindowState.Equal(geometry.FromRect(1, 2, 3, 4)))
	assert.Equal(t, "de-DE", storage.persisted[1].Framework.Locale)
	assert.True(t, storage.persisted[1].WindowState.Equal(geometry.FromRect(1, 2, 3, 4)))
}

func TestGet_ReturnsCopy(t *testing.T) {
	storage := &memStorage{initial: withWindowState(geometry.FromRect(0, 0, 800, 600))}
	store, err := NewStore(storage)
	require.NoError(t, err)

	got := store.Get()
	*got.WindowState.Width = 1

	assert.Equal(t, 800, *store.Get().WindowState.Width)
}

func TestReduce_DoesNotModifyInput(t *testing.T) {
	current := withWindowState(geometry.FromRect(0, 0, 800, 600))

	_ = Reduce(current, RememberBounds{State: geometry.Geometry{Width: geometry.Int(1)}})

	assert.Equal(t, 800, *current.WindowState.Width)
}

func TestNewStore_LoadError(t *testing.T) {
	_, err := NewStore(&memStorage{loadErr: errors.New("boom")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestInit_OnlyOnce(t *testing.T) {
	t.Cleanup(func() { process = nil })

	require.NoError(t, Init(&memStorage{initial: Default()}))
	assert.ErrorIs(t, Init(&memStorage{initial: Default()}), ErrAlreadyInitialized)

	Dispatch(RememberBounds{State: geometry.Geometry{Width: geometry.Int(640)}})
	assert.Equal(t, 640, *Get().WindowState.Width)
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	process = nil
	assert.PanicsWithValue(t, ErrNotInitialized, func() { Get() })
}

func TestFileStorage_MissingFileYieldsDefaults(t *testing.T) {
	fs := &FileStorage{Path: filepath.Join(t.TempDir(), "settings.yaml")}

	got, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}

func TestFileStorage_RoundTripsWindowState(t *testing.T) {
	fs := &FileStorage{Path: filepath.Join(t.TempDir(), "nested", "settings.yaml")}
	want := withWindowState(geometry.FromRect(-20, 15, 1280, 720))

	require.NoError(t, fs.Write(want))
	got, err := fs.Load()
	require.NoError(t, err)

	assert.True(t, want.WindowState.Equal(got.WindowState))
	assert.Equal(t, want.Framework, got.Framework)
}

func TestFileStorage_CorruptGeometryLoadsAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	data := "windowState:\n  width: wide\n  height: 600\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	got, err := (&FileStorage{Path: path}).Load()
	require.NoError(t, err)

	assert.Nil(t, got.WindowState.Width)
	require.NotNil(t, got.WindowState.Height)
	assert.Equal(t, 600, *got.WindowState.Height)
	assert.Equal(t, Default().Framework, got.Framework)
}

func TestFileStorage_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("framework: [\n"), 0644))

	_, err := (&FileStorage{Path: path}).Load()
	require.Error(t, err)
}

func TestAsyncStorage_CloseFlushesLatest(t *testing.T) {
	inner := &memStorage{}
	async := NewAsyncStorage(inner, nil, nil)

	for i := 1; i <= 50; i++ {
		async.Persist(withWindowState(geometry.Geometry{Width: geometry.Int(i)}))
	}
	require.NoError(t, async.Close())

	inner.mu.Lock()
	defer inner.mu.Unlock()
	require.NotEmpty(t, inner.written)
	last := inner.written[len(inner.written)-1]
	assert.Equal(t, 50, *last.WindowState.Width)

	// Persist after close is dropped, not a panic.
	async.Persist(Default())
	assert.NoError(t, async.Close())
}
