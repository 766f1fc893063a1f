package bridge

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/retail-ai-inc/storagebridge/pkg/port"
	"github.com/retail-ai-inc/storagebridge/pkg/state"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const (
	savePort         = "save_to_localstorage"
	loadRequestPort  = "load_from_localstorage"
	loadResponsePort = "loaded_from_localstorage"
)

type failure struct {
	port string
	err  error
}

// harness is a host with a loop, an app and a record of everything sent on
// the load-response port.
type harness struct {
	loop      *port.Loop
	app       *port.App
	store     state.StateStore
	bridge    *StorageBridge
	responses []string
	failures  []failure
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

func newHarness(t *testing.T, store state.StateStore, save, loadReq, loadResp string) *harness {
	t.Helper()
	h := &harness{store: store}
	h.loop = port.NewLoop(quietLogger(), port.WithErrorHandler(func(p string, err error) {
		h.failures = append(h.failures, failure{p, err})
	}))
	h.app = port.NewApp(h.loop, save, loadReq, loadResp)
	if h.app.LoadedFromStorage != nil {
		h.app.LoadedFromStorage.Subscribe(func(_ context.Context, v string) error {
			h.responses = append(h.responses, v)
			return nil
		})
	}
	h.bridge = New(store, quietLogger())
	require.NoError(t, h.bridge.Init(context.Background(), h.app))
	return h
}

func (h *harness) save(t *testing.T, v string) {
	t.Helper()
	require.NoError(t, h.app.SaveToStorage.Send(v))
	require.NoError(t, h.loop.Drain(context.Background()))
}

func (h *harness) load(t *testing.T) {
	t.Helper()
	require.NoError(t, h.app.LoadFromStorage.Send(port.Unit{}))
	require.NoError(t, h.loop.Drain(context.Background()))
}

func TestSaveThenLoadReturnsLatest(t *testing.T) {
	h := newHarness(t, state.NewMemoryStateStore(), savePort, loadRequestPort, loadResponsePort)

	h.save(t, "hello")
	h.save(t, "world")
	h.load(t)

	require.Equal(t, []string{"world"}, h.responses)
	require.Empty(t, h.failures)
}

func TestRoundTrip(t *testing.T) {
	values := []string{"", "plain", "ünïcödé ✓ 日本語 🎉", "multi\nline", `{"model":{"count":3}}`}
	for _, v := range values {
		h := newHarness(t, state.NewMemoryStateStore(), savePort, loadRequestPort, loadResponsePort)
		h.save(t, v)
		h.load(t)
		require.Equal(t, []string{v}, h.responses)
	}
}

func TestLoadOnEmptyMediumSendsEmptyString(t *testing.T) {
	h := newHarness(t, state.NewMemoryStateStore(), "", loadRequestPort, loadResponsePort)

	h.load(t)

	require.Equal(t, []string{""}, h.responses)
	require.Empty(t, h.failures)
}

func TestSaveUsesFixedKey(t *testing.T) {
	store := state.NewMemoryStateStore()
	h := newHarness(t, store, savePort, "", "")

	h.save(t, "doc")

	v, ok, err := store.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "doc", v)
}

func TestWithKey(t *testing.T) {
	store := state.NewMemoryStateStore()
	require.NoError(t, store.Set(context.Background(), "profile", "stored elsewhere"))

	loop := port.NewLoop(quietLogger())
	app := port.NewApp(loop, savePort, loadRequestPort, loadResponsePort)
	var got []string
	app.LoadedFromStorage.Subscribe(func(_ context.Context, v string) error {
		got = append(got, v)
		return nil
	})

	b := New(store, quietLogger(), WithKey("profile"))
	require.Equal(t, "profile", b.Key())
	require.NoError(t, b.Init(context.Background(), app))

	require.NoError(t, app.LoadFromStorage.Send(port.Unit{}))
	require.NoError(t, loop.Drain(context.Background()))
	require.Equal(t, []string{"stored elsewhere"}, got)

	require.Equal(t, DefaultKey, New(store, quietLogger(), WithKey("")).Key())
}

func TestSelectiveWiring(t *testing.T) {
	cases := []struct {
		name             string
		save, loadReq    string
		wantSave, wantLd int
	}{
		{name: "both", save: savePort, loadReq: loadRequestPort, wantSave: 1, wantLd: 1},
		{name: "save only", save: savePort, wantSave: 1},
		{name: "load only", loadReq: loadRequestPort, wantLd: 1},
		{name: "neither"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			loop := port.NewLoop(quietLogger())
			app := port.NewApp(loop, tc.save, tc.loadReq, loadResponsePort)

			b := New(state.NewMemoryStateStore(), quietLogger())
			require.NoError(t, b.Init(context.Background(), app))

			if app.SaveToStorage != nil {
				require.Equal(t, tc.wantSave, app.SaveToStorage.Subscribers())
			}
			if app.LoadFromStorage != nil {
				require.Equal(t, tc.wantLd, app.LoadFromStorage.Subscribers())
			}
			require.Len(t, b.subs, tc.wantSave+tc.wantLd)
			require.Zero(t, app.LoadedFromStorage.Subscribers(), "the bridge only sends on the response port")
		})
	}
}

func TestInitWithoutPorts(t *testing.T) {
	b := New(state.NewMemoryStateStore(), quietLogger())
	require.NoError(t, b.Init(context.Background(), nil))

	var app *port.App
	require.NoError(t, b.Init(context.Background(), app))
	require.Empty(t, b.subs)
}

func TestInitCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loop := port.NewLoop(quietLogger())
	app := port.NewApp(loop, savePort, loadRequestPort, loadResponsePort)
	b := New(state.NewMemoryStateStore(), quietLogger())

	require.ErrorIs(t, b.Init(ctx, app), context.Canceled)
	require.Zero(t, app.SaveToStorage.Subscribers())
}

func TestNoCrossTalk(t *testing.T) {
	store := state.NewMemoryStateStore()
	h := newHarness(t, store, savePort, loadRequestPort, loadResponsePort)

	h.save(t, "a")
	h.save(t, "b")
	require.Empty(t, h.responses, "saving must not send a load response")

	h.load(t)
	require.Equal(t, []string{"b"}, h.responses)

	v, _, err := store.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	require.Equal(t, "b", v, "loading must not write")
}

func TestEachLoadRequestGetsOneResponse(t *testing.T) {
	h := newHarness(t, state.NewMemoryStateStore(), savePort, loadRequestPort, loadResponsePort)

	require.NoError(t, h.app.LoadFromStorage.Send(port.Unit{}))
	require.NoError(t, h.app.SaveToStorage.Send("later"))
	require.NoError(t, h.app.LoadFromStorage.Send(port.Unit{}))
	require.NoError(t, h.loop.Drain(context.Background()))

	require.Equal(t, []string{"", "later"}, h.responses)
}

type failingStore struct {
	state.StateStore
	err error
}

func (f failingStore) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingStore) Set(context.Context, string, string) error         { return f.err }

func TestStorageErrorsReachHost(t *testing.T) {
	unavailable := errors.New("storage unavailable")
	h := newHarness(t, failingStore{err: unavailable}, savePort, loadRequestPort, loadResponsePort)

	h.save(t, "v")
	h.load(t)

	require.Len(t, h.failures, 2)
	require.Equal(t, savePort, h.failures[0].port)
	require.Same(t, unavailable, h.failures[0].err)
	require.Equal(t, loadRequestPort, h.failures[1].port)
	require.Same(t, unavailable, h.failures[1].err)
	require.Empty(t, h.responses)
}

func TestLoadWithoutResponsePort(t *testing.T) {
	h := newHarness(t, state.NewMemoryStateStore(), savePort, loadRequestPort, "")

	h.load(t)

	require.Len(t, h.failures, 1)
	require.ErrorIs(t, h.failures[0].err, ErrNoResponsePort)
}

func TestClose(t *testing.T) {
	store := state.NewMemoryStateStore()
	h := newHarness(t, store, savePort, loadRequestPort, loadResponsePort)

	h.bridge.Close()
	require.Zero(t, h.app.SaveToStorage.Subscribers())
	require.Zero(t, h.app.LoadFromStorage.Subscribers())

	h.save(t, "ignored")
	h.load(t)
	require.Empty(t, h.responses)
	_, ok, err := store.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPersistsAcrossBridges(t *testing.T) {
	store, err := state.NewFileStateStore(t.TempDir())
	require.NoError(t, err)

	first := newHarness(t, store, savePort, "", "")
	first.save(t, "survives restart")
	first.bridge.Close()

	second := newHarness(t, store, "", loadRequestPort, loadResponsePort)
	second.load(t)
	require.Equal(t, []string{"survives restart"}, second.responses)
}
