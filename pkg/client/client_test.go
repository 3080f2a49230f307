package client

import (
	"io"
	"net"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveUnix runs handler on a throwaway unix socket and returns a Client
// dialing it.
func serveUnix(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	sock := filepath.Join(t.TempDir(), "wqm.sock")
	l, err := net.Listen("unix", sock)
	require.NoError(t, err)

	srv := &http.Server{Handler: handler}
	go func() { _ = srv.Serve(l) }()
	t.Cleanup(func() { _ = srv.Close() })

	return NewClient(sock)
}

func TestClientGet(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/index", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte("42"))
	})
	c := serveUnix(t, mux)

	body, err := c.Get("/index")
	require.NoError(t, err)
	assert.Equal(t, "42", body)
}

func TestClientPutSendsBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/alpha", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		b, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Equal(t, "0.5", string(b))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	})
	c := serveUnix(t, mux)

	body, err := c.Put("/alpha", "0.5")
	require.NoError(t, err)
	assert.Equal(t, "ok", body)
}

func TestClientNotFoundSentinel(t *testing.T) {
	c := serveUnix(t, http.NewServeMux())

	_, err := c.Post("/no-such-route", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientErrorCarriesBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("no cycle has completed yet"))
	})
	c := serveUnix(t, mux)

	_, err := c.Get("/status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "no cycle has completed yet")
}

func TestClientDaemonNotRunningSentinel(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "absent.sock"))

	_, err := c.Get("/status")
	assert.ErrorIs(t, err, ErrDaemonNotRunning)
}
