package metrics

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_ServesMetrics(t *testing.T) {
	server := NewServer("127.0.0.1:0")
	assert.Empty(t, server.Addr())

	errCh, err := server.Start()
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Stop(context.Background()) })

	BatchesTotal.Inc()

	resp, err := http.Get("http://" + server.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "lorekeeper_batches_total")
	assert.Contains(t, string(body), "go_goroutines")

	require.NoError(t, server.Stop(context.Background()))
	_, open := <-errCh
	assert.False(t, open)
}

func TestServer_StartTwice(t *testing.T) {
	server := NewServer("127.0.0.1:0")
	_, err := server.Start()
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Stop(context.Background()) })

	_, err = server.Start()
	assert.Error(t, err)
}

func TestServer_StopWithoutStart(t *testing.T) {
	assert.NoError(t, NewServer("127.0.0.1:0").Stop(context.Background()))
}
