package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/netdevd/internal/api"
	"grimm.is/netdevd/internal/device"
	"grimm.is/netdevd/internal/events"
	"grimm.is/netdevd/internal/metrics"
	"grimm.is/netdevd/internal/platform"
	"grimm.is/netdevd/internal/profile"
)

func newTestServer(t *testing.T) (*HTTPClient, *events.Hub) {
	t.Helper()

	link := &platform.Link{Index: 7, Name: "eth7", Kind: "dummy"}
	store, err := profile.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	reg := prometheus.NewRegistry()
	hub := events.NewHub()
	mgr := device.NewManager(device.ManagerOptions{
		Platform: platform.NewStatic(link),
		Store:    store,
		Hub:      hub,
		Metrics:  metrics.New(reg),
	})
	_, err = mgr.HandleLink(link)
	require.NoError(t, err)

	srv := api.NewServer(api.ServerOptions{
		Devices:  mgr,
		Store:    store,
		Hub:      hub,
		Gatherer: reg,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return NewHTTPClient(ts.URL, WithTimeout(5*time.Second)), hub
}

func TestNewHTTPClient_BareAddress(t *testing.T) {
	c := NewHTTPClient("127.0.0.1:8089/")
	assert.Equal(t, "http://127.0.0.1:8089", c.BaseURL())
}

func TestHTTPClient_Devices(t *testing.T) {
	c, _ := newTestServer(t)

	devs, err := c.Devices()
	require.NoError(t, err)
	require.Len(t, devs, 1)
	assert.Equal(t, "eth7", devs[0].Name)
	assert.Equal(t, "dummy", devs[0].TypeDescription)
	assert.False(t, devs[0].Managed)

	info, err := c.Device("eth7")
	require.NoError(t, err)
	assert.Equal(t, 7, info.Ifindex)
}

func TestHTTPClient_DeviceNotFound(t *testing.T) {
	c, _ := newTestServer(t)

	_, err := c.Device("eth9")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Contains(t, apiErr.Message, "eth9")
}

func TestHTTPClient_ManageAndGenerate(t *testing.T) {
	c, _ := newTestServer(t)

	info, err := c.SetManaged("eth7", true)
	require.NoError(t, err)
	assert.True(t, info.Managed)

	doc, err := c.GenerateProfile("eth7")
	require.NoError(t, err)
	assert.Equal(t, "generic", doc.Connection.Type)
	assert.Equal(t, "eth7", doc.Connection.InterfaceName)
	assert.NotNil(t, doc.Generic)

	all, err := c.Profiles()
	require.NoError(t, err)
	require.Len(t, all, 1)

	avail, err := c.DeviceProfiles("eth7")
	require.NoError(t, err)
	require.Len(t, avail, 1)
	assert.Equal(t, doc.Connection.UUID, avail[0].Connection.UUID)
}

func TestHTTPClient_Version(t *testing.T) {
	c, _ := newTestServer(t)

	v, err := c.Version()
	require.NoError(t, err)
	assert.Equal(t, "netdevd", v["name"])
}

func TestHTTPClient_WatchEvents(t *testing.T) {
	c, hub := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Event, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- c.WatchEvents(ctx, []string{string(events.EventDeviceProperty)}, func(e Event) {
			got <- e
		})
	}()

	// The subscription is registered after the handshake; publish until
	// the first event arrives.
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	var e Event
wait:
	for {
		select {
		case e = <-got:
			break wait
		case <-ticker.C:
			hub.EmitProperty("eth7", "TypeDescription", "dummy")
		case <-deadline:
			t.Fatal("no event received")
		}
	}

	assert.Equal(t, events.EventDeviceProperty, e.Type)
	data, err := e.PropertyData()
	require.NoError(t, err)
	assert.Equal(t, "TypeDescription", data.Property)
	assert.Equal(t, "dummy", data.Value)

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("WatchEvents did not return after cancel")
	}
}
