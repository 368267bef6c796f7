package metrics

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector()

	c.RecordEvent("trade")
	c.RecordEvent("trade")
	c.RecordEvent("create")
	c.RecordDecodeError()
	c.RecordSinkWrite(time.Millisecond, nil)
	c.RecordSinkWrite(time.Millisecond, errors.New("boom"))
	c.SetDropped(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.events.WithLabelValues("trade")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.events.WithLabelValues("create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.decodeErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.sinkWrites.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.sinkWrites.WithLabelValues("failed")))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.dropped))
}

func TestCollector_IndependentRegistries(t *testing.T) {
	a, b := NewCollector(), NewCollector()
	a.RecordDecodeError()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.decodeErrors))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.decodeErrors))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.RecordEvent("complete")

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `pumpfun_events_total{kind="complete"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestCollector_Serve(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	c := NewCollector()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Serve(ctx, addr, zaptest.NewLogger(t)) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return strings.Contains(string(body), "pumpfun_decode_errors_total")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
