package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransport(t *testing.T, server *httptest.Server, relay bool) *Transport {
	t.Helper()
	opts := Options{
		HTTPClient:   server.Client(),
		RPS:          -1,
		RelayEnabled: relay,
	}
	if relay {
		opts.RelayURL = server.URL + "/relay/"
	}
	return NewTransport(opts)
}

func TestTransport_GetJSON_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantErr    error
	}{
		{name: "ok", statusCode: http.StatusOK, body: `{"verses":[]}`},
		{name: "not found", statusCode: http.StatusNotFound, wantErr: ErrNotFound},
		{name: "rate limited", statusCode: http.StatusTooManyRequests, wantErr: ErrRateLimited},
		{name: "server error", statusCode: http.StatusBadGateway, wantErr: ErrServer},
		{name: "bad request", statusCode: http.StatusBadRequest, wantErr: ErrUnexpectedStatus},
		{name: "invalid json", statusCode: http.StatusOK, body: `<html>`, wantErr: ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			tr := newTestTransport(t, server, false)
			payload, err := tr.GetJSON(context.Background(), BibleAPI, server.URL+"/john+3")

			if tt.wantErr != nil {
				require.Error(t, err)
				var fetchErr *FetchError
				require.True(t, errors.As(err, &fetchErr))
				assert.Equal(t, BibleAPI, fetchErr.Provider)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, map[string]any{"verses": []any{}}, payload)
		})
	}
}

func TestTransport_SetsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := newTestTransport(t, server, false).GetJSON(context.Background(), DenoBible, server.URL)
	require.NoError(t, err)
}

func TestTransport_NoRelayWhenDisabled(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestTransport(t, server, false).GetJSON(context.Background(), BibleAPI, server.URL+"/john+3")

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTransport_RelayRetrySucceeds(t *testing.T) {
	var relayed atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/relay/") {
			relayed.Add(1)
			_, _ = w.Write([]byte(`{"verses":[{"verse":1,"text":"relayed"}]}`))
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	tr := newTestTransport(t, server, true)
	require.True(t, tr.RelayEnabled())

	payload, err := tr.GetJSON(context.Background(), BibleAPI, server.URL+"/john+3")

	require.NoError(t, err)
	assert.Equal(t, int32(1), relayed.Load())
	assert.NotNil(t, payload)
}

func TestTransport_RelayRetryFails(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestTransport(t, server, true).GetJSON(context.Background(), DenoBible, server.URL+"/verses/naa/joao/3")

	require.Error(t, err)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, DenoBible, fetchErr.Provider)
	assert.ErrorIs(t, err, ErrServer)
	assert.Equal(t, int32(2), calls.Load(), "exactly one relay retry")
}

func TestTransport_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestTransport(t, server, true).GetJSON(ctx, BibleAPI, server.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewTransport_Defaults(t *testing.T) {
	tr := NewTransport(Options{})
	assert.False(t, tr.RelayEnabled())

	tr = NewTransport(Options{RelayEnabled: true})
	assert.True(t, tr.RelayEnabled())
	assert.Equal(t, DefaultRelayURL, tr.relayURL)
}
