package exchangerate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, time.Second, zerolog.Nop())
}

func TestGetMidRate_Success(t *testing.T) {
	var gotPath, gotQuery, gotAccept string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"table":"A","currency":"dolar amerykański","code":"USD",
			"rates":[{"no":"200/A/NBP/2024","effectiveDate":"2024-10-14","mid":3.9345}]}`))
	})

	rate, err := client.GetMidRate(context.Background(), "USD")
	require.NoError(t, err)

	assert.Equal(t, 3.9345, rate)
	assert.Equal(t, "/api/exchangerates/rates/a/usd/", gotPath)
	assert.Equal(t, "format=json", gotQuery)
	assert.Equal(t, "application/json", gotAccept)
}

func TestGetMidRate_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "404 NotFound", http.StatusNotFound)
	})

	_, err := client.GetMidRate(context.Background(), "XYZ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestGetMidRate_EmptyRates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"table":"A","code":"EUR","rates":[]}`))
	})

	_, err := client.GetMidRate(context.Background(), "EUR")
	assert.ErrorIs(t, err, ErrNoRate)
}

func TestGetMidRate_MalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	})

	_, err := client.GetMidRate(context.Background(), "EUR")
	assert.Error(t, err)
}

func TestGetMidRate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"rates":[{"mid":4.0}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 20*time.Millisecond, zerolog.Nop())
	_, err := client.GetMidRate(context.Background(), "USD")
	assert.Error(t, err)
}

func TestGetMidRate_EmptyCode(t *testing.T) {
	client := NewClient("", 0, zerolog.Nop())
	_, err := client.GetMidRate(context.Background(), " ")
	assert.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("", 0, zerolog.Nop())
	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, 5*time.Second, client.client.Timeout)
}
