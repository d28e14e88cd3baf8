package uniprot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest() MappingRequest {
	return MappingRequest{
		From:        "P_REFSEQ_AC",
		To:          "ACC",
		Format:      "tab",
		Identifiers: []string{"NP_001179", "NP_002345"},
	}
}

func TestClientMap(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var gotQuery map[string]string
		var gotAgent string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAgent = r.Header.Get("User-Agent")
			gotQuery = map[string]string{
				"from":   r.URL.Query().Get("from"),
				"to":     r.URL.Query().Get("to"),
				"format": r.URL.Query().Get("format"),
				"query":  r.URL.Query().Get("query"),
			}
			_, _ = w.Write([]byte("From\tTo\nNP_001179\tQ16611\n"))
		}))
		defer server.Close()

		client := NewClient(ClientOptions{
			BaseURL:      server.URL,
			ContactEmail: "tests@example.org",
			UserAgent:    "idremap/test",
			Timeout:      5 * time.Second,
		})

		text, err := client.Map(context.Background(), testRequest())
		require.NoError(t, err)
		assert.Equal(t, "From\tTo\nNP_001179\tQ16611\n", text)
		assert.Equal(t, map[string]string{
			"from":   "P_REFSEQ_AC",
			"to":     "ACC",
			"format": "tab",
			"query":  "NP_001179 NP_002345",
		}, gotQuery)
		assert.Equal(t, "idremap/test (tests@example.org)", gotAgent)
	})

	t.Run("ErrorStatusIsProtocolError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "service overloaded", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewClient(ClientOptions{BaseURL: server.URL, ContactEmail: "tests@example.org"})

		_, err := client.Map(context.Background(), testRequest())
		require.Error(t, err)
		assert.True(t, IsProtocol(err))
		assert.False(t, IsTransport(err))

		var pe *ProtocolError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, http.StatusServiceUnavailable, pe.StatusCode)
	})

	t.Run("ConnectionFailureIsTransportError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		server.Close() // refuse all connections

		client := NewClient(ClientOptions{BaseURL: server.URL, ContactEmail: "tests@example.org"})

		_, err := client.Map(context.Background(), testRequest())
		require.Error(t, err)
		assert.True(t, IsTransport(err))
		assert.False(t, IsProtocol(err))
	})

	t.Run("CanceledContextIsTransportError", func(t *testing.T) {
		block := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			<-block
		}))
		defer server.Close()
		defer close(block)

		client := NewClient(ClientOptions{BaseURL: server.URL, ContactEmail: "tests@example.org"})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := client.Map(ctx, testRequest())
		require.Error(t, err)
		assert.True(t, IsTransport(err), "a hung call must not block the job")
	})
}

func TestMappingRequest(t *testing.T) {
	req := testRequest()
	assert.Equal(t, "NP_001179 NP_002345", req.Query())

	other := testRequest()
	other.To = "GENENAME"
	assert.NotEqual(t, req.Key(), other.Key(), "keys must distinguish mapping directions")
	assert.Equal(t, req.Key(), testRequest().Key(), "keys must be stable")
}
