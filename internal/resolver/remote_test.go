package resolver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andazbayan/andaz-bot/internal/resolver"
)

func TestHTTPRemoteReplyField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "hello there", payload.Message)

		json.NewEncoder(w).Encode(map[string]string{"reply": "general kenobi"})
	}))
	defer srv.Close()

	remote := resolver.NewHTTPRemote(srv.URL, time.Second)
	reply, err := remote.Reply(context.Background(), "hello there")
	require.NoError(t, err)
	assert.Equal(t, "general kenobi", reply)
}

func TestHTTPRemoteAnswerField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"answer": "from the answer key"})
	}))
	defer srv.Close()

	remote := resolver.NewHTTPRemote(srv.URL, time.Second)
	reply, err := remote.Reply(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "from the answer key", reply)
}

func TestHTTPRemoteNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	remote := resolver.NewHTTPRemote(srv.URL, time.Second)
	_, err := remote.Reply(context.Background(), "anything")
	assert.Error(t, err)
}

func TestHTTPRemoteMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	remote := resolver.NewHTTPRemote(srv.URL, time.Second)
	_, err := remote.Reply(context.Background(), "anything")
	assert.Error(t, err)
}

func TestHTTPRemoteUnreachable(t *testing.T) {
	remote := resolver.NewHTTPRemote("http://127.0.0.1:1/chat", 200*time.Millisecond)
	_, err := remote.Reply(context.Background(), "anything")
	assert.Error(t, err)
}
