package resolver_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andazbayan/andaz-bot/internal/faq"
	"github.com/andazbayan/andaz-bot/internal/resolver"
)

type stubRemote struct {
	reply string
	err   error
	calls int
}

func (s *stubRemote) Reply(ctx context.Context, text string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func testTable(t *testing.T) *faq.Table {
	t.Helper()
	table, err := faq.Default()
	require.NoError(t, err)
	return table
}

func TestResolveGreetingSkipsNetwork(t *testing.T) {
	remote := &stubRemote{reply: "should not be used"}
	r := resolver.New(testTable(t), remote, zap.NewNop())

	for _, input := range []string{"hi", "Hello", "  HEY  ", "Assalam-o-Alaikum"} {
		reply := r.Resolve(context.Background(), input)
		assert.NotEmpty(t, reply, "input %q", input)
	}
	assert.Equal(t, 0, remote.calls)
}

func TestResolveFAQBeforeRemote(t *testing.T) {
	remote := &stubRemote{err: errors.New("network down")}
	r := resolver.New(testTable(t), remote, zap.NewNop())

	reply := r.Resolve(context.Background(), "What is Andaz-e-Bayan Aur?")
	assert.Contains(t, reply, "Urdu poetry, calligraphy")
	assert.Equal(t, 0, remote.calls, "FAQ hit must not contact the network")
}

func TestResolveRemoteSuccess(t *testing.T) {
	remote := &stubRemote{reply: "Ghalib was born in 1797."}
	r := resolver.New(testTable(t), remote, zap.NewNop())

	reply := r.Resolve(context.Background(), "When was Ghalib born exactly, the poet?")
	assert.Equal(t, "Ghalib was born in 1797.", reply)
	assert.Equal(t, 1, remote.calls)
}

func TestResolveRemoteEmptyAnswer(t *testing.T) {
	remote := &stubRemote{reply: "   "}
	r := resolver.New(testTable(t), remote, zap.NewNop())

	reply := r.Resolve(context.Background(), "an unanswerable question about nothing in particular")
	assert.Equal(t, resolver.FallbackReply, reply)
}

func TestResolveRemoteFailureFallsBackToRules(t *testing.T) {
	remote := &stubRemote{err: errors.New("connection refused")}
	r := resolver.New(testTable(t), remote, zap.NewNop())

	tests := []struct {
		input string
		want  string
	}{
		{"what does research mean", "R&D stands for Research and Development — creating new products or improving existing ones."},
		{"what's the weather like in lahore at the moment", "I can't fetch live weather in offline mode — you can connect an API for real-time data."},
		{"quantum", "Nice! Tell me more so I can help better."},
	}
	for _, tt := range tests {
		reply := r.Resolve(context.Background(), tt.input)
		assert.Equal(t, tt.want, reply, "input %q", tt.input)
	}
}

func TestResolveRemoteFailureGenericAck(t *testing.T) {
	remote := &stubRemote{err: errors.New("connection refused")}
	r := resolver.New(testTable(t), remote, zap.NewNop())

	reply := r.Resolve(context.Background(), strings.Repeat("a very long unmatched message ", 3))
	assert.Contains(t, reply, "rule-based bot")
}

func TestResolveWithoutRemote(t *testing.T) {
	r := resolver.New(testTable(t), nil, zap.NewNop())

	reply := r.Resolve(context.Background(), "something completely unmatched and quite long indeed")
	assert.Equal(t, `Local bot fallback: "something completely unmatched and quite long indeed"`, reply)
}

func TestResolveNeverEmpty(t *testing.T) {
	r := resolver.New(testTable(t), &stubRemote{err: errors.New("boom")}, zap.NewNop())

	inputs := []string{"hi", "x", "weather?", "What is Bait-Baazi?", "salam", strings.Repeat("z", 100)}
	for _, input := range inputs {
		assert.NotEmpty(t, r.Resolve(context.Background(), input), "input %q", input)
	}
}
