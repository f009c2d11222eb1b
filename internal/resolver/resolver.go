// Package resolver turns user text into a bot reply by combining
// greeting shortcuts, the FAQ table, and a remote completions call.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/andazbayan/andaz-bot/internal/faq"
)

// FallbackReply is returned when the remote answers with an empty body.
const FallbackReply = "Sorry, something went wrong!"

// Remote is the remote reply function. Implementations issue at most
// one network call per invocation.
type Remote interface {
	Reply(ctx context.Context, text string) (string, error)
}

type Resolver struct {
	table  *faq.Table
	remote Remote
	logger *zap.Logger
}

// New builds a resolver. remote may be nil, in which case every miss on
// the local rules degrades to a labeled local fallback.
func New(table *faq.Table, remote Remote, logger *zap.Logger) *Resolver {
	return &Resolver{
		table:  table,
		remote: remote,
		logger: logger,
	}
}

// Resolve maps user text to a reply. It never fails: every internal
// error degrades to a local rule-based reply. At most one outbound
// network call is made per invocation.
func (r *Resolver) Resolve(ctx context.Context, text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))

	if reply, ok := greetingReply(normalized); ok {
		return reply
	}

	if reply, ok := r.table.Match(normalized); ok {
		return reply
	}

	if r.remote == nil {
		return fmt.Sprintf("Local bot fallback: %q", text)
	}

	answer, err := r.remote.Reply(ctx, text)
	if err != nil {
		r.logger.Warn("Remote reply failed, using local rules",
			zap.Error(err))
		return r.localReply(normalized)
	}

	if strings.TrimSpace(answer) == "" {
		return FallbackReply
	}
	return answer
}

// localReply is the rule-based degradation path used when the remote
// call fails.
func (r *Resolver) localReply(normalized string) string {
	if reply, ok := r.table.Match(normalized); ok {
		return reply
	}

	switch {
	case strings.Contains(normalized, "salam"):
		return "Wa Alaikum Assalam! How can I help you today?"
	case strings.Contains(normalized, "help"), strings.Contains(normalized, "how"):
		return "Tell me what help you need — coding, definitions, or simple chat."
	case strings.Contains(normalized, "r and d"),
		strings.Contains(normalized, "r&d"),
		strings.Contains(normalized, "research"):
		return "R&D stands for Research and Development — creating new products or improving existing ones."
	case strings.Contains(normalized, "weather"):
		return "I can't fetch live weather in offline mode — you can connect an API for real-time data."
	case len(normalized) < 20:
		return "Nice! Tell me more so I can help better."
	default:
		return "Thanks for sharing. I'm a simple rule-based bot locally — for smarter replies, enable OpenAI integration."
	}
}

var exactGreetings = map[string]string{
	"hi":        "Hello! How can I help you today? 😊",
	"hello":     "Hello! How can I help you today? 😊",
	"hey":       "Hello! How can I help you today? 😊",
	"hy":        "Hello! How can I help you today? 😊",
	"bye":       "Goodbye! Have a nice day! 👋",
	"goodbye":   "Goodbye! Have a nice day! 👋",
	"see you":   "Goodbye! Have a nice day! 👋",
	"thanks":    "You're welcome! 😊",
	"thank you": "You're welcome! 😊",
	"thx":       "You're welcome! 😊",
	"ok":        "Okay! 👍",
	"okay":      "Okay! 👍",
	"sure":      "Okay! 👍",
}

// greetingReply handles conversational niceties without touching the
// FAQ table or the network.
func greetingReply(normalized string) (string, bool) {
	if reply, ok := exactGreetings[normalized]; ok {
		return reply, true
	}
	if strings.Contains(normalized, "salam") || strings.Contains(normalized, "assalam") {
		return "Wa Alaikum Assalam! How can I help you today?", true
	}
	return "", false
}
