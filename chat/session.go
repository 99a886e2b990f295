package chat

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/lfpereira/converse/providers/ai"
)

// Session binds a provider client, its configuration and a conversation into
// one chat. A session allows one in-flight exchange at a time; a second Send
// while the first is running fails with session_busy instead of interleaving
// histories.
type Session struct {
	client       *ai.Client
	config       *ai.Config
	conversation *Conversation
	logger       *slog.Logger
	startedAt    time.Time

	sending atomic.Bool
	totals  ai.Usage
}

// SessionOption customizes a Session.
type SessionOption func(*Session)

// WithLogger replaces the default logger.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession creates a session for client, seeding the configuration from the
// adapter's schema defaults.
func NewSession(client *ai.Client, opts ...SessionOption) *Session {
	session := &Session{
		client:       client,
		config:       ai.NewConfig(client.Adapter().Schema()),
		conversation: NewConversation(),
		logger:       slog.Default(),
		startedAt:    time.Now(),
	}
	for _, opt := range opts {
		opt(session)
	}
	return session
}

// Config returns the session's live configuration.
func (s *Session) Config() *ai.Config {
	return s.config
}

// Conversation returns the session's history.
func (s *Session) Conversation() *Conversation {
	return s.conversation
}

// Profile returns the provider's static identity.
func (s *Session) Profile() ai.Profile {
	return s.client.Adapter().Profile()
}

// Busy reports whether an exchange is currently in flight.
func (s *Session) Busy() bool {
	return s.sending.Load()
}

// UpdateConfig applies a batch of raw values to the configuration and logs
// what was ignored.
func (s *Session) UpdateConfig(updates map[string]string) ai.UpdateResult {
	result := s.config.Update(updates)
	for _, key := range result.Ignored {
		s.logger.Warn("ignoring unknown config key", "key", key, "provider", s.Profile().Name)
	}
	return result
}

// Clear discards the conversation history. The configuration survives.
func (s *Session) Clear() {
	s.conversation.Clear()
}

// Send runs one exchange. The user message joins the history before dispatch
// and stays there even when the exchange fails, so retrying or rephrasing
// keeps the full context. The assistant message joins only after a complete,
// successful response: a failed or truncated exchange grows the history by
// exactly one message.
//
// When both the configuration and the provider allow it, the exchange
// streams and each text delta reaches sink as it arrives; otherwise the call
// is synchronous and sink is not used.
func (s *Session) Send(ctx context.Context, text string, sink ai.Sink) (*ai.ChatResponse, error) {
	if !s.sending.CompareAndSwap(false, true) {
		return nil, ai.NewSessionBusy()
	}
	defer s.sending.Store(false)

	s.conversation.Append(ai.Message{Role: ai.RoleUser, Content: text})
	messages := s.conversation.Messages()

	var response *ai.ChatResponse
	var err error
	if s.config.Stream() && s.Profile().Streaming {
		var stream *ai.ChatStream
		stream, err = s.client.Stream(ctx, messages, s.config)
		if err == nil {
			response, err = stream.Drain(sink)
		}
	} else {
		response, err = s.client.Send(ctx, messages, s.config)
	}
	if err != nil {
		return nil, err
	}

	s.conversation.Append(ai.Message{
		Role:      ai.RoleAssistant,
		Content:   response.Content,
		Citations: response.Citations,
	})
	if response.Usage != nil {
		s.totals.InputTokens += response.Usage.InputTokens
		s.totals.OutputTokens += response.Usage.OutputTokens
		s.totals.TotalTokens += response.Usage.TotalTokens
	}
	return response, nil
}

// Snapshot is a point-in-time view of the session for rendering transcripts.
type Snapshot struct {
	SessionID string
	Provider  string
	Model     string
	Settings  []ai.Pair
	Messages  []ai.Message
	Usage     ai.Usage
	StartedAt time.Time
}

// Snapshot captures the session's current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		SessionID: s.conversation.ID(),
		Provider:  s.Profile().Name,
		Model:     s.config.Model(),
		Settings:  s.config.Pairs(),
		Messages:  s.conversation.Messages(),
		Usage:     s.totals,
		StartedAt: s.startedAt,
	}
}
