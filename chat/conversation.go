// Package chat orchestrates a conversation with one provider: it owns the
// message history, the validated configuration, and the send lifecycle with
// its single-flight guard.
package chat

import (
	"github.com/google/uuid"

	"github.com/lfpereira/converse/providers/ai"
)

// Conversation is an ordered message history. It holds only canonical
// messages; system prompts are injected at request build time and never
// appear here.
type Conversation struct {
	id       string
	messages []ai.Message
}

// NewConversation creates an empty conversation with a fresh ID.
func NewConversation() *Conversation {
	return &Conversation{id: uuid.NewString()}
}

// ID returns the conversation's identity. Clearing the history mints a new
// one, so transcripts of different conversations never share an ID.
func (c *Conversation) ID() string {
	return c.id
}

// Append adds a message to the end of the history.
func (c *Conversation) Append(message ai.Message) {
	c.messages = append(c.messages, message)
}

// Len reports the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Messages returns a copy of the history in order.
func (c *Conversation) Messages() []ai.Message {
	out := make([]ai.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Clear discards the history and assigns a new conversation ID.
func (c *Conversation) Clear() {
	c.messages = nil
	c.id = uuid.NewString()
}
