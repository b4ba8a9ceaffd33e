package courier

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// chatAPI is the slice of the API client the chat needs
type chatAPI interface {
	CreateConversation(ctx context.Context, participant2ID uint, orderID *uint) (Conversation, error)
	Messages(ctx context.Context, conversationID uint) ([]Message, error)
	SendMessage(ctx context.Context, conversationID uint, content string) (Message, error)
}

// Chat opens conversations with customers and polls them for messages
type Chat struct {
	api chatAPI
	log *slog.Logger

	// pollInterval is the message refresh period. Shortened in tests.
	pollInterval time.Duration
}

// NewChat creates a chat component
func NewChat(api chatAPI, logger *slog.Logger) *Chat {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chat{api: api, log: logger, pollInterval: 3 * time.Second}
}

// ChatSession is one open conversation. The message list is replaced
// wholesale on every poll; a successfully sent message is appended
// locally without waiting for the next tick.
type ChatSession struct {
	conversationID uint
	api            chatAPI
	log            *slog.Logger

	mu       sync.Mutex
	messages []Message
	onChange func([]Message)

	once sync.Once
	done chan struct{}
}

// Open resolves the conversation with a counterpart and starts polling
// its messages. onChange fires whenever the message list changes; the UI
// uses it to keep scroll position at the end of the list. Close the
// returned session to stop polling.
func (c *Chat) Open(ctx context.Context, counterpartID uint, orderID *uint, onChange func([]Message)) (*ChatSession, error) {
	conversation, err := c.api.CreateConversation(ctx, counterpartID, orderID)
	if err != nil {
		return nil, err
	}

	s := &ChatSession{
		conversationID: conversation.ID,
		api:            c.api,
		log:            c.log,
		onChange:       onChange,
		done:           make(chan struct{}),
	}

	go s.run(c.pollInterval)
	return s, nil
}

// ConversationID returns the id of the open conversation
func (s *ChatSession) ConversationID() uint {
	return s.conversationID
}

// run fetches once immediately and then on every tick until Close
func (s *ChatSession) run(interval time.Duration) {
	s.poll()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.poll()
		}
	}
}

// poll replaces the in-memory list with the server's. A failed fetch is
// logged and the next tick proceeds on schedule.
func (s *ChatSession) poll() {
	messages, err := s.api.Messages(context.Background(), s.conversationID)
	if err != nil {
		s.log.Error("message fetch failed", "conversationId", s.conversationID, "error", err)
		return
	}

	select {
	case <-s.done:
		// Response arrived after Close; drop it.
		return
	default:
	}

	s.replace(messages)
}

// Send posts a message and appends it locally on success, so the sender
// sees it without waiting for the next poll.
func (s *ChatSession) Send(ctx context.Context, content string) error {
	message, err := s.api.SendMessage(ctx, s.conversationID, content)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.messages = append(s.messages, message)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot)
	return nil
}

// Messages returns a copy of the current message list
func (s *ChatSession) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close stops polling. No fetch occurs after Close returns.
func (s *ChatSession) Close() {
	s.once.Do(func() {
		close(s.done)
	})
}

func (s *ChatSession) replace(messages []Message) {
	s.mu.Lock()
	s.messages = messages
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot)
}

func (s *ChatSession) snapshotLocked() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *ChatSession) notify(messages []Message) {
	if s.onChange != nil {
		s.onChange(messages)
	}
}
