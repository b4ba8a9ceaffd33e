package courier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeChatAPI struct {
	mu sync.Mutex

	createdP2    uint
	createdOrder *uint
	conversation Conversation

	fetches  int
	fetchIDs []uint
	messages []Message
	fetchErr error

	sendErr  error
	sendResp Message
}

func (f *fakeChatAPI) CreateConversation(ctx context.Context, participant2ID uint, orderID *uint) (Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdP2 = participant2ID
	f.createdOrder = orderID
	return f.conversation, nil
}

func (f *fakeChatAPI) Messages(ctx context.Context, conversationID uint) ([]Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	f.fetchIDs = append(f.fetchIDs, conversationID)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]Message, len(f.messages))
	copy(out, f.messages)
	return out, nil
}

func (f *fakeChatAPI) SendMessage(ctx context.Context, conversationID uint, content string) (Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return Message{}, f.sendErr
	}
	resp := f.sendResp
	resp.Content = content
	return resp, nil
}

func (f *fakeChatAPI) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func (f *fakeChatAPI) setMessages(messages []Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = messages
}

func (f *fakeChatAPI) setFetchErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchErr = err
}

func newTestChat(api chatAPI) *Chat {
	chat := NewChat(api, quietLogger())
	chat.pollInterval = 10 * time.Millisecond
	return chat
}

func TestOpenCreatesConversationAndPollsIt(t *testing.T) {
	order := uint(1)
	api := &fakeChatAPI{conversation: Conversation{ID: 42}}
	chat := newTestChat(api)

	session, err := chat.Open(context.Background(), 7, &order, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer session.Close()

	if api.createdP2 != 7 || api.createdOrder == nil || *api.createdOrder != 1 {
		t.Fatalf("conversation created with participant2=%d order=%v", api.createdP2, api.createdOrder)
	}

	waitFor(t, func() bool { return api.fetchCount() >= 2 })

	api.mu.Lock()
	defer api.mu.Unlock()
	for _, id := range api.fetchIDs {
		if id != 42 {
			t.Fatalf("messages fetched for conversation %d, want 42", id)
		}
	}
}

func TestPollingStopsOnClose(t *testing.T) {
	api := &fakeChatAPI{conversation: Conversation{ID: 42}}
	chat := newTestChat(api)

	session, err := chat.Open(context.Background(), 7, nil, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	waitFor(t, func() bool { return api.fetchCount() >= 3 })
	session.Close()
	session.Close() // idempotent

	settled := api.fetchCount()
	time.Sleep(60 * time.Millisecond)
	if got := api.fetchCount(); got > settled+1 {
		t.Fatalf("fetches continued after Close: %d -> %d", settled, got)
	}
}

func TestPollReplacesWholeList(t *testing.T) {
	api := &fakeChatAPI{conversation: Conversation{ID: 42}}
	api.setMessages([]Message{{ID: 1, SenderID: 7, Content: "tudo bem?"}})
	chat := newTestChat(api)

	var mu sync.Mutex
	var changes int
	session, err := chat.Open(context.Background(), 7, nil, func(messages []Message) {
		mu.Lock()
		changes++
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer session.Close()

	waitFor(t, func() bool { return len(session.Messages()) == 1 })

	// The server list shrinks; the local list follows wholesale
	api.setMessages(nil)
	waitFor(t, func() bool { return len(session.Messages()) == 0 })

	mu.Lock()
	defer mu.Unlock()
	if changes == 0 {
		t.Fatalf("onChange never fired")
	}
}

func TestSendAppendsImmediately(t *testing.T) {
	api := &fakeChatAPI{conversation: Conversation{ID: 42}, sendResp: Message{ID: 10, SenderID: 2}}
	// Polling yields errors so the local append is observable on its own
	api.setFetchErr(errors.New("fetch down"))
	chat := newTestChat(api)

	session, err := chat.Open(context.Background(), 7, nil, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer session.Close()

	if err := session.Send(context.Background(), "oi"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	messages := session.Messages()
	if len(messages) != 1 || messages[0].Content != "oi" {
		t.Fatalf("sent message not visible immediately: %+v", messages)
	}
}

func TestPollFailureProceedsNextTick(t *testing.T) {
	api := &fakeChatAPI{conversation: Conversation{ID: 42}}
	api.setFetchErr(errors.New("temporarily down"))
	chat := newTestChat(api)

	session, err := chat.Open(context.Background(), 7, nil, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer session.Close()

	waitFor(t, func() bool { return api.fetchCount() >= 2 })

	// Recovery: the next scheduled tick succeeds without backoff
	api.setMessages([]Message{{ID: 1, SenderID: 7, Content: "voltei"}})
	api.setFetchErr(nil)
	waitFor(t, func() bool { return len(session.Messages()) == 1 })
}
