package matchpoint

import (
	"context"

	"github.com/google/uuid"

	"github.com/matchpoint/client-go/internal/api"
)

// Conversations lists the user's chat threads.
func (c *Client) Conversations(ctx context.Context) ([]Conversation, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	conversations, err := c.apiClient.Conversations(ctx)
	if err != nil {
		return nil, c.wrap(err, ResourceUnknown)
	}
	return conversations, nil
}

// Messages returns a page of messages for a conversation, newest first.
// An empty cursor starts at the latest message; pass the page's
// NextCursor to continue.
func (c *Client) Messages(ctx context.Context, conversationID, cursor string, limit int) (*MessagesPage, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	page, err := c.apiClient.Messages(ctx, conversationID, cursor, limit)
	if err != nil {
		return nil, c.wrap(err, ResourceConversation)
	}
	return page, nil
}

// SendMessage posts a message to a conversation. A client-generated
// message ID makes the send idempotent: if a retried request reaches
// the server twice, the second write is a no-op.
func (c *Client) SendMessage(ctx context.Context, conversationID, body string) (*Message, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	msg, err := c.apiClient.SendMessage(ctx, conversationID, api.SendMessageRequest{
		ClientID: uuid.NewString(),
		Body:     body,
	})
	if err != nil {
		return nil, c.wrap(err, ResourceConversation)
	}
	return msg, nil
}

// MarkRead marks all messages up to and including messageID as read.
func (c *Client) MarkRead(ctx context.Context, conversationID, messageID string) error {
	if err := c.checkClosed(); err != nil {
		return err
	}
	return c.wrap(c.apiClient.MarkRead(ctx, conversationID, messageID), ResourceConversation)
}

// WatchMessages returns a channel that receives new messages for the
// conversation. The first call starts the realtime delivery strategy.
// The channel is not closed when the context is cancelled; select on
// ctx.Done() to detect cancellation.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
//	defer cancel()
//
//	ch, err := client.WatchMessages(ctx, conv.ID)
//	if err != nil {
//	    return err
//	}
//	for {
//	    select {
//	    case <-ctx.Done():
//	        return nil
//	    case msg := <-ch:
//	        fmt.Printf("%s: %s\n", msg.SenderID, msg.Body)
//	    }
//	}
func (c *Client) WatchMessages(ctx context.Context, conversationID string) (<-chan *Message, error) {
	if err := c.ensureStrategy(); err != nil {
		return nil, err
	}
	if err := c.registerConversation(conversationID); err != nil {
		return nil, err
	}

	ch := make(chan *Message, 16)
	unsub := c.subs.subscribe(conversationID, func(msg *Message) {
		// Spawn goroutine to guarantee delivery without blocking the
		// event source.
		go func(m *Message) { ch <- m }(msg)
	})

	// Cleanup goroutine: unsubscribe when the context is cancelled.
	// The channel is intentionally not closed, to avoid a race where an
	// in-flight callback sends after close.
	go func() {
		<-ctx.Done()
		unsub()
		c.releaseConversation(conversationID)
	}()

	return ch, nil
}

// WatchMessagesFunc calls fn for each new message in the conversation
// until the context is cancelled. Convenience wrapper around
// WatchMessages.
func (c *Client) WatchMessagesFunc(ctx context.Context, conversationID string, fn func(*Message)) error {
	ch, err := c.WatchMessages(ctx, conversationID)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-ch:
			if msg != nil {
				fn(msg)
			}
		}
	}
}
