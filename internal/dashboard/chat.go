package dashboard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jgoulah/energydash/pkg/models"
)

// ChatPanel sends questions to the chatbot and keeps the visible log
type ChatPanel struct {
	backend Backend
	view    View
	alerter
	now func() time.Time

	mu  sync.Mutex
	log []models.ChatMessage
}

// Send posts a question. Blank input is ignored.
func (c *ChatPanel) Send(ctx context.Context, input string) error {
	question := strings.TrimSpace(input)
	if question == "" {
		return nil
	}

	c.append(models.SenderUser, question, false)
	c.view.SetValue(InputChat, "")

	reply, err := c.backend.Ask(ctx, question)
	if err != nil {
		if !isAPIError(err) {
			c.logger.Error("chat request failed", zap.Error(err))
		}
		msg := msgChatError
		if text := failureMessage(err, ""); text != "" {
			msg = "Error: " + text
		}
		c.append(models.SenderBot, msg, true)
		return &AlertError{Message: msg, Err: err}
	}
	c.append(models.SenderBot, reply, false)
	return nil
}

// Messages returns a copy of the log in the order it was written
func (c *ChatPanel) Messages() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.ChatMessage(nil), c.log...)
}

func (c *ChatPanel) append(sender models.Sender, text string, isErr bool) {
	msg := models.ChatMessage{
		ID:     uuid.NewString(),
		Sender: sender,
		Text:   text,
		Error:  isErr,
		Time:   c.now(),
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log = append(c.log, msg)
	c.view.AppendMessage(msg)
}
