package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// CommandHandler is called when a chat command is received. A non-empty
// return value is sent back as the reply.
type CommandHandler func(ctx context.Context, command string) string

// telegramUpdate represents a Telegram update from long polling.
type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// CanPoll reports whether commands can be matched to the configured chat.
// Updates carry numeric chat ids only, so a @channelusername target cannot
// receive commands.
func (t *TelegramNotifier) CanPoll() bool {
	_, err := strconv.ParseInt(t.ChatID, 10, 64)
	return err == nil
}

// StartPolling begins long-polling for Telegram commands. Blocks until ctx is
// cancelled. Returns at once when the chat id is not numeric.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	if !t.CanPoll() {
		log.WithField("chat_id", t.ChatID).Warn("chat id is not numeric, command polling disabled")
		return
	}
	offset := 0
	client := &http.Client{Timeout: 35 * time.Second, Transport: t.Client.Transport}

	for {
		select {
		case <-ctx.Done():
			log.Info("Telegram polling stopped")
			return
		default:
		}

		apiURL := fmt.Sprintf("%s?offset=%d&timeout=30", t.method("getUpdates"), offset)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			log.Errorf("create polling request: %v", err)
			sleep(ctx, 5*time.Second)
			continue
		}

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warnf("polling request failed: %v", t.redact(err))
			sleep(ctx, 5*time.Second)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			log.Warnf("read polling response: %v", err)
			continue
		}

		var result struct {
			OK     bool             `json:"ok"`
			Result []telegramUpdate `json:"result"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			log.Warnf("decode polling response: %v", err)
			continue
		}
		if !result.OK {
			log.Warnf("polling rejected: status %d", resp.StatusCode)
			sleep(ctx, 5*time.Second)
			continue
		}

		offset = t.dispatch(ctx, result.Result, handler, offset)
	}
}

// dispatch hands each command from the configured chat to the handler and
// returns the next update offset.
func (t *TelegramNotifier) dispatch(ctx context.Context, updates []telegramUpdate, handler CommandHandler, offset int) int {
	for _, update := range updates {
		offset = update.UpdateID + 1
		if update.Message == nil || update.Message.Text == "" {
			continue
		}
		if strconv.FormatInt(update.Message.Chat.ID, 10) != t.ChatID {
			log.Warnf("ignoring message from chat %d", update.Message.Chat.ID)
			continue
		}
		text := commandName(update.Message.Text)
		log.Infof("received command: %s", text)
		reply := handler(ctx, text)
		if reply != "" {
			if err := t.Send(ctx, reply); err != nil {
				log.Errorf("send reply: %v", err)
			}
		}
	}
	return offset
}

// commandName trims the text and drops a "@botname" suffix from the command.
func commandName(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "/") {
		if i := strings.IndexByte(text, '@'); i > 0 {
			text = text[:i]
		}
	}
	return text
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
