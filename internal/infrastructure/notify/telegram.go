// Package notify delivers release notifications to a Telegram chat.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"ReleaseRadar/internal/domain"
	"ReleaseRadar/internal/ports"
)

const defaultCooldown = 24 * time.Hour

// TelegramNotifier sends release messages via the Telegram bot API. It keeps
// its own deduplication window: repeated sightings of the same release within
// the cooldown are dropped here, not upstream.
type TelegramNotifier struct {
	botToken string
	chatID   string
	client   *http.Client

	mu       sync.Mutex
	lastSent map[string]time.Time
	cooldown time.Duration
	now      func() time.Time
}

var _ ports.Notifier = (*TelegramNotifier)(nil)

// NewTelegramNotifier registers the bot token and chat identifier.
func NewTelegramNotifier(botToken, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 5 * time.Second},
		lastSent: make(map[string]time.Time),
		cooldown: defaultCooldown,
		now:      time.Now,
	}
}

// NotifyRelease posts a message for the item unless the same release was
// announced within the cooldown window.
func (n *TelegramNotifier) NotifyRelease(ctx context.Context, item domain.ReleaseItem) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	if !n.shouldSend(item.Key()) {
		return nil
	}

	return n.send(ctx, formatMessage(item))
}

func (n *TelegramNotifier) shouldSend(key string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	now := n.now()
	if sent, ok := n.lastSent[key]; ok && now.Sub(sent) < n.cooldown {
		return false
	}
	n.lastSent[key] = now
	return true
}

func (n *TelegramNotifier) send(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", text)
	form.Set("parse_mode", "Markdown")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}

func formatMessage(item domain.ReleaseItem) string {
	msg := fmt.Sprintf("*%s*\nBuild %s (%s)", item.DisplayTitle(), item.Build, item.Status.DisplayName())
	if !item.PublishedAt.IsZero() {
		msg += "\n" + item.PublishedAt.Format("Jan 2, 2006 15:04 MST")
	}
	return msg
}
