package notify

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"ReleaseRadar/internal/domain"
)

// captureTransport records outgoing requests and answers 200 OK.
type captureTransport struct {
	requests []*http.Request
	forms    []url.Values
}

func (c *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	body, _ := io.ReadAll(req.Body)
	form, _ := url.ParseQuery(string(body))
	c.requests = append(c.requests, req)
	c.forms = append(c.forms, form)
	return &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Body:       io.NopCloser(strings.NewReader("{}")),
		Header:     make(http.Header),
	}, nil
}

func testItem() domain.ReleaseItem {
	return domain.ReleaseItem{
		Platform:    domain.PlatformIOS,
		Version:     "18.1",
		Build:       "22B83",
		Channel:     domain.ChannelRelease,
		PublishedAt: time.Date(2024, time.October, 28, 17, 0, 0, 0, time.UTC),
		Status:      domain.StatusConfirmed,
	}
}

func TestNotifyReleaseSendsOnce(t *testing.T) {
	t.Parallel()

	transport := &captureTransport{}
	n := NewTelegramNotifier("token", "chat")
	n.client = &http.Client{Transport: transport}

	clock := time.Date(2024, time.October, 28, 18, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return clock }

	item := testItem()
	if err := n.NotifyRelease(context.Background(), item); err != nil {
		t.Fatalf("NotifyRelease: %v", err)
	}
	// Same release within the cooldown: silently dropped.
	clock = clock.Add(time.Hour)
	if err := n.NotifyRelease(context.Background(), item); err != nil {
		t.Fatalf("NotifyRelease repeat: %v", err)
	}
	if len(transport.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(transport.requests))
	}

	form := transport.forms[0]
	if form.Get("chat_id") != "chat" {
		t.Fatalf("chat_id = %q", form.Get("chat_id"))
	}
	if !strings.Contains(form.Get("text"), "iOS 18.1") {
		t.Fatalf("text = %q", form.Get("text"))
	}
	if !strings.Contains(transport.requests[0].URL.Path, "bottoken") {
		t.Fatalf("unexpected endpoint: %s", transport.requests[0].URL)
	}
}

func TestNotifyReleaseResendsAfterCooldown(t *testing.T) {
	t.Parallel()

	transport := &captureTransport{}
	n := NewTelegramNotifier("token", "chat")
	n.client = &http.Client{Transport: transport}

	clock := time.Date(2024, time.October, 28, 18, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return clock }

	item := testItem()
	_ = n.NotifyRelease(context.Background(), item)
	clock = clock.Add(defaultCooldown + time.Minute)
	_ = n.NotifyRelease(context.Background(), item)

	if len(transport.requests) != 2 {
		t.Fatalf("expected resend after cooldown, got %d requests", len(transport.requests))
	}
}

func TestNotifyReleaseMisconfigured(t *testing.T) {
	t.Parallel()

	n := NewTelegramNotifier("", "")
	if err := n.NotifyRelease(context.Background(), testItem()); err == nil {
		t.Fatal("expected error without credentials")
	}
}

func TestShouldSendPerKey(t *testing.T) {
	t.Parallel()

	n := NewTelegramNotifier("token", "chat")
	clock := time.Date(2024, time.October, 28, 18, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return clock }

	if !n.shouldSend("a") {
		t.Fatal("first send must pass")
	}
	if n.shouldSend("a") {
		t.Fatal("repeat within cooldown must be dropped")
	}
	if !n.shouldSend("b") {
		t.Fatal("distinct keys are independent")
	}
}

func TestFormatMessage(t *testing.T) {
	t.Parallel()

	got := formatMessage(testItem())
	if !strings.HasPrefix(got, "*iOS 18.1 - Release*") {
		t.Fatalf("message = %q", got)
	}
	if !strings.Contains(got, "Build 22B83 (confirmed)") {
		t.Fatalf("message = %q", got)
	}
	if !strings.Contains(got, "Oct 28, 2024") {
		t.Fatalf("message missing date: %q", got)
	}
}
