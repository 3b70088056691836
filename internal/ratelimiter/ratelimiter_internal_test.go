package ratelimiter

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type stubAPI struct {
	mu     sync.Mutex
	sent   []tgbotapi.Chattable
	reqs   int
	nextID int
}

func (s *stubAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sent = append(s.sent, c)
	s.nextID++

	return tgbotapi.Message{MessageID: s.nextID}, nil
}

func (s *stubAPI) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reqs++

	return &tgbotapi.APIResponse{Ok: true}, nil
}

func TestGetDelay(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		chatID   int64
		lastSent time.Time
		wantZero bool
	}{
		{"private chat without delay", 123456789, now.Add(-2 * time.Second), true},
		{"private chat with delay", 123456789, now.Add(-500 * time.Millisecond), false},
		{"group chat without delay", -123456789, now.Add(-4 * time.Second), true},
		{"group chat with delay", -123456789, now.Add(-1 * time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := getDelay(tt.chatID, tt.lastSent)

			if tt.wantZero && got > 0 {
				t.Errorf("getDelay() = %v, want 0", got)
			}
			if !tt.wantZero && got <= 0 {
				t.Errorf("getDelay() = %v, want positive", got)
			}
		})
	}
}

func TestGetChatID(t *testing.T) {
	tests := []struct {
		name    string
		message tgbotapi.Chattable
		want    int64
	}{
		{"message", tgbotapi.NewMessage(12345, "test"), 12345},
		{"chat action", tgbotapi.NewChatAction(67890, tgbotapi.ChatTyping), 67890},
		{"edit", tgbotapi.NewEditMessageText(-100, 7, "text"), -100},
		{"unknown", tgbotapi.NewSetMyCommands(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getChatID(tt.message); got != tt.want {
				t.Errorf("getChatID() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSendReturnsMessage(t *testing.T) {
	api := &stubAPI{}
	rl := New(api, slog.Default())
	t.Cleanup(rl.Stop)

	msg, err := rl.Send(context.Background(), tgbotapi.NewMessage(1, "a"))
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if msg.MessageID != 1 {
		t.Fatalf("Send() MessageID = %d, want 1", msg.MessageID)
	}
	if rl.Tracked() != 1 {
		t.Fatalf("Tracked() = %d, want 1", rl.Tracked())
	}
}

func TestSendHonorsContextWhileDelayed(t *testing.T) {
	api := &stubAPI{}
	rl := New(api, slog.Default())
	t.Cleanup(rl.Stop)

	if _, err := rl.Send(context.Background(), tgbotapi.NewMessage(-5, "a")); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := rl.Send(ctx, tgbotapi.NewMessage(-5, "b"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Send() error = %v, want deadline exceeded", err)
	}
}

func TestSendAfterStop(t *testing.T) {
	rl := New(&stubAPI{}, slog.Default())
	rl.Stop()

	time.Sleep(10 * time.Millisecond)

	if _, err := rl.Send(context.Background(), tgbotapi.NewMessage(1, "a")); err == nil {
		t.Fatalf("Send() after Stop succeeded")
	}
}

func TestPrune(t *testing.T) {
	rl := New(&stubAPI{}, slog.Default())
	t.Cleanup(rl.Stop)

	rl.mu.Lock()
	rl.lastSent[1] = time.Now().Add(-time.Hour)
	rl.lastSent[2] = time.Now().Add(-2 * time.Hour)
	rl.lastSent[3] = time.Now()
	rl.mu.Unlock()

	if got := rl.Prune(30 * time.Minute); got != 2 {
		t.Fatalf("Prune() = %d, want 2", got)
	}
	if got := rl.Tracked(); got != 1 {
		t.Fatalf("Tracked() = %d, want 1", got)
	}
}
