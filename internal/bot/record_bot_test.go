package bot

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"minesweeper/internal/game"
	"minesweeper/internal/repository/sqlite"
	"minesweeper/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) messages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.MessageConfig(nil), f.sent...)
}

func newTestBot(t *testing.T) (*RecordBot, *service.LeaderboardService, *fakeSender) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "bot.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(store.Close)

	lb := service.NewLeaderboardService(store, 20)
	out := &fakeSender{}
	b := newRecordBot(out, lb, -100)
	lb.OnRecord(b.OnRecord)
	return b, lb, out
}

func won(d game.Difficulty, elapsed int) game.Result {
	p, _ := game.ParamsFor(d)
	return game.Result{Status: game.StatusWon, Difficulty: d, Rows: p.Rows, Cols: p.Cols, Mines: p.Mines, ElapsedSeconds: elapsed}
}

func TestOnlyFirstPlaceIsAnnounced(t *testing.T) {
	b, lb, out := newTestBot(t)
	ctx := context.Background()

	for _, sec := range []int{80, 95, 61} {
		if _, err := lb.Submit(ctx, 0, "<anna>", won(game.Easy, sec)); err != nil {
			t.Fatal(err)
		}
	}
	b.Stop()

	msgs := out.messages()
	if len(msgs) != 2 {
		t.Fatalf("sent %d messages; want 2", len(msgs))
	}
	last := msgs[0].Text + msgs[1].Text
	if !strings.Contains(last, "&lt;anna&gt;") || !strings.Contains(last, "1:01") {
		t.Fatalf("messages %q", last)
	}
	for _, m := range msgs {
		if m.ChatID != -100 || m.ParseMode != "HTML" {
			t.Fatalf("message %+v", m)
		}
	}
}

func TestHandleTop(t *testing.T) {
	b, lb, _ := newTestBot(t)
	ctx := context.Background()
	lb.Submit(ctx, 0, "bob", won(game.Hard, 300))
	lb.Submit(ctx, 0, "eve", won(game.Medium, 125))
	b.Stop()

	tests := []struct {
		args string
		want []string
	}{
		{"", []string{"Использование"}},
		{"hard", []string{"1. bob - 5:00"}},
		{"all 5", []string{"(hard)", "(medium)"}},
		{"easy", []string{"Записей пока нет"}},
		{"custom", []string{"Ошибка"}},
	}
	for _, tt := range tests {
		got := b.handleTop(ctx, tt.args)
		for _, w := range tt.want {
			if !strings.Contains(got, w) {
				t.Errorf("/top %s = %q; want %q", tt.args, got, w)
			}
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	for in, want := range map[int]string{0: "0:00", 9: "0:09", 75: "1:15", 3600: "60:00"} {
		if got := formatSeconds(in); got != want {
			t.Errorf("formatSeconds(%d) = %q; want %q", in, got, want)
		}
	}
}

