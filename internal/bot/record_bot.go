package bot

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"minesweeper/internal/domain"
	"minesweeper/internal/game"
	"minesweeper/internal/logger"
	"minesweeper/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender is the part of tgbotapi.BotAPI the bot uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// RecordBot announces new leaderboard records to one chat and answers
// leaderboard queries there.
type RecordBot struct {
	api         *tgbotapi.BotAPI
	out         sender
	leaderboard *service.LeaderboardService
	chatID      int64
	stopCh      chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
	log         *slog.Logger
}

// NewRecordBot creates a new record bot
func NewRecordBot(token string, lb *service.LeaderboardService, chatID int64) (*RecordBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	b := newRecordBot(api, lb, chatID)
	b.api = api
	b.log.Info("record bot authorized", "username", api.Self.UserName)
	return b, nil
}

func newRecordBot(out sender, lb *service.LeaderboardService, chatID int64) *RecordBot {
	return &RecordBot{
		out:         out,
		leaderboard: lb,
		chatID:      chatID,
		stopCh:      make(chan struct{}),
		log:         logger.With("component", "record_bot"),
	}
}

// OnRecord is a service.RecordFunc. Only first places are announced.
func (b *RecordBot) OnRecord(e *domain.LeaderboardEntry, rank int) {
	if rank != 1 {
		return
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.send(formatRecord(e))
	}()
}

// Start starts listening for commands
func (b *RecordBot) Start() {
	if b.api == nil {
		return
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.log.Info("starting bot update loop")

	for {
		select {
		case <-b.stopCh:
			b.log.Info("stopping bot update loop")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			msg := update.Message
			if msg == nil || !msg.IsCommand() || msg.Chat.ID != b.chatID {
				continue
			}

			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				b.handleCommand(msg)
			}(msg)
		}
	}
}

// Stop gracefully stops the bot
func (b *RecordBot) Stop() {
	b.stopOnce.Do(func() {
		close(b.stopCh)
		if b.api != nil {
			b.api.StopReceivingUpdates()
		}
	})

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.log.Info("record bot stopped gracefully")
	case <-time.After(10 * time.Second):
		b.log.Warn("record bot shutdown timeout, some handlers may not have completed")
	}
}

func (b *RecordBot) handleCommand(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var response string
	switch msg.Command() {
	case "start", "help":
		response = helpMessage
	case "top":
		response = b.handleTop(ctx, msg.CommandArguments())
	default:
		response = "❌ Неизвестная команда. Используйте /help для списка команд."
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, response)
	reply.ParseMode = "HTML"
	reply.ReplyToMessageID = msg.MessageID
	if _, err := b.out.Send(reply); err != nil {
		b.log.Error("error sending message", "error", err)
	}
}

func (b *RecordBot) send(text string) {
	m := tgbotapi.NewMessage(b.chatID, text)
	m.ParseMode = "HTML"
	if _, err := b.out.Send(m); err != nil {
		b.log.Error("error sending message", "error", err)
	}
}

const helpMessage = `<b>💣 Рекорды сапёра</b>

/top &lt;easy|medium|hard|all&gt; [лимит] - Лучшие времена`

// handleTop: /top <difficulty> [limit]
func (b *RecordBot) handleTop(ctx context.Context, args string) string {
	parts := strings.Fields(args)
	if len(parts) == 0 || len(parts) > 2 {
		return "❌ Использование: /top <easy|medium|hard|all> [лимит]"
	}

	f := domain.DefaultLeaderboardFilter()
	f.Difficulty = parts[0]
	if len(parts) == 2 {
		if n, err := strconv.Atoi(parts[1]); err == nil && n > 0 && n <= 50 {
			f.Limit = n
		}
	}

	entries, err := b.leaderboard.List(ctx, f)
	if err != nil {
		return fmt.Sprintf("❌ Ошибка: %s", html.EscapeString(err.Error()))
	}
	return formatTop(parts[0], entries)
}

func formatRecord(e *domain.LeaderboardEntry) string {
	return fmt.Sprintf("🏆 <b>Новый рекорд!</b>\n\n%s прошёл %s за %s",
		html.EscapeString(e.PlayerName), difficultyLabel(e.Difficulty), formatSeconds(e.Time))
}

func formatTop(difficulty string, entries []*domain.LeaderboardEntry) string {
	if len(entries) == 0 {
		return "❌ Записей пока нет"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>🏆 Топ %d: %s</b>\n\n", len(entries), difficultyLabel(difficulty))
	for i, e := range entries {
		fmt.Fprintf(&sb, "%d. %s - %s", i+1, html.EscapeString(e.PlayerName), formatSeconds(e.Time))
		if difficulty == "all" {
			fmt.Fprintf(&sb, " (%s)", e.Difficulty)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func difficultyLabel(d string) string {
	switch game.Difficulty(d) {
	case game.Easy:
		return "лёгкий уровень"
	case game.Medium:
		return "средний уровень"
	case game.Hard:
		return "сложный уровень"
	default:
		return "все уровни"
	}
}

// formatSeconds renders 75 as "1:15".
func formatSeconds(s int) string {
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
