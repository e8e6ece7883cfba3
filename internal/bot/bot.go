package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xaenox/datalake-chat/internal/dispatch"
	"github.com/xaenox/datalake-chat/internal/models"
	"go.uber.org/zap"
)

// Telegram rejects longer messages
const maxMessageLength = 4000

const historyLimit = 5

// Dispatcher runs interactions and lists past ones
type Dispatcher interface {
	Run(ctx context.Context, req dispatch.Request) (*dispatch.Outcome, error)
	History(ctx context.Context, limit int) ([]*models.Interaction, error)
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// chatState is what the sidebar holds in the browser UI: a folder and a file type
type chatState struct {
	folder   string
	category models.Category
}

type Bot struct {
	api        *tgbotapi.BotAPI
	sender     sender
	dispatcher Dispatcher
	logger     *zap.Logger

	mu    sync.Mutex
	chats map[int64]*chatState
}

func New(token string, dispatcher Dispatcher, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := newBot(api, dispatcher, logger)
	b.api = api
	return b, nil
}

func newBot(s sender, dispatcher Dispatcher, logger *zap.Logger) *Bot {
	return &Bot{
		sender:     s,
		dispatcher: dispatcher,
		logger:     logger,
		chats:      make(map[int64]*chatState),
	}
}

// Start polls for updates until ctx is done
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info("Telegram bot started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	question := strings.TrimSpace(message.Text)
	if question == "" {
		return
	}

	state := b.state(message.Chat.ID)
	if state.folder == "" {
		b.sendMessage(message.Chat.ID, "Set a folder first with /folder <path>.")
		return
	}

	b.run(ctx, message.Chat.ID, dispatch.Request{
		Folder:   state.folder,
		Category: state.category,
		Question: question,
	})
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "help":
		b.handleHelp(message)
	case "folder":
		b.handleFolder(ctx, message)
	case "type":
		b.handleType(message)
	case "history":
		b.handleHistory(ctx, message)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	welcome := `Welcome to Smart Data Analysis!
Point me at a folder of CSV or Excel files and ask questions about them in plain language.

Use /help to see all available commands.`

	b.sendMessage(message.Chat.ID, welcome)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	help := `Available commands:
/folder <path> - Load the CSV and Excel files in a folder
/type csv|excel - Choose which files to query (default: csv)
/history - Show recent questions

Any other message is sent as a question about the selected files.`

	b.sendMessage(message.Chat.ID, help)
}

func (b *Bot) handleFolder(ctx context.Context, message *tgbotapi.Message) {
	folder := strings.TrimSpace(message.CommandArguments())
	if folder == "" {
		b.sendMessage(message.Chat.ID, "Usage: /folder <path>")
		return
	}

	b.mu.Lock()
	b.stateLocked(message.Chat.ID).folder = folder
	b.mu.Unlock()

	// Show the per-file notices right away, like entering the path in the sidebar
	b.run(ctx, message.Chat.ID, dispatch.Request{Folder: folder})
}

func (b *Bot) handleType(message *tgbotapi.Message) {
	category, err := models.ParseCategory(message.CommandArguments())
	if err != nil {
		b.sendMessage(message.Chat.ID, "Usage: /type csv|excel")
		return
	}

	b.mu.Lock()
	b.stateLocked(message.Chat.ID).category = category
	b.mu.Unlock()

	b.sendMessage(message.Chat.ID, fmt.Sprintf("Questions will now go to the %s files.", category.Label()))
}

func (b *Bot) handleHistory(ctx context.Context, message *tgbotapi.Message) {
	interactions, err := b.dispatcher.History(ctx, historyLimit)
	if err != nil {
		b.logger.Error("Failed to get history",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't retrieve the question history.")
		return
	}

	if len(interactions) == 0 {
		b.sendMessage(message.Chat.ID, "No questions have been asked yet.")
		return
	}

	b.sendMessage(message.Chat.ID, formatHistory(interactions))
}

func (b *Bot) run(ctx context.Context, chatID int64, req dispatch.Request) {
	out, err := b.dispatcher.Run(ctx, req)
	if err != nil {
		b.logger.Error("Failed to run interaction",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.String("folder", req.Folder))
		b.sendErrorMessage(chatID, "Sorry, I couldn't answer that: "+err.Error())
		return
	}

	b.sendMessage(chatID, formatOutcome(out))
}

// state returns a snapshot of the chat's settings
func (b *Bot) state(chatID int64) chatState {
	b.mu.Lock()
	defer b.mu.Unlock()

	return *b.stateLocked(chatID)
}

func (b *Bot) stateLocked(chatID int64) *chatState {
	s, exists := b.chats[chatID]
	if !exists {
		s = &chatState{category: models.CategoryCSV}
		b.chats[chatID] = s
	}
	return s
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, truncate(text, maxMessageLength))
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	b.sendMessage(chatID, "⚠️ "+text)
}
