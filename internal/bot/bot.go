package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/factory-bot/internal/dialog"
	"github.com/Spok95/factory-bot/internal/domain/department"
	"github.com/Spok95/factory-bot/internal/domain/dishes"
	"github.com/Spok95/factory-bot/internal/domain/transfers"
	"github.com/Spok95/factory-bot/internal/domain/users"
)

// API Узкий срез *tgbotapi.BotAPI, который нужен боту.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type UserStore interface {
	GetByTelegramID(ctx context.Context, tgID int64) (*users.User, error)
	GetByID(ctx context.Context, id int64) (*users.User, error)
	Create(ctx context.Context, tgID int64, fullName string, role users.Role, dep department.Department, approved bool) (*users.User, error)
	Approve(ctx context.Context, id int64) error
	SetRole(ctx context.Context, id int64, role users.Role) error
	ListUnapproved(ctx context.Context) ([]users.User, error)
	ListStaff(ctx context.Context) ([]users.User, error)
	ListApprovedByDepartment(ctx context.Context, dep department.Department) ([]users.User, error)
	ListApprovedAdmins(ctx context.Context) ([]users.User, error)
}

type DishStore interface {
	Create(ctx context.Context, name, category string) (*dishes.Dish, error)
	GetByID(ctx context.Context, id int64) (*dishes.Dish, error)
	List(ctx context.Context) ([]dishes.Dish, error)
}

type TransferStore interface {
	Create(ctx context.Context, fromUserID int64, from, to department.Department, dishID int64, qty float64, labelDate string) (*transfers.Transaction, error)
	Resolve(ctx context.Context, id int64, dep department.Department, action transfers.Action) (bool, error)
	GetByID(ctx context.Context, id int64) (*transfers.Transaction, error)
	ListPendingForDepartment(ctx context.Context, dep department.Department) ([]transfers.Transaction, error)
	ListByDate(ctx context.Context, day time.Time) ([]transfers.Transaction, error)
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

type AuditStore interface {
	Log(ctx context.Context, userID int64, action string) error
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

type Bot struct {
	api           API
	log           *slog.Logger
	users         UserStore
	dishes        DishStore
	transfers     TransferStore
	audit         AuditStore
	states        *dialog.Store
	superAdmin    int64
	retentionDays int

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func New(api API, log *slog.Logger,
	userStore UserStore, dishStore DishStore,
	transferStore TransferStore, auditStore AuditStore,
	states *dialog.Store, superAdminID int64, retentionDays int) *Bot {

	return &Bot{
		api: api, log: log, users: userStore, dishes: dishStore,
		transfers: transferStore, audit: auditStore, states: states,
		superAdmin: superAdminID, retentionDays: retentionDays,
		locks: make(map[int64]*sync.Mutex),
	}
}

// Run Читает апдейты и обрабатывает их по горутине на апдейт,
// но не более одного одновременно на каждый чат.
func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			chatID := updateChatID(upd)
			if chatID == 0 {
				continue
			}
			go func(upd tgbotapi.Update) {
				lk := b.lockFor(chatID)
				lk.Lock()
				defer lk.Unlock()
				b.dispatch(ctx, upd)
			}(upd)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		b.onMessage(ctx, upd.Message)
	} else if upd.CallbackQuery != nil {
		b.handleCallback(ctx, upd.CallbackQuery)
	}
}

func (b *Bot) onMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleStateMessage(ctx, msg)
}

func (b *Bot) lockFor(chatID int64) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	lk, ok := b.locks[chatID]
	if !ok {
		lk = &sync.Mutex{}
		b.locks[chatID] = lk
	}
	return lk
}

func updateChatID(upd tgbotapi.Update) int64 {
	if upd.Message != nil {
		return upd.Message.Chat.ID
	}
	if upd.CallbackQuery != nil && upd.CallbackQuery.Message != nil {
		return upd.CallbackQuery.Message.Chat.ID
	}
	return 0
}
