package bot

import (
	"context"
	"fmt"
	"io"
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

/*** Телеграм-API с записью исходящих сообщений ***/

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	failChat map[int64]bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{failChat: map[int64]bool{}}
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok && f.failChat[m.ChatID] {
		return tgbotapi.Message{}, fmt.Errorf("chat %d unreachable", m.ChatID)
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}

// messagesTo Тексты сообщений, отправленных в указанный чат.
func (f *fakeAPI) messagesTo(chatID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			if m.ChatID == chatID {
				out = append(out, m.Text)
			}
		case tgbotapi.EditMessageTextConfig:
			if m.ChatID == chatID {
				out = append(out, m.Text)
			}
		}
	}
	return out
}

/*** Хранилища в памяти ***/

type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*users.User
}

func newMemUsers() *memUsers {
	return &memUsers{nextID: 1, byID: map[int64]*users.User{}}
}

func (s *memUsers) add(tgID int64, name string, role users.Role, dep department.Department, approved bool) *users.User {
	u, _ := s.Create(context.Background(), tgID, name, role, dep, approved)
	return u
}

func (s *memUsers) GetByTelegramID(_ context.Context, tgID int64) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.TelegramID == tgID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memUsers) GetByID(_ context.Context, id int64) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *memUsers) Create(_ context.Context, tgID int64, fullName string, role users.Role, dep department.Department, approved bool) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.TelegramID == tgID {
			return nil, users.ErrAlreadyRegistered
		}
	}
	u := &users.User{
		ID: s.nextID, TelegramID: tgID, FullName: fullName,
		Role: role, Department: dep, Approved: approved, CreatedAt: time.Now(),
	}
	s.byID[u.ID] = u
	s.nextID++
	cp := *u
	return &cp, nil
}

func (s *memUsers) Approve(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byID[id]; ok {
		u.Approved = true
	}
	return nil
}

func (s *memUsers) SetRole(_ context.Context, id int64, role users.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byID[id]; ok {
		u.Role = role
	}
	return nil
}

func (s *memUsers) ListUnapproved(_ context.Context) ([]users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []users.User
	for id := int64(1); id < s.nextID; id++ {
		if u, ok := s.byID[id]; ok && !u.Approved {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *memUsers) ListStaff(_ context.Context) ([]users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []users.User
	for id := int64(1); id < s.nextID; id++ {
		if u, ok := s.byID[id]; ok && u.Approved && u.Role != users.RoleAdmin {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *memUsers) ListApprovedByDepartment(_ context.Context, dep department.Department) ([]users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []users.User
	for id := int64(1); id < s.nextID; id++ {
		if u, ok := s.byID[id]; ok && u.Approved && u.Department == dep {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *memUsers) ListApprovedAdmins(_ context.Context) ([]users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []users.User
	for id := int64(1); id < s.nextID; id++ {
		if u, ok := s.byID[id]; ok && u.Approved && u.Role == users.RoleAdmin {
			out = append(out, *u)
		}
	}
	return out, nil
}

type memDishes struct {
	mu     sync.Mutex
	nextID int64
	list   []dishes.Dish
}

func newMemDishes() *memDishes { return &memDishes{nextID: 1} }

func (s *memDishes) Create(_ context.Context, name, category string) (*dishes.Dish, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := dishes.Dish{ID: s.nextID, Name: name, Category: category, CreatedAt: time.Now()}
	s.list = append(s.list, d)
	s.nextID++
	return &d, nil
}

func (s *memDishes) GetByID(_ context.Context, id int64) (*dishes.Dish, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.list {
		if d.ID == id {
			cp := d
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memDishes) List(_ context.Context) ([]dishes.Dish, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]dishes.Dish(nil), s.list...), nil
}

type memTransfers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*transfers.Transaction
	dishes *memDishes
}

func newMemTransfers(d *memDishes) *memTransfers {
	return &memTransfers{nextID: 1, byID: map[int64]*transfers.Transaction{}, dishes: d}
}

func (s *memTransfers) Create(ctx context.Context, fromUserID int64, from, to department.Department, dishID int64, qty float64, labelDate string) (*transfers.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	t := &transfers.Transaction{
		ID: s.nextID, FromUserID: fromUserID, FromDepartment: from, ToDepartment: to,
		DishID: dishID, Quantity: qty, LabelDate: labelDate, CreatedAt: now,
		Status: transfers.InitialStatus(from, to),
	}
	if t.Status == transfers.StatusAutoDone {
		t.AcceptedAt = &now
	}
	if d, _ := s.dishes.GetByID(ctx, dishID); d != nil {
		t.DishName = d.Name
	}
	s.byID[t.ID] = t
	s.nextID++
	cp := *t
	return &cp, nil
}

// Resolve Те же CAS-семантики, что и в условном UPDATE: меняет строку только
// если она существует, адресована dep и всё ещё pending.
func (s *memTransfers) Resolve(_ context.Context, id int64, dep department.Department, action transfers.Action) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[id]
	if !ok || t.ToDepartment != dep || t.Status != transfers.StatusPending {
		return false, nil
	}
	switch action {
	case transfers.ActionAccept:
		now := time.Now()
		t.Status = transfers.StatusAccepted
		t.AcceptedAt = &now
	case transfers.ActionReject:
		t.Status = transfers.StatusRejected
	default:
		return false, fmt.Errorf("unknown action %q", action)
	}
	return true, nil
}

func (s *memTransfers) GetByID(_ context.Context, id int64) (*transfers.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.byID[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (s *memTransfers) ListPendingForDepartment(_ context.Context, dep department.Department) ([]transfers.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []transfers.Transaction
	for id := int64(1); id < s.nextID; id++ {
		if t, ok := s.byID[id]; ok && t.ToDepartment == dep && t.Status == transfers.StatusPending {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *memTransfers) ListByDate(_ context.Context, day time.Time) ([]transfers.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []transfers.Transaction
	for id := s.nextID - 1; id >= 1; id-- {
		t, ok := s.byID[id]
		if !ok {
			continue
		}
		if day.IsZero() || sameDay(t.CreatedAt, day) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *memTransfers) DeleteOlderThan(_ context.Context, days int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().AddDate(0, 0, -days)
	var n int64
	for id, t := range s.byID {
		if t.CreatedAt.Before(cutoff) {
			delete(s.byID, id)
			n++
		}
	}
	return n, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

type memAudit struct {
	mu      sync.Mutex
	entries []string
}

func (s *memAudit) Log(_ context.Context, userID int64, action string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, fmt.Sprintf("%d: %s", userID, action))
	return nil
}

func (s *memAudit) DeleteOlderThan(context.Context, int) (int64, error) {
	return 0, nil
}

/*** Сборка бота под тесты ***/

type env struct {
	bot       *Bot
	api       *fakeAPI
	users     *memUsers
	dishes    *memDishes
	transfers *memTransfers
	audit     *memAudit
}

func newEnv(superAdminID int64) *env {
	api := newFakeAPI()
	us := newMemUsers()
	ds := newMemDishes()
	ts := newMemTransfers(ds)
	au := &memAudit{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := New(api, log, us, ds, ts, au, dialog.NewStore(), superAdminID, 30)
	return &env{bot: b, api: api, users: us, dishes: ds, transfers: ts, audit: au}
}

func textMsg(chatID, tgID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: chatID},
		From:      &tgbotapi.User{ID: tgID},
		Text:      text,
	}
}

func callback(chatID, tgID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: tgID},
		Message: &tgbotapi.Message{MessageID: 1, Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    data,
	}
}
