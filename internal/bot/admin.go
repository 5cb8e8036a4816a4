package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/factory-bot/internal/dialog"
	"github.com/Spok95/factory-bot/internal/domain/users"
)

func (b *Bot) adminCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	u := b.approvedUser(ctx, cb.From.ID)
	if u == nil || !u.IsAdmin() {
		b.answerCallback(cb, "Нет прав администратора.", true)
		return
	}

	data := cb.Data
	switch {
	case data == "adm:pending":
		b.showPendingUsers(ctx, cb)

	case strings.HasPrefix(data, "adm:approve:"):
		b.approveUser(ctx, cb)

	case data == "adm:roles":
		b.showStaffRoles(ctx, cb)

	case strings.HasPrefix(data, "adm:role:"):
		b.setUserRole(ctx, cb)

	case data == "adm:dish:add":
		b.states.Set(chatID, dialog.StateAdmDishNew, dialog.Payload{})
		b.answerCallback(cb, "", false)
		b.editTextAndClear(chatID, cb.Message.MessageID,
			"Введите новое блюдо в формате: Название, Категория")

	case data == "adm:cleanup":
		b.cleanup(ctx, cb, u.ID)

	default:
		b.answerCallback(cb, "", false)
	}
}

func (b *Bot) showPendingUsers(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	b.answerCallback(cb, "", false)

	list, err := b.users.ListUnapproved(ctx)
	if err != nil {
		b.editTextAndClear(chatID, cb.Message.MessageID, "Ошибка загрузки пользователей.")
		return
	}
	if len(list) == 0 {
		b.editTextAndClear(chatID, cb.Message.MessageID, "Нет неподтверждённых пользователей.")
		return
	}

	var sb strings.Builder
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, p := range list {
		sb.WriteString(fmt.Sprintf("%d — %s (%s, %s)\n", p.ID, p.FullName, p.Role.Title(), p.Department.Title()))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("Подтвердить %d", p.ID), fmt.Sprintf("adm:approve:%d", p.ID)),
		))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID, sb.String(), kb))
}

func (b *Bot) approveUser(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	id, err := strconv.ParseInt(strings.TrimPrefix(cb.Data, "adm:approve:"), 10, 64)
	if err != nil {
		b.answerCallback(cb, "Ошибка ID.", false)
		return
	}
	if err := b.users.Approve(ctx, id); err != nil {
		b.answerCallback(cb, "Не удалось подтвердить пользователя.", true)
		return
	}
	b.answerCallback(cb, "Пользователь подтверждён!", true)
	b.notifyUserApproved(ctx, id)
}

// notifyUserApproved Сообщаем пользователю, что можно работать. Best-effort.
func (b *Bot) notifyUserApproved(ctx context.Context, userID int64) {
	u, err := b.users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return
	}
	b.send(tgbotapi.NewMessage(u.TelegramID,
		"Ваш аккаунт подтверждён администратором. Для выбора действий используйте /menu"))
}

func (b *Bot) showStaffRoles(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	b.answerCallback(cb, "", false)

	list, err := b.users.ListStaff(ctx)
	if err != nil {
		b.editTextAndClear(chatID, cb.Message.MessageID, "Ошибка загрузки пользователей.")
		return
	}
	if len(list) == 0 {
		b.editTextAndClear(chatID, cb.Message.MessageID, "Нет подтверждённых сотрудников.")
		return
	}

	var sb strings.Builder
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, p := range list {
		sb.WriteString(fmt.Sprintf("%d — %s (%s, %s)\n", p.ID, p.FullName, p.Role.Title(), p.Department.Title()))
		label, target := "Сделать руководителем", users.RoleLeader
		if p.Role == users.RoleLeader {
			label, target = "Сделать работником", users.RoleWorker
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s %d", label, p.ID), fmt.Sprintf("adm:role:%d:%s", p.ID, target)),
		))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID, sb.String(), kb))
}

func (b *Bot) setUserRole(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	parts := strings.Split(strings.TrimPrefix(cb.Data, "adm:role:"), ":")
	if len(parts) != 2 {
		b.answerCallback(cb, "Ошибка данных.", false)
		return
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	role := users.Role(parts[1])
	if err != nil || (role != users.RoleWorker && role != users.RoleLeader) {
		b.answerCallback(cb, "Ошибка данных.", false)
		return
	}
	if err := b.users.SetRole(ctx, id, role); err != nil {
		b.answerCallback(cb, "Не удалось сменить роль.", true)
		return
	}
	b.answerCallback(cb, fmt.Sprintf("Роль обновлена: %s.", role.Title()), true)
}

func (b *Bot) admDishNew(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	u := b.approvedUser(ctx, msg.From.ID)
	if u == nil || !u.IsAdmin() {
		b.states.Reset(chatID)
		return
	}

	name, category, ok := strings.Cut(msg.Text, ",")
	if !ok {
		b.send(tgbotapi.NewMessage(chatID, "Неверный формат. Нужно: Название, Категория."))
		return
	}
	name, category = strings.TrimSpace(name), strings.TrimSpace(category)
	if name == "" || category == "" {
		b.send(tgbotapi.NewMessage(chatID, "Неверный формат. Нужно: Название, Категория."))
		return
	}

	d, err := b.dishes.Create(ctx, name, category)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "Ошибка при добавлении блюда."))
		return
	}
	b.states.Reset(chatID)
	b.send(tgbotapi.NewMessage(chatID,
		fmt.Sprintf("Блюдо «%s» добавлено с категорией «%s».", d.Name, d.Category)))
}

// cleanup Удаляет транзакции и записи журнала старше настроенного срока хранения.
func (b *Bot) cleanup(ctx context.Context, cb *tgbotapi.CallbackQuery, adminID int64) {
	chatID := cb.Message.Chat.ID

	txs, err := b.transfers.DeleteOlderThan(ctx, b.retentionDays)
	if err != nil {
		b.answerCallback(cb, "Ошибка очистки.", true)
		return
	}
	logs, err := b.audit.DeleteOlderThan(ctx, b.retentionDays)
	if err != nil {
		b.answerCallback(cb, "Ошибка очистки.", true)
		return
	}
	if err := b.audit.Log(ctx, adminID, "Cleanup old data"); err != nil {
		b.log.Error("audit log failed", "err", err)
	}

	b.answerCallback(cb, "", false)
	b.editTextAndClear(chatID, cb.Message.MessageID, fmt.Sprintf(
		"Очистка старых данных выполнена (старше %d дн.).\nТранзакций удалено: %d, записей журнала: %d",
		b.retentionDays, txs, logs))
}
