package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/factory-bot/internal/dialog"
	"github.com/Spok95/factory-bot/internal/domain/department"
	"github.com/Spok95/factory-bot/internal/domain/transfers"
	"github.com/Spok95/factory-bot/internal/infra/metrics"
)

func (b *Bot) trStart(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	if b.approvedUser(ctx, cb.From.ID) == nil {
		b.answerCallback(cb, "Аккаунт не подтверждён.", true)
		return
	}
	b.states.Set(chatID, dialog.StateTrDepartment, dialog.Payload{})
	b.answerCallback(cb, "", false)
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID,
		"Выберите цех (или покупателя) для передачи:", departmentKeyboard("tr:dep"))
	b.send(edit)
}

func (b *Bot) trDepartment(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	st := b.states.Get(chatID)
	if st.State != dialog.StateTrDepartment {
		b.answerCallback(cb, "Этот шаг уже не активен.", false)
		return
	}

	dep := department.Department(strings.TrimPrefix(cb.Data, "tr:dep:"))
	if !department.Valid(dep) {
		b.answerCallback(cb, "Некорректный выбор.", false)
		return
	}
	b.answerCallback(cb, "", false)

	list, err := b.dishes.List(ctx)
	if err != nil {
		b.editTextAndClear(chatID, cb.Message.MessageID, "Ошибка загрузки блюд. Попробуйте позже.")
		return
	}
	if len(list) == 0 {
		// Пустой каталог — диалог завершаем, транзакцию не создаём.
		b.states.Reset(chatID)
		b.editTextAndClear(chatID, cb.Message.MessageID,
			"Нет доступных блюд. Добавьте блюдо через админа.")
		return
	}

	b.states.Set(chatID, dialog.StateTrDish, dialog.Payload{"to_dep": string(dep)})
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID,
		"Выберите блюдо:", dishKeyboard(list))
	b.send(edit)
}

func (b *Bot) trDish(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	st := b.states.Get(chatID)
	if st.State != dialog.StateTrDish {
		b.answerCallback(cb, "Этот шаг уже не активен.", false)
		return
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(cb.Data, "tr:dish:"), 10, 64)
	if err != nil {
		b.answerCallback(cb, "Некорректный выбор.", false)
		return
	}
	d, err := b.dishes.GetByID(ctx, id)
	if err != nil || d == nil {
		b.answerCallback(cb, "Блюдо не найдено.", false)
		return
	}

	p := st.Payload
	p["dish_id"] = id
	b.states.Set(chatID, dialog.StateTrQty, p)
	b.answerCallback(cb, "", false)
	b.editTextAndClear(chatID, cb.Message.MessageID, "Введите количество (число):")
}

func (b *Bot) trQuantity(ctx context.Context, msg *tgbotapi.Message, st dialog.Item) {
	chatID := msg.Chat.ID

	qty, err := parseQty(msg.Text)
	if err != nil {
		// Повторный запрос, состояние не меняем.
		b.send(tgbotapi.NewMessage(chatID, "Введите число."))
		return
	}

	u := b.approvedUser(ctx, msg.From.ID)
	if u == nil {
		b.states.Reset(chatID)
		b.send(tgbotapi.NewMessage(chatID, "Аккаунт не подтверждён."))
		return
	}

	// Знак и ноль исторически не проверяются, фиксируем такие вводы в логе.
	if qty <= 0 {
		b.log.Warn("non-positive quantity accepted", "chat_id", chatID, "qty", qty)
	}

	toDep, _ := dialog.GetString(st.Payload, "to_dep")
	p := st.Payload
	p["qty"] = qty

	if transfers.LabelDateRequired(u.Department, department.Department(toDep)) {
		b.states.Set(chatID, dialog.StateTrLabelDate, p)
		b.send(tgbotapi.NewMessage(chatID, "Введите дату на этикетке (например, 20.01.2025):"))
		return
	}
	b.finalizeTransfer(ctx, chatID, msg.From.ID, p, "")
}

func (b *Bot) trLabelDate(ctx context.Context, msg *tgbotapi.Message, st dialog.Item) {
	b.finalizeTransfer(ctx, msg.Chat.ID, msg.From.ID, st.Payload, strings.TrimSpace(msg.Text))
}

func (b *Bot) finalizeTransfer(ctx context.Context, chatID, tgID int64, p dialog.Payload, labelDate string) {
	u := b.approvedUser(ctx, tgID)
	if u == nil {
		b.states.Reset(chatID)
		b.send(tgbotapi.NewMessage(chatID, "Аккаунт не подтверждён."))
		return
	}

	toDep, _ := dialog.GetString(p, "to_dep")
	dishID, _ := dialog.GetInt64(p, "dish_id")
	qty, _ := dialog.GetFloat(p, "qty")
	to := department.Department(toDep)

	t, err := b.transfers.Create(ctx, u.ID, u.Department, to, dishID, qty, labelDate)
	if err != nil {
		b.log.Error("create transaction failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Ошибка при создании транзакции. Попробуйте ещё раз."))
		return
	}
	b.states.Reset(chatID)

	metrics.TransfersCreated.WithLabelValues(string(t.Status)).Inc()
	if err := b.audit.Log(ctx, u.ID, fmt.Sprintf("Create transaction #%d", t.ID)); err != nil {
		b.log.Error("audit log failed", "err", err)
	}

	if t.Status == transfers.StatusAutoDone {
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
			"Товар передан без подтверждения.\nЦех: %s, Кол-во: %v, этикетка: %s",
			to.Title(), qty, labelOrDash(labelDate))))
	} else {
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
			"Транзакция #%d создана. Ожидаем приёмку.\n%s -> %s, кол-во: %v",
			t.ID, u.Department.Title(), to.Title(), qty)))
	}

	b.notifyTransferCreated(ctx, t)
}

func labelOrDash(label string) string {
	if label == "" {
		return "—"
	}
	return label
}
