package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/factory-bot/internal/domain/transfers"
	"github.com/Spok95/factory-bot/internal/infra/metrics"
)

func (b *Bot) showIncoming(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	u := b.approvedUser(ctx, cb.From.ID)
	if u == nil {
		b.answerCallback(cb, "Аккаунт не подтверждён.", true)
		return
	}
	b.answerCallback(cb, "", false)

	list, err := b.transfers.ListPendingForDepartment(ctx, u.Department)
	if err != nil {
		b.editTextAndClear(chatID, cb.Message.MessageID, "Ошибка загрузки входящих.")
		return
	}
	if len(list) == 0 {
		b.editTextAndClear(chatID, cb.Message.MessageID, "Нет ожидающих приёмки товаров.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Ожидающие приёмки:\n")
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, t := range list {
		line := fmt.Sprintf("#%d | %s x %v | из цеха «%s»", t.ID, t.DishName, t.Quantity, t.FromDepartment.Title())
		if t.LabelDate != "" {
			line += fmt.Sprintf(" (дата: %s)", t.LabelDate)
		}
		sb.WriteString(line + "\n")
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("Принять #%d", t.ID), fmt.Sprintf("tx:accept:%d", t.ID)),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("Отклонить #%d", t.ID), fmt.Sprintf("tx:reject:%d", t.ID)),
		))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID, sb.String(), kb))
}

// txResolve Принятие/отклонение. Предусловия (цех получателя, статус pending)
// проверяются атомарно самим условным UPDATE в хранилище: повторный клик или
// чужая транзакция дают false и ничего не меняют.
func (b *Bot) txResolve(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	u := b.approvedUser(ctx, cb.From.ID)
	if u == nil {
		b.answerCallback(cb, "Аккаунт не подтверждён.", true)
		return
	}

	var action transfers.Action
	var idStr string
	switch {
	case strings.HasPrefix(cb.Data, "tx:accept:"):
		action = transfers.ActionAccept
		idStr = strings.TrimPrefix(cb.Data, "tx:accept:")
	case strings.HasPrefix(cb.Data, "tx:reject:"):
		action = transfers.ActionReject
		idStr = strings.TrimPrefix(cb.Data, "tx:reject:")
	default:
		b.answerCallback(cb, "Некорректный ID транзакции.", false)
		return
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		b.answerCallback(cb, "Некорректный ID транзакции.", false)
		return
	}

	ok, err := b.transfers.Resolve(ctx, id, u.Department, action)
	if err != nil {
		b.log.Error("resolve failed", "tx_id", id, "err", err)
		b.answerCallback(cb, "Ошибка. Попробуйте ещё раз.", false)
		return
	}
	if !ok {
		b.answerCallback(cb, "Транзакция не найдена или уже не в статусе 'pending'.", false)
		return
	}

	metrics.TransfersResolved.WithLabelValues(string(action)).Inc()
	var verb, reply string
	if action == transfers.ActionAccept {
		verb, reply = "Accepted", "Товар принят!"
	} else {
		verb, reply = "Rejected", "Транзакция отклонена!"
	}
	if err := b.audit.Log(ctx, u.ID, fmt.Sprintf("%s transaction #%d", verb, id)); err != nil {
		b.log.Error("audit log failed", "err", err)
	}

	b.answerCallback(cb, reply, true)
	b.editTextAndClear(chatID, cb.Message.MessageID, fmt.Sprintf("Транзакция #%d: %s", id, reply))
}
