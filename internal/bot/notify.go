package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/factory-bot/internal/domain/department"
	"github.com/Spok95/factory-bot/internal/domain/transfers"
	"github.com/Spok95/factory-bot/internal/domain/users"
	"github.com/Spok95/factory-bot/internal/infra/metrics"
)

type notification struct {
	ChatID int64
	Text   string
}

// fanOut Кого и каким текстом уведомить о созданной транзакции.
// auto_done — всем подтверждённым админам; pending — сотрудникам цеха-получателя.
// В цеха-стоки (Холодильник, Покупатель) уведомлять некого.
func fanOut(t *transfers.Transaction, admins, recipients []users.User) []notification {
	var out []notification
	switch t.Status {
	case transfers.StatusAutoDone:
		text := fmt.Sprintf("[AUTO] %s -> %s, кол-во: %v, этикетка: %s, транзакция #%d",
			t.FromDepartment.Title(), t.ToDepartment.Title(), t.Quantity, labelOrDash(t.LabelDate), t.ID)
		for _, a := range admins {
			out = append(out, notification{ChatID: a.TelegramID, Text: text})
		}
	case transfers.StatusPending:
		if department.Sink(t.ToDepartment) {
			return nil
		}
		text := fmt.Sprintf("Вам поступил товар из цеха «%s» (транзакция #%d).\n"+
			"Подтвердите приёмку: /menu -> «Мои входящие».",
			t.FromDepartment.Title(), t.ID)
		for _, r := range recipients {
			out = append(out, notification{ChatID: r.TelegramID, Text: text})
		}
	}
	return out
}

// notifyTransferCreated Доставка best-effort: ошибка по одному получателю
// логируется и не влияет ни на транзакцию, ни на остальных получателей.
func (b *Bot) notifyTransferCreated(ctx context.Context, t *transfers.Transaction) {
	var admins, recipients []users.User

	switch t.Status {
	case transfers.StatusAutoDone:
		list, err := b.users.ListApprovedAdmins(ctx)
		if err != nil {
			b.log.Error("list admins failed", "err", err)
			return
		}
		admins = list
	case transfers.StatusPending:
		if department.Sink(t.ToDepartment) {
			return
		}
		list, err := b.users.ListApprovedByDepartment(ctx, t.ToDepartment)
		if err != nil {
			b.log.Error("list department users failed", "err", err)
			return
		}
		recipients = list
	}

	for _, n := range fanOut(t, admins, recipients) {
		if _, err := b.api.Send(tgbotapi.NewMessage(n.ChatID, n.Text)); err != nil {
			metrics.Notifications.WithLabelValues("failed").Inc()
			b.log.Error("notify failed", "chat_id", n.ChatID, "err", err)
			continue
		}
		metrics.Notifications.WithLabelValues("sent").Inc()
	}
}
