package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/factory-bot/internal/dialog"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	tgID := msg.From.ID

	switch msg.Command() {
	case "start":
		b.cmdStart(ctx, msg)

	case "menu":
		u := b.approvedUser(ctx, tgID)
		if u == nil {
			b.send(tgbotapi.NewMessage(chatID, "Аккаунт не подтверждён админом."))
			return
		}
		m := tgbotapi.NewMessage(chatID, "Выберите действие:")
		m.ReplyMarkup = mainMenuKeyboard(u)
		b.send(m)

	case "admin":
		u := b.approvedUser(ctx, tgID)
		if u == nil || !u.IsAdmin() {
			b.send(tgbotapi.NewMessage(chatID, "Вы не администратор."))
			return
		}
		m := tgbotapi.NewMessage(chatID, "Панель администратора:")
		m.ReplyMarkup = adminKeyboard()
		b.send(m)

	case "help":
		b.send(tgbotapi.NewMessage(chatID,
			"Команды:\n/start — регистрация и вход\n/menu — действия\n/admin — панель администратора\n/help — помощь"))

	default:
		b.send(tgbotapi.NewMessage(chatID, "Не знаю такую команду. Наберите /help"))
	}
}

func (b *Bot) handleStateMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	st := b.states.Get(chatID)

	switch st.State {
	case dialog.StateRegName:
		b.regName(ctx, msg)

	case dialog.StateTrQty:
		b.trQuantity(ctx, msg, st)

	case dialog.StateTrLabelDate:
		b.trLabelDate(ctx, msg, st)

	case dialog.StateAdmDishNew:
		b.admDishNew(ctx, msg)

	default:
		// Диалога нет. Неподтверждённым напоминаем про ожидание, остальных игнорируем.
		u, _ := b.users.GetByTelegramID(ctx, msg.From.ID)
		if u != nil && !u.Approved {
			b.send(tgbotapi.NewMessage(chatID, "Ваш аккаунт ещё не подтверждён администратором. Ожидайте."))
		}
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	data := cb.Data
	chatID := cb.Message.Chat.ID

	switch {
	case data == "nav:cancel":
		b.states.Reset(chatID)
		b.editTextAndClear(chatID, cb.Message.MessageID, "Операция отменена.")
		b.answerCallback(cb, "Отменено", false)

	case strings.HasPrefix(data, "reg:role:"):
		b.regRole(ctx, cb)

	case strings.HasPrefix(data, "reg:dep:"):
		b.regDepartment(ctx, cb)

	case data == "menu:transfer":
		b.trStart(ctx, cb)

	case data == "menu:incoming":
		b.showIncoming(ctx, cb)

	case data == "menu:reports":
		b.showReportsMenu(ctx, cb)

	case strings.HasPrefix(data, "tr:dep:"):
		b.trDepartment(ctx, cb)

	case strings.HasPrefix(data, "tr:dish:"):
		b.trDish(ctx, cb)

	case strings.HasPrefix(data, "tx:"):
		b.txResolve(ctx, cb)

	case strings.HasPrefix(data, "adm:"):
		b.adminCallback(ctx, cb)

	case strings.HasPrefix(data, "rep:"):
		b.reportCallback(ctx, cb)

	default:
		b.answerCallback(cb, "", false)
	}
}
