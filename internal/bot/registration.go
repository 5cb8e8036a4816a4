package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/factory-bot/internal/dialog"
	"github.com/Spok95/factory-bot/internal/domain/department"
	"github.com/Spok95/factory-bot/internal/domain/users"
)

func (b *Bot) cmdStart(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	tgID := msg.From.ID
	b.states.Reset(chatID)

	u, err := b.users.GetByTelegramID(ctx, tgID)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "Ошибка: не удалось загрузить профиль. Попробуйте позже."))
		return
	}

	// Привилегированный ID из конфига при первом контакте становится
	// подтверждённым админом, минуя регистрацию.
	if u == nil && b.superAdmin != 0 && tgID == b.superAdmin {
		if _, err := b.users.Create(ctx, tgID, "SuperAdmin", users.RoleAdmin, department.Warehouse, true); err != nil {
			b.send(tgbotapi.NewMessage(chatID, "Ошибка создания учётной записи супер-админа."))
			return
		}
		b.send(tgbotapi.NewMessage(chatID, "Вы являетесь супер-админом. Учётная запись создана и подтверждена."))
		return
	}

	if u == nil {
		b.states.Set(chatID, dialog.StateRegName, dialog.Payload{})
		b.askFullName(chatID)
		return
	}

	if !u.Approved {
		b.send(tgbotapi.NewMessage(chatID, "Ваша учётная запись ещё не подтверждена администратором."))
		return
	}

	m := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"С возвращением, %s!\nОтдел: %s, Роль: %s\n\nДля выбора действий используйте /menu",
		u.FullName, u.Department.Title(), u.Role.Title()))
	m.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	b.send(m)
}

func (b *Bot) askFullName(chatID int64) {
	m := tgbotapi.NewMessage(chatID, "Здравствуйте! Похоже, вы здесь впервые. Введите ваше ФИО:")
	m.ReplyMarkup = navKeyboard()
	b.send(m)
}

func (b *Bot) regName(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	name := strings.TrimSpace(msg.Text)
	if name == "" {
		b.send(tgbotapi.NewMessage(chatID, "ФИО выглядит пустым. Введите корректно."))
		return
	}
	b.states.Set(chatID, dialog.StateRegRole, dialog.Payload{"full_name": name})
	m := tgbotapi.NewMessage(chatID, "Выберите вашу роль:")
	m.ReplyMarkup = roleKeyboard()
	b.send(m)
}

func (b *Bot) regRole(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	st := b.states.Get(chatID)
	if st.State != dialog.StateRegRole {
		b.answerCallback(cb, "Этот шаг уже не активен.", false)
		return
	}

	var role users.Role
	switch cb.Data {
	case "reg:role:worker":
		role = users.RoleWorker
	case "reg:role:leader":
		role = users.RoleLeader
	default:
		b.answerCallback(cb, "Некорректный выбор.", false)
		return
	}

	p := st.Payload
	p["role"] = string(role)
	b.states.Set(chatID, dialog.StateRegDepartment, p)
	b.answerCallback(cb, "", false)

	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID,
		"Выберите ваш отдел:", departmentKeyboard("reg:dep"))
	b.send(edit)
}

func (b *Bot) regDepartment(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	st := b.states.Get(chatID)
	if st.State != dialog.StateRegDepartment {
		b.answerCallback(cb, "Этот шаг уже не активен.", false)
		return
	}

	dep := department.Department(strings.TrimPrefix(cb.Data, "reg:dep:"))
	if !department.Valid(dep) {
		b.answerCallback(cb, "Некорректный выбор.", false)
		return
	}

	fullName, _ := dialog.GetString(st.Payload, "full_name")
	roleStr, _ := dialog.GetString(st.Payload, "role")

	_, err := b.users.Create(ctx, cb.From.ID, fullName, users.Role(roleStr), dep, false)
	if errors.Is(err, users.ErrAlreadyRegistered) {
		// Состояние не трогаем: введённые данные остаются, конфликт показываем явно.
		b.answerCallback(cb, "", false)
		b.editTextAndClear(chatID, cb.Message.MessageID,
			"Вы уже зарегистрированы. Обратитесь к администратору.")
		return
	}
	if err != nil {
		b.answerCallback(cb, "", false)
		b.send(tgbotapi.NewMessage(chatID, "Ошибка при регистрации. Попробуйте ещё раз."))
		return
	}

	b.states.Reset(chatID)
	b.answerCallback(cb, "", false)
	b.editTextAndClear(chatID, cb.Message.MessageID,
		"Спасибо за регистрацию!\nПожалуйста, дождитесь подтверждения вашего аккаунта администратором.")
}
