package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/factory-bot/internal/domain/department"
	"github.com/Spok95/factory-bot/internal/domain/dishes"
	"github.com/Spok95/factory-bot/internal/domain/users"
)

func roleKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Работник", "reg:role:worker"),
			tgbotapi.NewInlineKeyboardButtonData("Руководитель", "reg:role:leader"),
		),
		navKeyboard().InlineKeyboard[0],
	)
}

// departmentKeyboard Кнопки по всем цехам; prefix — "reg:dep" либо "tr:dep".
func departmentKeyboard(prefix string) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	row := []tgbotapi.InlineKeyboardButton{}
	for _, dep := range department.All() {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(dep.Title(), fmt.Sprintf("%s:%s", prefix, dep)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, navKeyboard().InlineKeyboard[0])
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func dishKeyboard(list []dishes.Dish) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, d := range list {
		label := fmt.Sprintf("%s (%s)", d.Name, d.Category)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("tr:dish:%d", d.ID)),
		))
	}
	rows = append(rows, navKeyboard().InlineKeyboard[0])
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func mainMenuKeyboard(u *users.User) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		{tgbotapi.NewInlineKeyboardButtonData("Передать товар", "menu:transfer")},
		{tgbotapi.NewInlineKeyboardButtonData("Мои входящие", "menu:incoming")},
	}
	if u.CanViewReports() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Отчёты", "menu:reports"),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func adminKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Список неподтверждённых", "adm:pending"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Роли сотрудников", "adm:roles"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Добавить блюдо", "adm:dish:add"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Очистка старых данных", "adm:cleanup"),
		),
	)
}

func reportsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Отчёт за сегодня", "rep:today"),
			tgbotapi.NewInlineKeyboardButtonData("Отчёт за всё время", "rep:all"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Выгрузка в Excel", "rep:xlsx"),
		),
	)
}

func navKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✖️ Отменить", "nav:cancel"),
		),
	)
}
