package bot

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"

	"github.com/Spok95/factory-bot/internal/domain/transfers"
)

func (b *Bot) showReportsMenu(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	u := b.approvedUser(ctx, cb.From.ID)
	if u == nil || !u.CanViewReports() {
		b.answerCallback(cb, "Нет прав для отчётов.", true)
		return
	}
	b.answerCallback(cb, "", false)
	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID,
		"Выберите отчёт:", reportsKeyboard()))
}

func (b *Bot) reportCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	u := b.approvedUser(ctx, cb.From.ID)
	if u == nil || !u.CanViewReports() {
		b.answerCallback(cb, "Нет прав для отчётов.", true)
		return
	}

	switch cb.Data {
	case "rep:today":
		b.answerCallback(cb, "", false)
		list, err := b.transfers.ListByDate(ctx, time.Now())
		if err != nil {
			b.editTextAndClear(chatID, cb.Message.MessageID, "Ошибка загрузки отчёта.")
			return
		}
		if len(list) == 0 {
			b.editTextAndClear(chatID, cb.Message.MessageID, "Сегодня транзакций не было.")
			return
		}
		b.editTextAndClear(chatID, cb.Message.MessageID,
			reportText(fmt.Sprintf("Отчёт за %s:", time.Now().Format("02.01.2006")), list))

	case "rep:all":
		b.answerCallback(cb, "", false)
		list, err := b.transfers.ListByDate(ctx, time.Time{})
		if err != nil {
			b.editTextAndClear(chatID, cb.Message.MessageID, "Ошибка загрузки отчёта.")
			return
		}
		if len(list) == 0 {
			b.editTextAndClear(chatID, cb.Message.MessageID, "Транзакций нет.")
			return
		}
		b.editTextAndClear(chatID, cb.Message.MessageID, reportText("Все транзакции:", list))

	case "rep:xlsx":
		b.answerCallback(cb, "", false)
		list, err := b.transfers.ListByDate(ctx, time.Time{})
		if err != nil {
			b.editTextAndClear(chatID, cb.Message.MessageID, "Ошибка загрузки отчёта.")
			return
		}
		data, err := buildReportXLSX(list)
		if err != nil {
			b.log.Error("build xlsx failed", "err", err)
			b.editTextAndClear(chatID, cb.Message.MessageID, "Не удалось сформировать файл.")
			return
		}
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
			Name:  fmt.Sprintf("transfers_%s.xlsx", time.Now().Format("2006-01-02")),
			Bytes: data,
		})
		b.send(doc)

	default:
		b.answerCallback(cb, "", false)
	}
}

func reportText(title string, list []transfers.Transaction) string {
	var sb strings.Builder
	sb.WriteString(title + "\n")
	for _, t := range list {
		sb.WriteString(fmt.Sprintf("#%d | %s -> %s | %s x %v | %s\n",
			t.ID, t.FromDepartment.Title(), t.ToDepartment.Title(), t.DishName, t.Quantity, t.Status.Title()))
	}
	return sb.String()
}

func buildReportXLSX(list []transfers.Transaction) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	header := []any{"id", "Откуда", "Куда", "Блюдо", "Кол-во", "Этикетка", "Создана", "Завершена", "Статус"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, t := range list {
		accepted := ""
		if t.AcceptedAt != nil {
			accepted = t.AcceptedAt.Format("02.01.2006 15:04")
		}
		row := []any{
			t.ID, t.FromDepartment.Title(), t.ToDepartment.Title(), t.DishName,
			t.Quantity, t.LabelDate, t.CreatedAt.Format("02.01.2006 15:04"), accepted, string(t.Status),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
