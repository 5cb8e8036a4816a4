package bot

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/factory-bot/internal/dialog"
	"github.com/Spok95/factory-bot/internal/domain/department"
	"github.com/Spok95/factory-bot/internal/domain/transfers"
	"github.com/Spok95/factory-bot/internal/domain/users"
)

func TestTransferAutoDonePackagingToRefrigerator(t *testing.T) {
	e := newEnv(0)
	ctx := context.Background()
	sender := e.users.add(10, "Упаковщик", users.RoleWorker, department.Packaging, true)
	e.users.add(20, "Админ", users.RoleAdmin, department.Warehouse, true)
	e.dishes.Create(ctx, "Торт", "Кондитерка")

	e.bot.handleCallback(ctx, callback(10, 10, "menu:transfer"))
	e.bot.handleCallback(ctx, callback(10, 10, "tr:dep:refrigerator"))
	e.bot.handleCallback(ctx, callback(10, 10, "tr:dish:1"))
	e.bot.handleStateMessage(ctx, textMsg(10, 10, "10"))

	// Пара Упаковка -> Холодильник требует дату этикетки.
	require.Equal(t, dialog.StateTrLabelDate, e.bot.states.Get(10).State)
	e.bot.handleStateMessage(ctx, textMsg(10, 10, "20.01.2025"))

	tx, err := e.transfers.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, transfers.StatusAutoDone, tx.Status)
	assert.Equal(t, sender.ID, tx.FromUserID)
	assert.Equal(t, department.Packaging, tx.FromDepartment)
	assert.Equal(t, 10.0, tx.Quantity)
	assert.Equal(t, "20.01.2025", tx.LabelDate)
	assert.NotNil(t, tx.AcceptedAt, "auto_done завершается в момент создания")
	assert.Equal(t, dialog.StateIdle, e.bot.states.Get(10).State)

	// Отправитель и админ уведомлены, больше никто.
	senderMsgs := strings.Join(e.api.messagesTo(10), "\n")
	assert.Contains(t, senderMsgs, "без подтверждения")
	adminMsgs := strings.Join(e.api.messagesTo(20), "\n")
	assert.Contains(t, adminMsgs, "[AUTO]")
}

func TestTransferPendingBakeryToKitchen(t *testing.T) {
	e := newEnv(0)
	ctx := context.Background()
	e.users.add(10, "Пекарь", users.RoleWorker, department.Bakery, true)
	e.users.add(20, "Админ", users.RoleAdmin, department.Warehouse, true)
	e.users.add(30, "Повар", users.RoleWorker, department.Kitchen, true)
	e.users.add(31, "Второй повар", users.RoleLeader, department.Kitchen, true)
	e.users.add(40, "Неподтверждённый повар", users.RoleWorker, department.Kitchen, false)
	e.dishes.Create(ctx, "Булка", "Выпечка")

	e.bot.handleCallback(ctx, callback(10, 10, "menu:transfer"))
	e.bot.handleCallback(ctx, callback(10, 10, "tr:dep:kitchen"))
	e.bot.handleCallback(ctx, callback(10, 10, "tr:dish:1"))
	e.bot.handleStateMessage(ctx, textMsg(10, 10, "5"))

	// Дата этикетки не нужна — транзакция создана сразу.
	tx, err := e.transfers.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, transfers.StatusPending, tx.Status)
	assert.Empty(t, tx.LabelDate)
	assert.Nil(t, tx.AcceptedAt)

	// Уведомлены оба подтверждённых сотрудника Кухни.
	assert.NotEmpty(t, e.api.messagesTo(30))
	assert.NotEmpty(t, e.api.messagesTo(31))
	// Неподтверждённый сотрудник и админ — нет.
	assert.Empty(t, e.api.messagesTo(40))
	assert.Empty(t, e.api.messagesTo(20))
}

func TestTransferPendingToSinkNotifiesNobody(t *testing.T) {
	e := newEnv(0)
	ctx := context.Background()
	e.users.add(10, "Кухня", users.RoleWorker, department.Kitchen, true)
	e.users.add(20, "Админ", users.RoleAdmin, department.Warehouse, true)
	e.dishes.Create(ctx, "Салат", "Кухня")

	// Кухня -> Холодильник не входит в доверенные пары: транзакция повиснет
	// в pending, и уведомлять в цехе-стоке некого.
	e.bot.handleCallback(ctx, callback(10, 10, "menu:transfer"))
	e.bot.handleCallback(ctx, callback(10, 10, "tr:dep:refrigerator"))
	e.bot.handleCallback(ctx, callback(10, 10, "tr:dish:1"))
	e.bot.handleStateMessage(ctx, textMsg(10, 10, "2"))

	tx, _ := e.transfers.GetByID(ctx, 1)
	require.NotNil(t, tx)
	assert.Equal(t, transfers.StatusPending, tx.Status)
	assert.Empty(t, e.api.messagesTo(20))
}

func TestTransferEmptyCatalogAborts(t *testing.T) {
	e := newEnv(0)
	ctx := context.Background()
	e.users.add(10, "Пекарь", users.RoleWorker, department.Bakery, true)

	e.bot.handleCallback(ctx, callback(10, 10, "menu:transfer"))
	e.bot.handleCallback(ctx, callback(10, 10, "tr:dep:kitchen"))

	assert.Equal(t, dialog.StateIdle, e.bot.states.Get(10).State)
	tx, _ := e.transfers.GetByID(ctx, 1)
	assert.Nil(t, tx, "транзакция не должна создаваться")
	msgs := strings.Join(e.api.messagesTo(10), "\n")
	assert.Contains(t, msgs, "Нет доступных блюд")
}

func TestTransferQuantityParsing(t *testing.T) {
	for _, tc := range []struct {
		input string
		want  float64
	}{
		{"12,5", 12.5},
		{"12.5", 12.5},
	} {
		e := newEnv(0)
		ctx := context.Background()
		e.users.add(10, "Пекарь", users.RoleWorker, department.Bakery, true)
		e.dishes.Create(ctx, "Булка", "Выпечка")

		e.bot.handleCallback(ctx, callback(10, 10, "menu:transfer"))
		e.bot.handleCallback(ctx, callback(10, 10, "tr:dep:kitchen"))
		e.bot.handleCallback(ctx, callback(10, 10, "tr:dish:1"))
		e.bot.handleStateMessage(ctx, textMsg(10, 10, tc.input))

		tx, _ := e.transfers.GetByID(ctx, 1)
		require.NotNil(t, tx, "ввод %q должен создавать транзакцию", tc.input)
		assert.Equal(t, tc.want, tx.Quantity, "ввод %q", tc.input)
	}
}

func TestTransferQuantityRejectsNonNumeric(t *testing.T) {
	e := newEnv(0)
	ctx := context.Background()
	e.users.add(10, "Пекарь", users.RoleWorker, department.Bakery, true)
	e.dishes.Create(ctx, "Булка", "Выпечка")

	e.bot.handleCallback(ctx, callback(10, 10, "menu:transfer"))
	e.bot.handleCallback(ctx, callback(10, 10, "tr:dep:kitchen"))
	e.bot.handleCallback(ctx, callback(10, 10, "tr:dish:1"))

	before := e.bot.states.Get(10)
	e.bot.handleStateMessage(ctx, textMsg(10, 10, "abc"))

	after := e.bot.states.Get(10)
	assert.Equal(t, before.State, after.State, "состояние не меняется")
	tx, _ := e.transfers.GetByID(ctx, 1)
	assert.Nil(t, tx)
}

func TestTransferUnapprovedUserRejected(t *testing.T) {
	e := newEnv(0)
	ctx := context.Background()
	e.users.add(10, "Новичок", users.RoleWorker, department.Bakery, false)

	e.bot.handleCallback(ctx, callback(10, 10, "menu:transfer"))

	assert.Equal(t, dialog.StateIdle, e.bot.states.Get(10).State)
	tx, _ := e.transfers.GetByID(ctx, 1)
	assert.Nil(t, tx)
}

func TestTransferNotifyFailureDoesNotAbort(t *testing.T) {
	e := newEnv(0)
	ctx := context.Background()
	e.users.add(10, "Пекарь", users.RoleWorker, department.Bakery, true)
	e.users.add(30, "Повар", users.RoleWorker, department.Kitchen, true)
	e.users.add(31, "Второй повар", users.RoleWorker, department.Kitchen, true)
	e.dishes.Create(ctx, "Булка", "Выпечка")
	e.api.failChat[30] = true

	e.bot.handleCallback(ctx, callback(10, 10, "menu:transfer"))
	e.bot.handleCallback(ctx, callback(10, 10, "tr:dep:kitchen"))
	e.bot.handleCallback(ctx, callback(10, 10, "tr:dish:1"))
	e.bot.handleStateMessage(ctx, textMsg(10, 10, "3"))

	tx, _ := e.transfers.GetByID(ctx, 1)
	require.NotNil(t, tx, "сбой доставки не отменяет транзакцию")
	assert.Empty(t, e.api.messagesTo(30))
	assert.NotEmpty(t, e.api.messagesTo(31), "остальные получатели не страдают")
}
