package transfers

import (
	"time"

	"github.com/Spok95/factory-bot/internal/domain/department"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusAutoDone Status = "auto_done"
)

// Action Решение получателя по ожидающей транзакции.
type Action string

const (
	ActionAccept Action = "accept"
	ActionReject Action = "reject"
)

type Transaction struct {
	ID             int64
	FromUserID     int64
	FromDepartment department.Department
	ToDepartment   department.Department
	DishID         int64
	Quantity       float64
	LabelDate      string // свободный текст с этикетки, без валидации формата
	CreatedAt      time.Time
	AcceptedAt     *time.Time
	Status         Status

	// Подтягивается джойном, заполнено не всегда.
	DishName string
}

func (s Status) Title() string {
	switch s {
	case StatusPending:
		return "ожидает приёмки"
	case StatusAccepted:
		return "принята"
	case StatusRejected:
		return "отклонена"
	case StatusAutoDone:
		return "авто-завершена"
	}
	return string(s)
}
