package users

import (
	"time"

	"github.com/Spok95/factory-bot/internal/domain/department"
)

type Role string

const (
	RoleWorker Role = "worker"
	RoleLeader Role = "leader"
	RoleAdmin  Role = "admin"
)

func (r Role) Title() string {
	switch r {
	case RoleWorker:
		return "Работник"
	case RoleLeader:
		return "Руководитель"
	case RoleAdmin:
		return "Администратор"
	}
	return string(r)
}

type User struct {
	ID         int64
	TelegramID int64
	FullName   string
	Role       Role
	Department department.Department
	Approved   bool
	CreatedAt  time.Time
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// CanViewReports Отчёты доступны руководителям и админам.
func (u *User) CanViewReports() bool {
	return u.Role == RoleLeader || u.Role == RoleAdmin
}
