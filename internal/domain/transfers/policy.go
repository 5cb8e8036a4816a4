package transfers

import "github.com/Spok95/factory-bot/internal/domain/department"

// Доверенные пары цехов. Передачи по ним завершаются без подтверждения
// получателя, и по ним же обязательна дата на этикетке.
var trustedPairs = map[[2]department.Department]bool{
	{department.Packaging, department.Refrigerator}: true,
	{department.Refrigerator, department.Customer}:  true,
}

// AutoDone Передача по паре (from, to) завершается сразу, без приёмки.
func AutoDone(from, to department.Department) bool {
	return trustedPairs[[2]department.Department{from, to}]
}

// LabelDateRequired Для пары (from, to) обязательна дата на этикетке.
func LabelDateRequired(from, to department.Department) bool {
	return trustedPairs[[2]department.Department{from, to}]
}

// InitialStatus Статус транзакции определяется один раз, при создании.
func InitialStatus(from, to department.Department) Status {
	if AutoDone(from, to) {
		return StatusAutoDone
	}
	return StatusPending
}
