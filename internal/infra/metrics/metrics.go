package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransfersCreated Созданные транзакции по начальному статусу (pending | auto_done).
	TransfersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "factory_transfers_created_total",
		Help: "Transfer transactions created, by initial status.",
	}, []string{"status"})

	// TransfersResolved Разрешения ожидающих транзакций (accept | reject).
	TransfersResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "factory_transfers_resolved_total",
		Help: "Pending transfers resolved by recipients, by action.",
	}, []string{"action"})

	// Notifications Отправленные/упавшие уведомления.
	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "factory_notifications_total",
		Help: "Notification delivery attempts, by result.",
	}, []string{"result"})
)
