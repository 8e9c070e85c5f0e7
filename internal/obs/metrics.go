package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Метрики репутации
var (
	grantsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rep_grants_total",
			Help: "Total number of reputation grants appended to the ledger.",
		},
		[]string{"trigger"},
	)

	duplicateGrantsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rep_duplicate_grants_total",
		Help: "Reaction grants skipped as duplicates.",
	})

	permissionDeniedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rep_permission_denied_total",
			Help: "Grant commands denied by the permission gate.",
		},
		[]string{"violation"},
	)

	eventsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bot_events_in_flight",
		Help: "Discord events currently being handled.",
	})
)

// Регистрация метрик в default-регистре.
func Init() {
	prometheus.MustRegister(grantsTotal, duplicateGrantsTotal, permissionDeniedTotal, eventsInFlight)
}

// Хэндлер Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}

// GrantAppended фиксирует успешное начисление.
func GrantAppended(trigger string) {
	grantsTotal.WithLabelValues(trigger).Inc()
}

// DuplicateGrant фиксирует проигнорированный дубликат реакции.
func DuplicateGrant() {
	duplicateGrantsTotal.Inc()
}

// PermissionDenied фиксирует отказ по правам.
func PermissionDenied(violation string) {
	permissionDeniedTotal.WithLabelValues(violation).Inc()
}

// EventStarted/EventFinished обрамляют обработку одного события.
func EventStarted()  { eventsInFlight.Inc() }
func EventFinished() { eventsInFlight.Dec() }
