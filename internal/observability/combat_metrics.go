package observability

import (
	"context"

	"github.com/annel0/fps-sim/internal/eventbus"
	"github.com/annel0/fps-sim/internal/logging"
	"github.com/annel0/fps-sim/internal/world"
	"github.com/prometheus/client_golang/prometheus"
)

// CombatMetrics переводит события мира в Prometheus-метрики.
//
// Метрики:
// * combat_events_total{type}
// * combat_deaths_total{tag}
// * combat_shots_total{weapon}
// * combat_pickups_total{kind}
// * combat_keys_collected - gauge
// * combat_tick_seconds - histogram длительности тика
type CombatMetrics struct {
	events  *prometheus.CounterVec
	deaths  *prometheus.CounterVec
	shots   *prometheus.CounterVec
	pickups *prometheus.CounterVec
	keys    prometheus.Gauge
	tick    prometheus.Histogram

	log *logging.Logger
}

// NewCombatMetrics создаёт метрики и регистрирует их в reg (nil - глобальный регистр).
func NewCombatMetrics(reg prometheus.Registerer) *CombatMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &CombatMetrics{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "combat",
			Name:      "events_total",
			Help:      "События мира по типу.",
		}, []string{"type"}),
		deaths: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "combat",
			Name:      "deaths_total",
			Help:      "Смерти по тегу актёра.",
		}, []string{"tag"}),
		shots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "combat",
			Name:      "shots_total",
			Help:      "Выстрелы по оружию.",
		}, []string{"weapon"}),
		pickups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "combat",
			Name:      "pickups_total",
			Help:      "Подобранные предметы по виду.",
		}, []string{"kind"}),
		keys: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "combat",
			Name:      "keys_collected",
			Help:      "Собрано ключей.",
		}),
		tick: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "combat",
			Name:      "tick_seconds",
			Help:      "Длительность шага симуляции.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		}),
		log: logging.GetComponentLogger("metrics"),
	}
	reg.MustRegister(m.events, m.deaths, m.shots, m.pickups, m.keys, m.tick)
	return m
}

// Emit реализует world.EventSink
func (m *CombatMetrics) Emit(ev world.Event) {
	m.events.WithLabelValues(string(ev.Type)).Inc()
	switch ev.Type {
	case world.EventActorDied:
		m.deaths.WithLabelValues(ev.Detail).Inc()
	case world.EventWeaponFired:
		m.shots.WithLabelValues(ev.Name).Inc()
	case world.EventPickupCollected:
		m.pickups.WithLabelValues(ev.Detail).Inc()
	case world.EventKeyCollected:
		m.keys.Set(float64(ev.Value))
	}
}

// ObserveTick записывает длительность шага в секундах
func (m *CombatMetrics) ObserveTick(seconds float64) {
	m.tick.Observe(seconds)
}

// Attach подписывает метрики на шину
func (m *CombatMetrics) Attach(ctx context.Context, bus eventbus.EventBus) (eventbus.Subscription, error) {
	return bus.Subscribe(ctx, eventbus.Filter{}, func(_ context.Context, env *eventbus.Envelope) {
		ev, err := world.DecodeEvent(env)
		if err != nil {
			m.log.Warn("не удалось разобрать событие %s: %v", env.ID, err)
			return
		}
		m.Emit(ev)
	})
}
