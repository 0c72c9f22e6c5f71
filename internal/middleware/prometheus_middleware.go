package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedRoute - метка для запросов мимо маршрутов, чтобы сканеры не плодили серии
const unmatchedRoute = "unmatched"

// adminPrefix - группа маршрутов, ставящих команды в очередь арены
const adminPrefix = "/api/admin/"

// PrometheusMiddleware считает HTTP-метрики операторского API.
// Маршрут /metrics сервер добавляет сам.
//
// Метрики:
// * http_request_duration_seconds{method,route,status} - histogram
// * http_requests_inflight - gauge
// * http_request_errors_total{route,class} - counter, class 4xx или 5xx
// * http_auth_rejected_total{route,status} - counter, ответы 401/403
// * admin_commands_total{command} - counter, принятые (202) админ-команды
type PrometheusMiddleware struct {
	reqDuration  *prometheus.HistogramVec
	reqInflight  prometheus.Gauge
	reqErrors    *prometheus.CounterVec
	authRejected *prometheus.CounterVec
	adminCmds    *prometheus.CounterVec
}

// NewPrometheusMiddleware создаёт middleware и регистрирует метрики в reg (nil - дефолтный регистр).
func NewPrometheusMiddleware(service string, reg prometheus.Registerer) *PrometheusMiddleware {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	pm := &PrometheusMiddleware{
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: service,
			Name:      "http_request_duration_seconds",
			Help:      "Длительность HTTP-запросов.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route", "status"}),
		reqInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: service,
			Name:      "http_requests_inflight",
			Help:      "Текущее количество обрабатываемых HTTP-запросов.",
		}),
		reqErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: service,
			Name:      "http_request_errors_total",
			Help:      "Запросы, завершившиеся ошибкой, по классу статуса.",
		}, []string{"route", "class"}),
		authRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: service,
			Name:      "http_auth_rejected_total",
			Help:      "Запросы, отклонённые проверкой токена (401) или прав (403).",
		}, []string{"route", "status"}),
		adminCmds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: service,
			Name:      "admin_commands_total",
			Help:      "Админ-команды, поставленные в очередь арены.",
		}, []string{"command"}),
	}

	reg.MustRegister(pm.reqDuration, pm.reqInflight, pm.reqErrors, pm.authRejected, pm.adminCmds)
	return pm
}

// Handler возвращает gin.HandlerFunc, которую нужно добавить через router.Use().
func (pm *PrometheusMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		pm.reqInflight.Inc()
		defer pm.reqInflight.Dec()
		c.Next()

		code := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		status := strconv.Itoa(code)
		pm.reqDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())

		switch {
		case code == http.StatusUnauthorized || code == http.StatusForbidden:
			pm.authRejected.WithLabelValues(route, status).Inc()
			pm.reqErrors.WithLabelValues(route, "4xx").Inc()
		case code >= 500:
			pm.reqErrors.WithLabelValues(route, "5xx").Inc()
		case code >= 400:
			pm.reqErrors.WithLabelValues(route, "4xx").Inc()
		case code == http.StatusAccepted && strings.HasPrefix(route, adminPrefix):
			pm.adminCmds.WithLabelValues(strings.TrimPrefix(route, adminPrefix)).Inc()
		}
	}
}
