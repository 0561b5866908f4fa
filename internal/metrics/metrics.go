// Package metrics는 prometheus 수집기를 정의합니다.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "herald"

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP 요청 수",
	}, []string{"method", "path", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP 요청 처리 시간",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	commands = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commands_total",
		Help:      "처리한 텍스트 명령 수",
	}, []string{"command"})

	deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deliveries_total",
		Help:      "그룹별 공지 발송 결과",
	}, []string{"result"})

	scheduledTriggers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scheduled_triggers",
		Help:      "스케줄러에 등록된 트리거 수",
	})
)

// ObserveHTTPRequest는 HTTP 요청 한 건을 기록합니다.
func ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// ObserveCommand는 처리한 명령 키워드를 기록합니다.
func ObserveCommand(command string) {
	commands.WithLabelValues(command).Inc()
}

// ObserveDelivery는 그룹 하나에 대한 발송 결과를 기록합니다.
func ObserveDelivery(err error) {
	if err != nil {
		deliveries.WithLabelValues("failure").Inc()
		return
	}
	deliveries.WithLabelValues("success").Inc()
}

// SetScheduledTriggers는 등록된 트리거 수를 갱신합니다.
func SetScheduledTriggers(n int) {
	scheduledTriggers.Set(float64(n))
}

// Handler는 '/metrics' 노출용 fiber 핸들러입니다.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
