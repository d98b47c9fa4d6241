package middleware

import (
	"strconv"
	"sync"

	"instaclone-backend/internal/errors"
	"instaclone-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ErrorMonitor counts the application errors handlers report with c.Error.
type ErrorMonitor struct {
	errorCounts map[errors.ErrorCode]int
	mu          sync.RWMutex
	counter     *prometheus.CounterVec
}

func NewErrorMonitor(reg prometheus.Registerer) *ErrorMonitor {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "app_errors_total",
		Help: "Application errors by error code.",
	}, []string{"code"})
	if reg != nil {
		reg.MustRegister(counter)
	}
	return &ErrorMonitor{
		errorCounts: make(map[errors.ErrorCode]int),
		counter:     counter,
	}
}

func (m *ErrorMonitor) RecordError(err error) {
	code := errors.CodeOf(err)
	m.mu.Lock()
	m.errorCounts[code]++
	m.mu.Unlock()
	m.counter.WithLabelValues(strconv.Itoa(int(code))).Inc()
}

func (m *ErrorMonitor) GetErrorCounts() map[errors.ErrorCode]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[errors.ErrorCode]int)
	for code, count := range m.errorCounts {
		counts[code] = count
	}
	return counts
}

func ErrorMonitorMiddleware(monitor *ErrorMonitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, e := range c.Errors {
			monitor.RecordError(e.Err)
			if appErr, ok := errors.As(e.Err); ok {
				util.Logger.Warn("request failed",
					zap.Int("error_code", int(appErr.Code)),
					zap.String("error_message", appErr.Message),
					zap.Error(appErr.Err),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method))
			}
		}
	}
}
