package logger

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Middleware 记录每个 HTTP 请求的方法、路径与耗时
func Middleware(log logrus.FieldLogger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			log.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
				"remote":   r.RemoteAddr,
			}).Debug("HTTP request")
		})
	}
}

// LogWebSocketConnect 记录 WebSocket 连接建立
func LogWebSocketConnect(log logrus.FieldLogger, connID, remoteAddr, subprotocol string) {
	log.WithFields(logrus.Fields{
		"conn":        connID,
		"remote":      remoteAddr,
		"subprotocol": subprotocol,
	}).Info("🔌 WebSocket connected")
}

// LogWebSocketDisconnect 记录 WebSocket 连接断开
func LogWebSocketDisconnect(log logrus.FieldLogger, connID, remoteAddr string, err error) {
	fields := logrus.Fields{
		"conn":   connID,
		"remote": remoteAddr,
	}
	if err != nil {
		fields["error"] = err
	}
	log.WithFields(fields).Info("🔌 WebSocket disconnected")
}
