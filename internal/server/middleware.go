package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := s.logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("error", c.Errors.String())
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request")
		}
	}
}

func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		s.logger.WithFields(logrus.Fields{
			"path":  c.Request.URL.Path,
			"panic": recovered,
		}).Error("panic recovered")
		fail(c, http.StatusInternalServerError, "internal server error")
	})
}

// ipLimiter keeps one token bucket per client IP.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	rps      rate.Limit
	burst    int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(rps float64, burst int) *ipLimiter {
	return &ipLimiter{
		limiters: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	v, ok := l.limiters[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[ip] = v
	}
	v.lastSeen = now

	// Drop idle visitors while we hold the lock.
	if len(l.limiters) > 1024 {
		for key, other := range l.limiters {
			if now.Sub(other.lastSeen) > 10*time.Minute {
				delete(l.limiters, key)
			}
		}
	}

	return v.limiter.Allow()
}

func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			fail(c, http.StatusTooManyRequests, "too many requests")
			return
		}
		c.Next()
	}
}
