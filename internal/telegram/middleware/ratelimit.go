package middleware

import (
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// userLimit tracks rate limit state for a single user
type userLimit struct {
	tokens        float64
	lastRefill    time.Time
	warningsSent  int
	lastWarningAt time.Time
	mu            sync.Mutex
}

// RateLimiterMiddleware implements token bucket rate limiting per user
type RateLimiterMiddleware struct {
	limits          map[int64]*userLimit
	mu              sync.RWMutex
	maxTokens       float64 // Maximum tokens in bucket
	refillRate      float64 // Tokens added per second
	warningInterval time.Duration
	logger          *zap.Logger
	sender          Sender
	now             func() time.Time
	stop            chan struct{}
}

// NewRateLimiterMiddleware creates a new rate limiter middleware
func NewRateLimiterMiddleware(
	requestsPerMinute int,
	burstSize int,
	logger *zap.Logger,
	sender Sender,
) *RateLimiterMiddleware {
	if burstSize < 1 {
		burstSize = 1
	}

	rl := &RateLimiterMiddleware{
		limits:          make(map[int64]*userLimit),
		maxTokens:       float64(burstSize), // Bucket size is the burst size
		refillRate:      float64(requestsPerMinute) / 60.0, // tokens per second
		warningInterval: 30 * time.Second,
		logger:          logger,
		sender:          sender,
		now:             time.Now,
		stop:            make(chan struct{}),
	}

	// Start cleanup goroutine to remove inactive users
	go rl.cleanupInactiveUsers()

	return rl
}

// Handle processes the update through rate limiting
func (rl *RateLimiterMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	userID, chatID, ok := updateIDs(update)
	if !ok {
		// Unknown update type, allow it
		next(update)
		return
	}

	// Check rate limit
	if !rl.allowRequest(userID, chatID) {
		rl.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", userID),
			zap.Int64("chat_id", chatID),
		)
		return
	}

	// Call next handler
	next(update)
}

// allowRequest checks if request is allowed under rate limit
func (rl *RateLimiterMiddleware) allowRequest(userID, chatID int64) bool {
	rl.mu.Lock()
	limit, exists := rl.limits[userID]
	if !exists {
		limit = &userLimit{
			tokens:     rl.maxTokens,
			lastRefill: rl.now(),
		}
		rl.limits[userID] = limit
	}
	rl.mu.Unlock()

	limit.mu.Lock()
	defer limit.mu.Unlock()

	now := rl.now()

	// Refill tokens based on elapsed time
	elapsed := now.Sub(limit.lastRefill).Seconds()
	limit.tokens += elapsed * rl.refillRate
	if limit.tokens > rl.maxTokens {
		limit.tokens = rl.maxTokens
	}
	limit.lastRefill = now

	// Check if we have enough tokens
	if limit.tokens >= 1.0 {
		limit.tokens -= 1.0
		limit.warningsSent = 0 // Reset warnings on successful request
		return true
	}

	// Rate limit exceeded - send warning if not sent recently
	if now.Sub(limit.lastWarningAt) > rl.warningInterval {
		limit.warningsSent++
		limit.lastWarningAt = now

		rl.sendRateLimitWarning(chatID, limit.warningsSent)
	}

	return false
}

// sendRateLimitWarning sends a warning message to the user
func (rl *RateLimiterMiddleware) sendRateLimitWarning(chatID int64, warningCount int) {
	var text string

	switch {
	case warningCount == 1:
		text = "⚠️ Too many requests. Please wait a moment."
	case warningCount == 2:
		text = "⚠️ Rate limit exceeded. Wait about 30 seconds before trying again."
	default:
		text = "🛑 You are sending requests too often. Please wait a minute."
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := rl.sender.Send(msg); err != nil {
		rl.logger.Error("failed to send rate limit warning",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

// cleanupInactiveUsers removes users that haven't sent requests in 1 hour
func (rl *RateLimiterMiddleware) cleanupInactiveUsers() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
		}

		rl.mu.Lock()
		now := rl.now()
		inactiveThreshold := 1 * time.Hour

		for userID, limit := range rl.limits {
			limit.mu.Lock()
			if now.Sub(limit.lastRefill) > inactiveThreshold {
				delete(rl.limits, userID)
				rl.logger.Debug("cleaned up inactive user from rate limiter",
					zap.Int64("user_id", userID),
				)
			}
			limit.mu.Unlock()
		}
		rl.mu.Unlock()
	}
}

// Close stops the background cleanup of inactive users
func (rl *RateLimiterMiddleware) Close() {
	close(rl.stop)
}
