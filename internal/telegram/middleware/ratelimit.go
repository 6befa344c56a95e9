package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	inactiveUserTTL = time.Hour
	warningInterval = 30 * time.Second
)

// userLimit tracks rate limit state for a single user
type userLimit struct {
	limiter *rate.Limiter

	mu            sync.Mutex
	warningsSent  int
	lastWarningAt time.Time
}

// RateLimiterMiddleware implements token bucket rate limiting per user.
// Buckets of users idle for an hour are dropped.
type RateLimiterMiddleware struct {
	mu     sync.Mutex
	limits *gocache.Cache
	every  rate.Limit
	burst  int
	now    func() time.Time
	logger *zap.Logger
	sender Sender
}

// NewRateLimiterMiddleware allows requestsPerMinute on average with bursts of up to burst messages.
func NewRateLimiterMiddleware(requestsPerMinute, burst int, logger *zap.Logger, sender Sender) *RateLimiterMiddleware {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiterMiddleware{
		limits: gocache.New(inactiveUserTTL, 10*time.Minute),
		every:  rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:  burst,
		now:    time.Now,
		logger: logger,
		sender: sender,
	}
}

// Handle processes the update through rate limiting
func (rl *RateLimiterMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	userID, chatID, ok := origin(update)
	if !ok {
		next(update)
		return
	}

	if !rl.allowRequest(userID, chatID) {
		rl.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", userID),
			zap.Int64("chat_id", chatID),
		)
		return
	}

	next(update)
}

func (rl *RateLimiterMiddleware) bucket(userID int64) *userLimit {
	key := strconv.FormatInt(userID, 10)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.limits.Get(key); ok {
		rl.limits.SetDefault(key, v)
		return v.(*userLimit)
	}

	limit := &userLimit{limiter: rate.NewLimiter(rl.every, rl.burst)}
	rl.limits.SetDefault(key, limit)
	return limit
}

func (rl *RateLimiterMiddleware) allowRequest(userID, chatID int64) bool {
	limit := rl.bucket(userID)

	now := rl.now()
	allowed := limit.limiter.AllowN(now, 1)

	limit.mu.Lock()
	defer limit.mu.Unlock()

	if allowed {
		limit.warningsSent = 0
		return true
	}

	if now.Sub(limit.lastWarningAt) > warningInterval {
		limit.warningsSent++
		limit.lastWarningAt = now
		rl.sendRateLimitWarning(chatID, limit.warningsSent)
	}

	return false
}

func (rl *RateLimiterMiddleware) sendRateLimitWarning(chatID int64, warningCount int) {
	text := render.MsgSlowDown
	if warningCount >= 3 {
		text = render.MsgRateLimited
	}

	if _, err := rl.sender.Send(tgbotapi.NewMessage(chatID, text.Bilingual())); err != nil {
		rl.logger.Error("failed to send rate limit warning",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}
