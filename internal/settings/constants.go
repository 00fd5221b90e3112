package settings

// DB config keys and defaults for settings.
const (
	// SiteNameKey is the DB config key for the public site name.
	SiteNameKey = "SITE_NAME"
	// DefaultSiteName is the fallback public site name.
	DefaultSiteName = "Kamunity"
	// SiteHostKey overrides the host used by the origin guard.
	SiteHostKey = "SITE_HOST"
	// ContactRateLimitMaxKey controls max contact submissions per window.
	ContactRateLimitMaxKey = "CONTACT_RATE_LIMIT_MAX"
	// ContactRateLimitWindowSecondsKey controls the contact window length.
	ContactRateLimitWindowSecondsKey = "CONTACT_RATE_LIMIT_WINDOW_SECONDS"
	// SubscribeRateLimitMaxKey controls max subscriptions per window.
	SubscribeRateLimitMaxKey = "SUBSCRIBE_RATE_LIMIT_MAX"
	// SubscribeRateLimitWindowSecondsKey controls the subscribe window length.
	SubscribeRateLimitWindowSecondsKey = "SUBSCRIBE_RATE_LIMIT_WINDOW_SECONDS"
	// SanitizeMaxLengthKey controls the sanitizer length ceiling.
	SanitizeMaxLengthKey = "SANITIZE_MAX_LENGTH"
	// RateLimitRedisEnabledKey toggles Redis-backed rate limiting.
	RateLimitRedisEnabledKey = "RATE_LIMIT_REDIS_ENABLED"
	// RateLimitRedisAddrKey defines the Redis address for rate limiting.
	RateLimitRedisAddrKey = "RATE_LIMIT_REDIS_ADDR"
	// RateLimitRedisPasswordKey defines the Redis password for rate limiting.
	RateLimitRedisPasswordKey = "RATE_LIMIT_REDIS_PASSWORD"
	// RateLimitRedisDBKey defines the Redis DB index for rate limiting.
	RateLimitRedisDBKey = "RATE_LIMIT_REDIS_DB"
	// RateLimitRedisPrefixKey defines the Redis key prefix for rate limiting.
	RateLimitRedisPrefixKey = "RATE_LIMIT_REDIS_PREFIX"

	// DefaultContactRateLimitMax is the fallback contact attempt ceiling.
	DefaultContactRateLimitMax = 5
	// DefaultContactRateLimitWindowSeconds is the fallback contact window (15 minutes).
	DefaultContactRateLimitWindowSeconds = 900
	// DefaultSubscribeRateLimitMax is the fallback subscribe attempt ceiling.
	DefaultSubscribeRateLimitMax = 10
	// DefaultSubscribeRateLimitWindowSeconds is the fallback subscribe window (1 hour).
	DefaultSubscribeRateLimitWindowSeconds = 3600
	// DefaultSanitizeMaxLength is the fallback sanitizer length ceiling.
	DefaultSanitizeMaxLength = 2000
	// DefaultRateLimitRedisPrefix is the fallback Redis key prefix.
	DefaultRateLimitRedisPrefix = "kam:rl"
)
