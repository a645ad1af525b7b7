package consts

const (
	OtpRegisterKey   = "otp:register:"
	OtpLoginKey      = "otp:login:"
	RefreshTokenKey  = "auth:refresh:"
	TokenBlockKey    = "auth:block:"
	UserBannedKey    = "user:banned:"
	PresenceSetKey   = "presence:online"
	PresenceAliveKey = "presence:alive:"
	PresenceNamesKey = "presence:names"
	ChatChannelKey   = "chat:group"
	StatsLockKey     = "stats:lock:"
)
