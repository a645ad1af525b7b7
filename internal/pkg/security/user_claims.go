package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	JWTSecret = "Atrium"
	// JWTExpirationTime 同时决定 Token 黑名单与封禁标记的保留时长
	JWTExpirationTime = 24 * time.Hour

	tokenIssuer = "Atrium"
)

// UserClaims 签进 Token 的业务身份。Caps 是签发时刻的能力快照，
// 收窄后的能力要等重新登录才生效
type UserClaims struct {
	UserID uint64   `json:"user_id"`
	Role   string   `json:"role"`
	Caps   []string `json:"caps"`
	jwt.RegisteredClaims
}

func newUserClaims(userID uint64, role string, caps []string) *UserClaims {
	now := time.Now()
	return &UserClaims{
		UserID: userID,
		Role:   role,
		Caps:   caps,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(JWTExpirationTime)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}
}
