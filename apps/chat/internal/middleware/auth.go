package middleware

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"ChatDDing/consts"
	"ChatDDing/pkg/result"
	"ChatDDing/pkg/util"
)

// HeaderUserID 内网直连时的用户透传头（网关已鉴权场景）
const HeaderUserID = "X-User-Id"

// Claims JWT 载荷
type Claims struct {
	UserId int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Auth 认证中间件。
// 优先解析 Authorization: Bearer <jwt>；缺失时退回 X-User-Id 头（仅内网信任链路）。
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, code := resolveUserId(c, secret)
		if code != consts.CodeSuccess {
			result.Fail(c, nil, code)
			c.Abort()
			return
		}
		c.Set(util.ContextKeyUserID, userId)
		c.Request = c.Request.WithContext(util.WithUserID(c.Request.Context(), userId))
		c.Next()
	}
}

func resolveUserId(c *gin.Context, secret string) (int64, int) {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader || token == "" {
			return 0, consts.CodeInvalidToken
		}
		return parseToken(token, secret)
	}

	if raw := c.GetHeader(HeaderUserID); raw != "" {
		userId, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userId <= 0 {
			return 0, consts.CodeUnauthorized
		}
		return userId, consts.CodeSuccess
	}

	return 0, consts.CodeUnauthorized
}

func parseToken(tokenStr, secret string) (int64, int) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, consts.CodeTokenExpired
		}
		return 0, consts.CodeInvalidToken
	}
	if !token.Valid || claims.UserId <= 0 {
		return 0, consts.CodeInvalidToken
	}
	return claims.UserId, consts.CodeSuccess
}
