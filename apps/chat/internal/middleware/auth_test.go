package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChatDDing/consts"
	"ChatDDing/pkg/util"
)

const testSecret = "test-secret"

func signToken(t *testing.T, userId int64, expiresAt time.Time, secret string) string {
	t.Helper()
	claims := &Claims{
		UserId: userId,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(Auth(testSecret))
	engine.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": util.GetUserIDFromContext(c.Request.Context())})
	})
	return engine
}

func TestAuth(t *testing.T) {
	engine := newAuthTestRouter()

	doRequest := func(headers map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		var body map[string]interface{}
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		return w, body
	}

	t.Run("合法token放行并注入用户", func(t *testing.T) {
		token := signToken(t, 100, time.Now().Add(time.Hour), testSecret)
		w, body := doRequest(map[string]string{"Authorization": "Bearer " + token})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(100), body["user_id"])
	})

	t.Run("过期token", func(t *testing.T) {
		token := signToken(t, 100, time.Now().Add(-time.Hour), testSecret)
		w, body := doRequest(map[string]string{"Authorization": "Bearer " + token})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(consts.CodeTokenExpired), body["code"])
	})

	t.Run("错误密钥签名", func(t *testing.T) {
		token := signToken(t, 100, time.Now().Add(time.Hour), "wrong-secret")
		_, body := doRequest(map[string]string{"Authorization": "Bearer " + token})
		assert.Equal(t, float64(consts.CodeInvalidToken), body["code"])
	})

	t.Run("X-User-Id内网透传", func(t *testing.T) {
		w, body := doRequest(map[string]string{"X-User-Id": "200"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(200), body["user_id"])
	})

	t.Run("非法X-User-Id", func(t *testing.T) {
		_, body := doRequest(map[string]string{"X-User-Id": "abc"})
		assert.Equal(t, float64(consts.CodeUnauthorized), body["code"])
	})

	t.Run("无凭证", func(t *testing.T) {
		_, body := doRequest(nil)
		assert.Equal(t, float64(consts.CodeUnauthorized), body["code"])
	})

	t.Run("Bearer前缀缺失", func(t *testing.T) {
		token := signToken(t, 100, time.Now().Add(time.Hour), testSecret)
		_, body := doRequest(map[string]string{"Authorization": token})
		assert.Equal(t, float64(consts.CodeInvalidToken), body["code"])
	})
}
