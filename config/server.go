package config

import "time"

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr            string        `json:"addr" yaml:"addr"`                       // 监听地址
	ReadTimeout     time.Duration `json:"readTimeout" yaml:"readTimeout"`         // 读超时
	WriteTimeout    time.Duration `json:"writeTimeout" yaml:"writeTimeout"`       // 写超时
	ShutdownTimeout time.Duration `json:"shutdownTimeout" yaml:"shutdownTimeout"` // 优雅退出等待时间
	// JWT
	JWTSecret string `json:"jwtSecret" yaml:"jwtSecret"` // HS256 签名密钥
	// 限流
	RateLimitPerSecond float64 `json:"rateLimitPerSecond" yaml:"rateLimitPerSecond"` // 每用户每秒令牌数
	RateLimitBurst     int     `json:"rateLimitBurst" yaml:"rateLimitBurst"`         // 令牌桶容量
}

// SnowflakeConfig 雪花 ID 生成器配置
type SnowflakeConfig struct {
	NodeID int64 `json:"nodeId" yaml:"nodeId"` // 节点编号 0~1023，多实例互不相同
}

// DefaultServerConfig 返回本地开发的默认配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:               getenvString("SERVER_ADDR", ":8080"),
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       10 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		JWTSecret:          getenvString("JWT_SECRET", "chatdding-dev-secret"),
		RateLimitPerSecond: 10.0,
		RateLimitBurst:     20,
	}
}

// DefaultSnowflakeConfig 返回默认雪花配置
func DefaultSnowflakeConfig() SnowflakeConfig {
	return SnowflakeConfig{
		NodeID: getenvInt64("SNOWFLAKE_NODE_ID", 1),
	}
}
