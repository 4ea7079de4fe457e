package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// JWT
	JWTSecretKey  string
	JWTExpiration time.Duration

	// Founder credentials（2人分の固定アカウント）
	FounderAUsername string
	FounderAPassword string
	FounderBUsername string
	FounderBPassword string

	// Rate Limit
	RateLimitGeneral int

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// カレントディレクトリに.envがあれば先に読み込む（未存在でもエラーにしない）。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.JWTSecretKey = os.Getenv("JWT_SECRET_KEY")
	if cfg.JWTSecretKey == "" {
		missing = append(missing, "JWT_SECRET_KEY")
	}

	cfg.FounderAUsername = os.Getenv("FOUNDER_A_USERNAME")
	if cfg.FounderAUsername == "" {
		missing = append(missing, "FOUNDER_A_USERNAME")
	}

	cfg.FounderAPassword = os.Getenv("FOUNDER_A_PASSWORD")
	if cfg.FounderAPassword == "" {
		missing = append(missing, "FOUNDER_A_PASSWORD")
	}

	cfg.FounderBUsername = os.Getenv("FOUNDER_B_USERNAME")
	if cfg.FounderBUsername == "" {
		missing = append(missing, "FOUNDER_B_USERNAME")
	}

	cfg.FounderBPassword = os.Getenv("FOUNDER_B_PASSWORD")
	if cfg.FounderBPassword == "" {
		missing = append(missing, "FOUNDER_B_PASSWORD")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// 2つのアカウントが同一ユーザー名だと認証時に区別できない
	if cfg.FounderAUsername == cfg.FounderBUsername {
		return nil, fmt.Errorf("FOUNDER_A_USERNAME and FOUNDER_B_USERNAME must be distinct")
	}

	// Optional fields with defaults
	cfg.JWTExpiration = time.Duration(getEnvInt("JWT_EXPIRATION_HOURS", 24)) * time.Hour
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:5173")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}
