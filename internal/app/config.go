package app

import (
	"strings"
	"time"

	"github.com/yungbote/usr-annotation-backend/internal/data/db"
	"github.com/yungbote/usr-annotation-backend/internal/observability"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
	"github.com/yungbote/usr-annotation-backend/internal/platform/envutil"
	"github.com/yungbote/usr-annotation-backend/internal/platform/sendgrid"
	"github.com/yungbote/usr-annotation-backend/internal/realtime/bus"
)

type Config struct {
	HTTPAddr       string
	AllowedOrigins []string

	DB db.Options

	JWTSecretKey   string
	AccessTokenTTL time.Duration
	OTPTTL         time.Duration

	// Redis is optional; without REDIS_ADDR events stay in-process.
	Redis bus.RedisOptions

	SendGrid sendgrid.Config

	Otel observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		HTTPAddr:       envutil.String("HTTP_ADDR", ":8080", log),
		AllowedOrigins: splitList(envutil.String("CORS_ALLOWED_ORIGINS", "", log)),
		DB: db.Options{
			Driver:           envutil.String("DB_DRIVER", db.DriverPostgres, log),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost", log),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432", log),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres", log),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", "", log),
			PostgresName:     envutil.String("POSTGRES_NAME", "usr_annotation", log),
			PostgresDSN:      envutil.String("POSTGRES_DSN", "", log),
			SQLitePath:       envutil.String("SQLITE_PATH", "usr_annotation.db", log),
		},
		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", "defaultsecret", log),
		AccessTokenTTL: envutil.Duration("ACCESS_TOKEN_TTL", time.Hour, log),
		OTPTTL:         envutil.Duration("OTP_TTL", 10*time.Minute, log),
		Redis: bus.RedisOptions{
			Addr:    envutil.String("REDIS_ADDR", "", log),
			Channel: envutil.String("REDIS_CHANNEL", "assignment-events", log),
		},
		SendGrid: sendgrid.ConfigFromEnv(log),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "usr-annotation-backend", log),
			Environment: envutil.String("OTEL_ENVIRONMENT", "development", log),
			Version:     envutil.String("OTEL_SERVICE_VERSION", "dev", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
			SampleRatio: float64(envutil.Int("OTEL_SAMPLE_PERCENT", 100, log)) / 100,
		},
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
