package app

import (
	"strings"

	"github.com/yungbote/kinship-backend/internal/db"
	"github.com/yungbote/kinship-backend/internal/logger"
	"github.com/yungbote/kinship-backend/internal/utils"
)

type Config struct {
	Port         string
	Environment  string
	AllowOrigins []string
	Postgres     db.Config
	OtelEnabled  bool
	OTLPEndpoint string
}

func LoadConfig(log *logger.Logger) Config {
	origins := strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return Config{
		Port:         utils.GetEnv("PORT", "8080", log),
		Environment:  utils.GetEnv("ENVIRONMENT", "development", log),
		AllowOrigins: origins,
		Postgres: db.Config{
			Host:     utils.GetEnv("POSTGRES_HOST", "localhost", log),
			Port:     utils.GetEnv("POSTGRES_PORT", "5432", log),
			User:     utils.GetEnv("POSTGRES_USER", "postgres", log),
			Password: utils.GetEnv("POSTGRES_PASSWORD", "", log),
			Name:     utils.GetEnv("POSTGRES_NAME", "kinship", log),
			SSLMode:  utils.GetEnv("POSTGRES_SSLMODE", "disable", log),
		},
		OtelEnabled:  utils.GetEnvAsBool("OTEL_ENABLED", false, log),
		OTLPEndpoint: utils.GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
	}
}
