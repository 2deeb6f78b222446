package logger

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/mushaf-bot/internal/config"
)

const appName = "mushaf-bot"

// New builds a JSON logger for production and a console logger with debug
// output everywhere else. Every entry carries the app name and environment.
func New(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.Env == "production" {
		zcfg = zap.NewProductionConfig()
	}

	zcfg.InitialFields = map[string]any{
		"app": appName,
		"env": cfg.Env,
	}

	return zcfg.Build()
}
