package configs

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type EnvConfig struct {
	ApplicationName string
	ContextPath     string
	Port            string
}

var Env *EnvConfig

func init() {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	viper.AutomaticEnv()

	Env = &EnvConfig{
		ApplicationName: getStringOrDefault("APPLICATION_NAME", "go-weather"),
		ContextPath:     getStringOrDefault("CONTEXT_PATH", "/go-weather"),
		Port:            getStringOrDefault("PORT", "8080"),
	}
}

func getStringOrDefault(key, defaultValue string) string {
	value := viper.GetString(key)
	if value == "" {
		return defaultValue
	}
	return value
}
