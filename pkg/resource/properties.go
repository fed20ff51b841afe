package resource

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"go-weather/pkg/log"

	"github.com/spf13/viper"
)

var properties map[string]any
var envPattern = regexp.MustCompile(`\$\{([^:}]+)(?::([^}]*))?}`)

// init loads application properties from YAML
func init() {
	var value, ok = os.LookupEnv("PROPERTIES_FILE_PATH")
	if !ok {
		value = "configs/application.yml"
	}
	if err := Init(value); err != nil {
		log.Warnf("Properties not loaded, using defaults: %v", err)
	}
}

// Init reads the YAML file at filepath and merges its flattened keys, with
// ${ENV:default} placeholders resolved, into the global configuration.
func Init(filepath string) error {
	v := viper.New()
	v.SetConfigFile(filepath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("fail to read properties %s: %w", filepath, err)
	}

	if properties == nil {
		properties = make(map[string]any)
	}
	parsePropertiesMap("", v.AllSettings(), properties)

	for key, value := range properties {
		viper.Set(key, value)
	}
	return nil
}

// parsePropertiesMap reads recursively the YAML file
func parsePropertiesMap(prefix string, data map[string]any, result map[string]any) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			if resolved := resolveEnvVariable(v); resolved != nil {
				result[fullKey] = resolved
			}
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
			result[fullKey] = v
		case []any:
			result[fullKey] = v
		case map[string]any:
			parsePropertiesMap(fullKey, v, result)
		default:
			log.Debugf("Ignoring key '%s' with unsupported type.", fullKey)
		}
	}
}

// resolveEnvVariable resolves a ${ENV:default} placeholder. Plain values are
// returned unchanged; a placeholder with no env value and no default yields nil.
func resolveEnvVariable(value string) any {
	matches := envPattern.FindStringSubmatch(value)
	if len(matches) == 0 {
		return value
	}

	envName := matches[1]
	defaultValue := ""
	if len(matches) > 2 {
		defaultValue = matches[2]
	}

	if envValue, exists := os.LookupEnv(envName); exists {
		return envValue
	}
	if defaultValue != "" {
		return defaultValue
	}
	return nil
}

// Set overrides a property at runtime. Mostly useful in tests.
func Set(key string, value any) {
	viper.Set(key, value)
}

func Get(key string) any {
	return viper.Get(key)
}

func GetString(key string) string {
	return viper.GetString(key)
}

// GetStringOrDefault returns the property or defaultValue when it is unset or empty.
func GetStringOrDefault(key, defaultValue string) string {
	if value := viper.GetString(key); value != "" {
		return value
	}
	return defaultValue
}

func GetBool(key string) bool {
	return viper.GetBool(key)
}

func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// GetDurationOrDefault returns the property or defaultValue when it is unset or not positive.
func GetDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := viper.GetDuration(key); value > 0 {
		return value
	}
	return defaultValue
}

func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetIntOrDefault returns the property or defaultValue when it is unset or zero.
func GetIntOrDefault(key string, defaultValue int) int {
	if value := viper.GetInt(key); value != 0 {
		return value
	}
	return defaultValue
}

func GetInt64(key string) int64 {
	return viper.GetInt64(key)
}

func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetFloat64OrDefault returns the property or defaultValue when it is unset or zero.
func GetFloat64OrDefault(key string, defaultValue float64) float64 {
	if value := viper.GetFloat64(key); value != 0 {
		return value
	}
	return defaultValue
}

func GetStringSlice(key string) []string {
	return viper.GetStringSlice(key)
}
