package msg

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"go-weather/pkg/log"

	"github.com/spf13/viper"
)

var messages = make(map[string]string)

// init loads messages from YAML
func init() {
	var value, ok = os.LookupEnv("MESSAGES_FILE_PATH")
	if !ok {
		value = "configs/messages.yml"
	}
	if err := Init(value); err != nil {
		log.Warnf("Messages not loaded: %v", err)
	}
}

// Init reads the message catalogue at filepath and merges it into the loaded messages.
func Init(filepath string) error {
	v := viper.New()
	v.SetConfigFile(filepath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("fail to read messages %s: %w", filepath, err)
	}

	parseMessageMap("", v.AllSettings(), messages)
	return nil
}

// Register adds or replaces a message at runtime.
func Register(key, message string) {
	messages[key] = message
}

// parseMessageMap read recursively the yml archive
func parseMessageMap(prefix string, data map[string]interface{}, result map[string]string) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = v
		case map[string]interface{}:
			parseMessageMap(fullKey, v, result)
		default:
			log.Debugf("Ignoring key '%s' with unsupported type.", fullKey)
		}
	}
}

// GetMessage returns a msg and format
func GetMessage(key string, args ...interface{}) string {
	msg, exists := messages[key]
	if !exists {
		return fmt.Sprintf("Message not found: %s", key)
	}

	for i, arg := range args {
		placeholder := fmt.Sprintf("{%d}", i)
		var argStr string

		if isPrimitive(arg) {
			argStr = primitiveToString(arg)
		} else {
			jsonBytes, err := json.Marshal(arg)
			if err != nil {
				argStr = fmt.Sprintf("%v", arg)
			} else {
				argStr = string(jsonBytes)
			}
		}

		msg = strings.ReplaceAll(msg, placeholder, argStr)
	}

	return msg
}

// isPrimitive checks if the provided value is of a primitive type (bool, int, uint, float, or string).
func isPrimitive(value interface{}) bool {
	if value == nil {
		return true
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.String:
		return true
	default:
		return false
	}
}

func primitiveToString(value interface{}) string {
	if value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", value)
	}
}
