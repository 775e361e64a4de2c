package config

import (
	"reflect"
	"strings"

	"code-reconciler/core/database"
	"code-reconciler/core/logger"
	"code-reconciler/core/reconcile"
	"code-reconciler/core/server"
	"code-reconciler/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the optional run history database.
	Database database.Config `mapstructure:"database"`
	// Reconcile holds engine defaults such as the modifier criteria.
	Reconcile reconcile.Config `mapstructure:"reconcile"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Resolve the .env location relative to path
	envPath := path + "/.env"
	if path == "." || path == "" {
		envPath = ".env"
	}

	// A missing .env is normal in production.
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// 2. Register defaults from struct tags, nested sections included
	bindValues(v, Config{}, "")

	// SERVER_PORT -> server.port, RECONCILE_CRITERIA_ROOT25 -> reconcile.criteria.root25
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 3. Decode into the typed config
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues walks the struct and registers every mapstructure key with its
// 'default' tag so AutomaticEnv can resolve it.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// Accept pointers to config structs too
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		// Untagged fields are not config keys
		if tag == "" {
			continue
		}

		// Nested keys are dotted: reconcile.criteria.root25
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// Sections recurse with the key as prefix
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Set even when empty so the key is registered.
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
