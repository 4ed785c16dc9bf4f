package config

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyStorageDBPath     = "storage.db_path"
	KeyRemoteCompanyName = "remote.company_name"
	KeyRemoteTimeout     = "remote.timeout"
	KeyRemoteUserAgent   = "remote.user_agent"
	KeyServerPort        = "server.port"
	KeyLogLevel          = "log.level"
	KeyImportReconcile   = "import.auto_reconcile_after_import"
)

type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Remote  RemoteConfig  `mapstructure:"remote"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Import  ImportConfig  `mapstructure:"import"`
}

type StorageConfig struct {
	DBPath string `mapstructure:"db_path" validate:"required"`
}

type RemoteConfig struct {
	CompanyName string        `mapstructure:"company_name" validate:"required"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
	UserAgent   string        `mapstructure:"user_agent"`
}

type ServerConfig struct {
	Port int `mapstructure:"port" validate:"gte=1,lte=65535"`
}

type ImportConfig struct {
	AutoReconcileAfterImport bool `mapstructure:"auto_reconcile_after_import"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# zeiterfassung configuration
storage:
  db_path: "./zeiterfassung.db"

remote:
  # Sent with every push as companyName and used as export title.
  company_name: "Zimmerei"
  timeout: 30s
  user_agent: "zeiterfassung/1.0"

server:
  port: 8080

log:
  level: "info"

import:
  # Remove exact duplicates after each import unless --reconcile says otherwise.
  auto_reconcile_after_import: false
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyStorageDBPath, "./zeiterfassung.db")
	v.SetDefault(KeyRemoteCompanyName, "Zimmerei")
	v.SetDefault(KeyRemoteTimeout, 30*time.Second)
	v.SetDefault(KeyRemoteUserAgent, "zeiterfassung/1.0")
	v.SetDefault(KeyServerPort, 8080)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyImportReconcile, false)
}
