package conf

import (
	"ChintuIdrive/server-surveillance/cryption"
	"ChintuIdrive/server-surveillance/dto"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// SecretKeyEnv names the environment variable holding the passphrase for "enc:" secrets.
const SecretKeyEnv = "SURVEILLANCE_SECRET_KEY"

const (
	DefaultThreshold      = 80.0
	DefaultHistorySize    = 100
	DefaultCheckInterval  = 2.0
	DefaultNotifyTimeout  = 10.0
	DefaultListenAddr     = ":8080"
	DefaultRateLimit      = 20.0
	DefaultRateBurst      = 40
	DefaultStreamInterval = 2.0
)

var validate = newValidator()

// newValidator reports fields by their config-file names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

type Config struct {
	LogFilePath    string                 `json:"log-file-path" yaml:"log-file-path"`
	NodeId         string                 `json:"node-id" yaml:"node-id"`
	DiskMountPoint string                 `json:"disk-mount-point" yaml:"disk-mount-point" validate:"required"`
	Alerts         dto.AlertsConfig       `json:"alerts" yaml:"alerts"`
	Email          dto.EmailConfig        `json:"email" yaml:"email" validate:"-"`
	Webhook        dto.WebhookConfig      `json:"webhook" yaml:"webhook" validate:"-"`
	S3Archive      dto.S3ArchiveConfig    `json:"s3-archive" yaml:"s3-archive" validate:"-"`
	MinioArchive   dto.MinioArchiveConfig `json:"minio-archive" yaml:"minio-archive" validate:"-"`
	API            dto.APIConfig          `json:"api" yaml:"api"`
}

// ConfigurationError is returned for a config that must not be started.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "configuration error: " + e.Reason
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// LoadConfig reads a JSON or YAML config file, fills optional sections with
// defaults and decrypts "enc:" secrets. The result is not validated.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var config Config
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("parse %s: %v", filePath, err)}
	}

	config.applyDefaults()
	if err := config.decryptSecrets(os.Getenv(SecretKeyEnv)); err != nil {
		return nil, err
	}
	return &config, nil
}

func GetDefaultConfig() *Config {
	config := &Config{
		LogFilePath:    "surveillance.log",
		DiskMountPoint: "/",
		Alerts: dto.AlertsConfig{
			DefaultThreshold: ptr(DefaultThreshold),
			HistorySize:      DefaultHistorySize,
			CheckInterval:    DefaultCheckInterval,
			NotifyTimeout:    DefaultNotifyTimeout,
		},
	}
	config.applyDefaults()
	return config
}

func (config *Config) applyDefaults() {
	if config.LogFilePath == "" {
		config.LogFilePath = "surveillance.log"
	}
	if config.NodeId == "" {
		if host, err := os.Hostname(); err == nil {
			config.NodeId = host
		}
	}
	if config.Alerts.NotifyTimeout == 0 {
		config.Alerts.NotifyTimeout = DefaultNotifyTimeout
	}
	if config.API.ListenAddr == "" {
		config.API.ListenAddr = DefaultListenAddr
	}
	if config.API.RateLimit == 0 {
		config.API.RateLimit = DefaultRateLimit
	}
	if config.API.RateBurst == 0 {
		config.API.RateBurst = DefaultRateBurst
	}
	if config.API.StreamInterval == 0 {
		config.API.StreamInterval = DefaultStreamInterval
	}
}

func (config *Config) decryptSecrets(passphrase string) error {
	secrets := map[string]*string{
		"email.password":           &config.Email.Password,
		"s3-archive.secret-key":    &config.S3Archive.SecretKey,
		"minio-archive.secret-key": &config.MinioArchive.SecretKey,
	}
	for field, secret := range secrets {
		if !cryption.IsEncrypted(*secret) {
			continue
		}
		plain, err := cryption.DecryptString(*secret, passphrase)
		if err != nil {
			return &ConfigurationError{Field: field, Reason: fmt.Sprintf("decrypt with $%s: %v", SecretKeyEnv, err)}
		}
		*secret = plain
	}
	return nil
}

// Validate checks required fields and ranges. Notification sections are only
// checked when enabled.
func (config *Config) Validate() error {
	if err := validateStruct("", config); err != nil {
		return err
	}
	sections := []struct {
		name    string
		enabled bool
		value   any
	}{
		{"email", config.Email.Enabled, config.Email},
		{"webhook", config.Webhook.Enabled, config.Webhook},
		{"s3-archive", config.S3Archive.Enabled, config.S3Archive},
		{"minio-archive", config.MinioArchive.Enabled, config.MinioArchive},
	}
	for _, section := range sections {
		if !section.enabled {
			continue
		}
		if err := validateStruct(section.name+".", section.value); err != nil {
			return err
		}
	}
	return nil
}

func validateStruct(prefix string, value any) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		return &ConfigurationError{Field: prefix + field, Reason: fmt.Sprintf("failed %q check", fe.Tag())}
	}
	return &ConfigurationError{Reason: err.Error()}
}

// Threshold returns the configured alert threshold, or 0 when unset.
// Validate rejects an unset threshold.
func (config *Config) Threshold() float64 {
	if config.Alerts.DefaultThreshold == nil {
		return 0
	}
	return *config.Alerts.DefaultThreshold
}

func (config *Config) CheckInterval() time.Duration {
	return seconds(config.Alerts.CheckInterval)
}

func (config *Config) NotifyTimeout() time.Duration {
	return seconds(config.Alerts.NotifyTimeout)
}

func (config *Config) StreamInterval() time.Duration {
	return seconds(config.API.StreamInterval)
}

func ptr[T any](v T) *T { return &v }

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
