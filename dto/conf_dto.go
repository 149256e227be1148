package dto

type AlertsConfig struct {
	// nil when the key is absent; 0 is a legal threshold
	DefaultThreshold *float64 `json:"default-threshold" yaml:"default-threshold" validate:"required,gte=0,lte=100"`
	HistorySize      int     `json:"history-size" yaml:"history-size" validate:"required,min=1"`
	// seconds
	CheckInterval float64 `json:"check-interval" yaml:"check-interval" validate:"required,gt=0"`
	NotifyTimeout float64 `json:"notify-timeout" yaml:"notify-timeout" validate:"gte=0"`
}

type EmailConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	Sender     string `json:"sender" yaml:"sender" validate:"required,email"`
	Receiver   string `json:"receiver" yaml:"receiver" validate:"required,email"`
	SMTPServer string `json:"smtp-server" yaml:"smtp-server" validate:"required,hostname_rfc1123"`
	SMTPPort   int    `json:"smtp-port" yaml:"smtp-port" validate:"required,min=1,max=65535"`
	Password   string `json:"password" yaml:"password" validate:"required"`
	// allow servers without STARTTLS or AUTH; local relays only
	Insecure bool `json:"insecure" yaml:"insecure"`
}

type WebhookConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	URL     string `json:"url" yaml:"url" validate:"required,url"`
}

type S3ArchiveConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	Region    string `json:"region" yaml:"region"`
	Bucket    string `json:"bucket" yaml:"bucket" validate:"required"`
	Prefix    string `json:"prefix" yaml:"prefix"`
	AccessKey string `json:"access-key" yaml:"access-key" validate:"required"`
	SecretKey string `json:"secret-key" yaml:"secret-key" validate:"required"`
}

type MinioArchiveConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Endpoint  string `json:"endpoint" yaml:"endpoint" validate:"required"`
	Bucket    string `json:"bucket" yaml:"bucket" validate:"required"`
	Prefix    string `json:"prefix" yaml:"prefix"`
	AccessKey string `json:"access-key" yaml:"access-key" validate:"required"`
	SecretKey string `json:"secret-key" yaml:"secret-key" validate:"required"`
	Secure    bool   `json:"secure" yaml:"secure"`
	// bytes per second, 0 means unlimited
	UploadLimit int64 `json:"upload-limit" yaml:"upload-limit" validate:"gte=0"`
}

type APIConfig struct {
	ListenAddr string  `json:"listen-addr" yaml:"listen-addr" validate:"required"`
	RateLimit  float64 `json:"rate-limit" yaml:"rate-limit" validate:"gt=0"`
	RateBurst  int     `json:"rate-burst" yaml:"rate-burst" validate:"min=1"`
	// seconds
	StreamInterval float64 `json:"stream-interval" yaml:"stream-interval" validate:"gt=0"`
}
