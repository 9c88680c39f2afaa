package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	LogDir   string `envconfig:"LOG_DIR" default:"logs"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	AWSRegion   string        `envconfig:"AWS_REGION" default:"eu-west-1"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`

	PageSpeedAPIKey string `envconfig:"PAGESPEED_API_KEY"`

	ITaggURL      string `envconfig:"ITAGG_URL" default:"http://secure.itagg.com/smsg/sms.mes"`
	ITaggUsername string `envconfig:"ITAGG_USERNAME"`
	ITaggPassword string `envconfig:"ITAGG_PASSWORD"`
	ITaggRoute    int    `envconfig:"ITAGG_ROUTE" default:"7"`
	SlackWebhook  string `envconfig:"SLACK_WEBHOOK"`

	// probed
	Addr         string        `envconfig:"PROBED_ADDR" default:"127.0.0.1:5667"`
	APIKeys      []string      `envconfig:"PROBED_API_KEYS"`
	RatePerMin   int           `envconfig:"PROBED_RPM" default:"120"`
	RateBurst    int           `envconfig:"PROBED_BURST" default:"20"`
	TrustProxy   bool          `envconfig:"PROBED_TRUST_PROXY" default:"false"`
	ChecksFile   string        `envconfig:"PROBED_CHECKS" default:"checks.yaml"`
	CheckTimeout time.Duration `envconfig:"PROBED_CHECK_TIMEOUT" default:"30s"`

	// check_probed
	ProbedAPIKey string `envconfig:"PROBED_API_KEY"`
}

// FromEnv reads the configuration from the environment, applying defaults
// for anything unset.
func FromEnv() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if c.HTTPTimeout <= 0 {
		return Config{}, fmt.Errorf("config: HTTP_TIMEOUT must be positive")
	}
	if c.RatePerMin < 0 {
		c.RatePerMin = 0
	}
	return c, nil
}
