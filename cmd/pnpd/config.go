package main

import (
	"fmt"
	"time"

	"github.com/netkea/pnpcommon/logging"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	applicationName = "pnpd"

	defaultAddress        = ":8080"
	defaultMetricsAddress = ":8081"
	defaultBackoffSeconds = 60
)

// MetricsConfig holds the options of the metrics endpoint.
type MetricsConfig struct {
	// Address is the bind address of the /metrics server.  Empty disables it.
	Address string `json:"address"`
}

// ServerConfig holds the options of the PnP-facing server.
type ServerConfig struct {
	Address         string        `json:"address"`
	ReadTimeout     time.Duration `json:"readTimeout"`
	WriteTimeout    time.Duration `json:"writeTimeout"`
	IdleTimeout     time.Duration `json:"idleTimeout"`
	CertificateFile string        `json:"certificateFile"`
	KeyFile         string        `json:"keyFile"`
	MaxRequestBody  int64         `json:"maxRequestBody"`
}

// BackoffConfig drives the default work handler: agents asking for work are
// told to call back later.
type BackoffConfig struct {
	Hours          int    `json:"hours"`
	Minutes        int    `json:"minutes"`
	Seconds        int    `json:"seconds"`
	DefaultMinutes int    `json:"defaultMinutes"`
	Terminate      bool   `json:"terminate"`
	Reason         string `json:"reason"`
}

// Config is the top-level pnpd configuration.
type Config struct {
	Server  ServerConfig    `json:"server"`
	Metrics MetricsConfig   `json:"metrics"`
	Log     logging.Options `json:"log"`
	Backoff BackoffConfig   `json:"backoff"`
}

// loadConfig reads the pnpd configuration from the file given by --file, or
// from the standard search path when unset.  A missing file is not an
// error: the defaults describe a usable development server.
func loadConfig(arguments []string) (*Config, error) {
	var (
		flagSet = pflag.NewFlagSet(applicationName, pflag.ContinueOnError)
		file    = flagSet.StringP("file", "f", "", "the configuration file")
		v       = viper.New()
	)

	if err := flagSet.Parse(arguments); err != nil {
		return nil, err
	}

	v.SetDefault("server.address", defaultAddress)
	v.SetDefault("metrics.address", defaultMetricsAddress)
	v.SetDefault("log.file", logging.StdoutFile)
	v.SetDefault("log.level", "INFO")
	v.SetDefault("backoff.seconds", defaultBackoffSeconds)

	if len(*file) > 0 {
		v.SetConfigFile(*file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read %s: %s", *file, err)
		}
	} else {
		v.SetConfigName(applicationName)
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("/etc/%s", applicationName))
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, err
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %s", err)
	}

	return &c, nil
}
