package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/spf13/viper"
)

const EnvPrefix = "PORTOPS"

type Settings struct {
	Server  ServerSettings  `mapstructure:"server"`
	Store   StoreSettings   `mapstructure:"store"`
	Ports   []string        `mapstructure:"ports"`
	Reports []ReportMapping `mapstructure:"reports"`
	Log     LogSettings     `mapstructure:"log"`
	CORS    CORSSettings    `mapstructure:"cors"`
	Objects ObjectSettings  `mapstructure:"objects"`
}

type ServerSettings struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (s ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type StoreSettings struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	Profile      string `mapstructure:"profile"`
	ProfilesPath string `mapstructure:"profiles_path"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// ReportMapping adds a report file name to the built-in registry.
type ReportMapping struct {
	File   string `mapstructure:"file"`
	Suffix string `mapstructure:"suffix"`
}

type LogSettings struct {
	Level string `mapstructure:"level"`
}

type CORSSettings struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type ObjectSettings struct {
	AWSProfile      string `mapstructure:"aws_profile"`
	AWSRegion       string `mapstructure:"aws_region"`
	AzureAccountURL string `mapstructure:"azure_account_url"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("store.driver", "duckdb")
	v.SetDefault("store.dsn", "portatlas.db")
	v.SetDefault("store.profiles_path", "")
	v.SetDefault("store.profile", "")
	v.SetDefault("store.max_open_conns", 0)
	v.SetDefault("ports", domain.DefaultPorts)
	v.SetDefault("log.level", "info")
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("objects.aws_profile", "")
	v.SetDefault("objects.aws_region", "eu-west-1")
	v.SetDefault("objects.azure_account_url", "")
}

// Load reads settings from path (optional), PORTOPS_* environment variables and defaults.
func Load(path string) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Settings{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func (s *Settings) Validate() error {
	ports := make([]string, 0, len(s.Ports))
	for _, p := range s.Ports {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if p == domain.AllPorts {
			return fmt.Errorf("%w: %q is reserved and cannot be a configured port", domain.ErrInvalidInput, domain.AllPorts)
		}
		ports = append(ports, p)
	}
	if len(ports) == 0 {
		return fmt.Errorf("%w: at least one port must be configured", domain.ErrInvalidInput)
	}
	s.Ports = ports

	for _, r := range s.Reports {
		if strings.TrimSpace(r.File) == "" || strings.TrimSpace(r.Suffix) == "" {
			return fmt.Errorf("%w: report mappings need both file and suffix", domain.ErrInvalidInput)
		}
	}

	if s.Server.Port <= 0 {
		return fmt.Errorf("%w: server.port must be positive", domain.ErrInvalidInput)
	}
	return nil
}
