package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string        `mapstructure:"port"`
	BaseUrl        string        `mapstructure:"base_url"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	CredentialFile string        `mapstructure:"credential_file"`
}

// Load reads an optional promptpilot.yaml from the working directory and
// layers PP_* environment variables on top.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("port", "8000")
	v.SetDefault("base_url", "http://localhost:8080/api/v1")
	v.SetDefault("poll_interval", 5*time.Second)
	v.SetDefault("credential_file", defaultCredentialFile())

	v.SetEnvPrefix("PP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("promptpilot")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func defaultCredentialFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".promptpilot-token"
	}
	return filepath.Join(home, ".promptpilot", "token")
}
