package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-core-fx/config"
)

type http struct {
	Address     string   `koanf:"address"`
	ProxyHeader string   `koanf:"proxy_header"`
	Proxies     []string `koanf:"proxies"`

	OpenAPI openAPIConfig `koanf:"openapi"`
}

type openAPIConfig struct {
	Enabled    bool   `koanf:"enabled"`
	PublicHost string `koanf:"public_host"`
	PublicPath string `koanf:"public_path"`
}

type storageConfig struct {
	DataDir    string        `koanf:"data_dir"`
	GCInterval time.Duration `koanf:"gc_interval"`
}

type gitAuthConfig struct {
	HTTPS gitHTTPSAuthConfig `koanf:"https"`
}

type gitHTTPSAuthConfig struct {
	DefaultToken    string `koanf:"default_token"`
	DefaultUsername string `koanf:"default_username"`
}

type gitConfig struct {
	WorkDir string        `koanf:"work_dir"`
	Auth    gitAuthConfig `koanf:"auth"`
}

type taskTimeoutsConfig struct {
	Clone        time.Duration `koanf:"clone"`
	Update       time.Duration `koanf:"update"`
	Reset        time.Duration `koanf:"reset"`
	SwitchBranch time.Duration `koanf:"switch_branch"`
	ComputeStats time.Duration `koanf:"compute_stats"`
}

type tasksConfig struct {
	Workers  int                `koanf:"workers"`
	Timeouts taskTimeoutsConfig `koanf:"timeouts"`
}

type statsConfig struct {
	MaxConcurrent  int           `koanf:"max_concurrent"`
	ComputeTimeout time.Duration `koanf:"compute_timeout"`
}

type Config struct {
	HTTP http `koanf:"http"`

	Storage storageConfig `koanf:"storage"`
	Git     gitConfig     `koanf:"git"`
	Tasks   tasksConfig   `koanf:"tasks"`
	Stats   statsConfig   `koanf:"stats"`
}

func Default() Config {
	//nolint:exhaustruct,mnd //default values
	return Config{
		HTTP: http{
			Address:     "127.0.0.1:3000",
			ProxyHeader: "X-Forwarded-For",
			Proxies:     []string{},

			OpenAPI: openAPIConfig{
				Enabled: true,
			},
		},

		Storage: storageConfig{
			DataDir:    "./data",
			GCInterval: 10 * time.Minute,
		},

		Git: gitConfig{
			WorkDir: "./repos",
		},

		Tasks: tasksConfig{
			Workers: 4,
			Timeouts: taskTimeoutsConfig{
				Clone:        10 * time.Minute,
				Update:       5 * time.Minute,
				Reset:        10 * time.Minute,
				SwitchBranch: 2 * time.Minute,
				ComputeStats: 30 * time.Minute,
			},
		},

		Stats: statsConfig{
			MaxConcurrent:  2,
			ComputeTimeout: 30 * time.Minute,
		},
	}
}

func New() (Config, error) {
	cfg := Default()

	options := []config.Option{}
	if yamlPath := os.Getenv("CONFIG_PATH"); yamlPath != "" {
		options = append(options, config.WithLocalYAML(yamlPath))
	}

	if err := config.Load(&cfg, options...); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}
