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
	InMemory   bool          `koanf:"in_memory"`
	GCInterval time.Duration `koanf:"gc_interval"`
}

type gitAuthorConfig struct {
	Name  string `koanf:"name"`
	Email string `koanf:"email"`
}

type gitConfig struct {
	Timeout       time.Duration   `koanf:"timeout"`
	Binary        string          `koanf:"binary"`
	WorkspaceDir  string          `koanf:"workspace_dir"`
	DefaultBranch string          `koanf:"default_branch"`
	LegacyBranch  string          `koanf:"legacy_branch"`
	RemoteName    string          `koanf:"remote_name"`
	RemoteHost    string          `koanf:"remote_host"`
	Author        gitAuthorConfig `koanf:"author"`
}

type githubConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

type templatesConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

type credentialsConfig struct {
	File string `koanf:"file"`
}

type historyConfig struct {
	Retention    time.Duration `koanf:"retention"`
	DefaultLimit int           `koanf:"default_limit"`
}

type Config struct {
	HTTP http `koanf:"http"`

	Storage     storageConfig     `koanf:"storage"`
	Git         gitConfig         `koanf:"git"`
	GitHub      githubConfig      `koanf:"github"`
	Templates   templatesConfig   `koanf:"templates"`
	Credentials credentialsConfig `koanf:"credentials"`
	History     historyConfig     `koanf:"history"`
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
			Timeout:       30 * time.Second,
			Binary:        "git",
			WorkspaceDir:  "./repos",
			DefaultBranch: "main",
			LegacyBranch:  "master",
			RemoteName:    "origin",
			RemoteHost:    "github.com",
			Author: gitAuthorConfig{
				Name:  "gitpilot",
				Email: "gitpilot@localhost",
			},
		},

		GitHub: githubConfig{
			Timeout: 30 * time.Second,
		},

		Templates: templatesConfig{
			BaseURL: "https://raw.githubusercontent.com/github/gitignore/main",
			Timeout: 10 * time.Second,
		},

		Credentials: credentialsConfig{
			File: ".env",
		},

		History: historyConfig{
			Retention:    30 * 24 * time.Hour,
			DefaultLimit: 50,
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
