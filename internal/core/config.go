package core

import (
	"strings"

	"github.com/gookit/config/v2"
	"github.com/gookit/config/v2/yaml"
)

type Log struct {
	Level  string `config:"level"`
	Format string `config:"format"`
}

type Auth struct {
	JwksURL string `config:"jwks_url"`
}

type Client struct {
	URL   string `config:"url"`
	Token string `config:"token"`
}

type Config struct {
	Addr     string `config:"addr"`
	Database string `config:"database"`
	Log      Log    `config:"log"`
	Auth     Auth   `config:"auth"`
	Client   Client `config:"client"`
}

func DefaultConfig() *Config {
	return &Config{
		Addr:     ":3333",
		Database: "todos.db",
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		Client: Client{
			URL: "http://localhost:3333",
		},
	}
}

// NewConfig loads path and, when present, the sibling ".local.yml" override.
// Values may reference environment variables (${TODOS_ADDR}). An empty path
// yields the defaults.
func NewConfig(path string) (*Config, error) {
	appConfig := DefaultConfig()

	if path == "" {
		return appConfig, nil
	}

	c := config.NewWithOptions("todos", config.ParseEnv, func(opt *config.Options) {
		opt.DecoderConfig.TagName = "config"
	})

	c.AddDriver(yaml.Driver)

	if err := c.LoadFiles(path); err != nil {
		return nil, err
	}

	if err := c.LoadExists(localPath(path)); err != nil {
		return nil, err
	}

	if err := c.BindStruct("", appConfig); err != nil {
		return nil, err
	}

	return appConfig, nil
}

func localPath(path string) string {
	for _, ext := range []string{".yml", ".yaml"} {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext) + ".local" + ext
		}
	}

	return path + ".local"
}
