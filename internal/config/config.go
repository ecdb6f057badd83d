package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env       string          `yaml:"env" env:"ENV" env-default:"local"`
	Jaeger    string          `yaml:"jaeger" env:"JAEGER"`
	Log       LogConfig       `yaml:"log"`
	Notion    NotionConfig    `yaml:"notion"`
	Databases DatabasesConfig `yaml:"databases"`
	Sync      SyncConfig      `yaml:"sync"`
	Snapshots SnapshotsConfig `yaml:"snapshots"`
	Redis     RedisConfig     `yaml:"redis"`
	DB        DBConfig        `yaml:"db"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	File  string `yaml:"file" env:"LOG_FILE"`
}

type NotionConfig struct {
	BaseURL string        `yaml:"base_url" env:"NOTION_BASE_URL" env-default:"https://api.notion.com/v1"`
	Token   string        `yaml:"token" env:"NOTION_API_SECRET"`
	Version string        `yaml:"version" env:"NOTION_VERSION" env-default:"2022-06-28"`
	Timeout time.Duration `yaml:"timeout" env:"NOTION_TIMEOUT" env-default:"30s"`
}

type DatabasesConfig struct {
	Clubs            string `yaml:"clubs" env:"NOTION_CLUBS_DB"`
	ClubAliases      string `yaml:"club_aliases" env:"NOTION_CLUB_ALIASES_DB"`
	ManagerSanctions string `yaml:"manager_sanctions" env:"NOTION_MANAGER_SANCTIONS_DB"`
	AdeptSanctions   string `yaml:"adept_sanctions" env:"NOTION_ADEPT_SANCTIONS_DB"`
}

type SyncConfig struct {
	Delay time.Duration `yaml:"delay" env:"SYNC_DELAY" env-default:"1s"`
}

type SnapshotsConfig struct {
	Dir              string `yaml:"dir" env:"SNAPSHOTS_DIR" env-default:"."`
	RawClubs         string `yaml:"raw_clubs" env-default:"clubs_raw.json"`
	Clubs            string `yaml:"clubs" env-default:"clubs_db.json"`
	ClubAliases      string `yaml:"club_aliases" env-default:"club_aliases_db.json"`
	AliasList        string `yaml:"alias_list" env-default:"clubs_alias_db.txt"`
	AliasNames       string `yaml:"alias_names" env-default:"clubs_alias_db.json"`
	ManagerSanctions string `yaml:"manager_sanctions" env-default:"sanctions_managers_db.json"`
	AdeptSanctions   string `yaml:"adept_sanctions" env-default:"sanctions_adepts_db.json"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	TTL      time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"60s"`
}

type DBConfig struct {
	DSN      string `yaml:"dsn" env:"DB_DSN"`
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" env:"DB_PORT"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Name     string `yaml:"name" env:"DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"require"`
}

// DatabaseURL returns an empty string when neither a DSN nor a host is set.
func (c DBConfig) DatabaseURL() string {
	if c.DSN != "" {
		return c.DSN
	}
	if c.Host == "" {
		return ""
	}

	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}

	q := u.Query()
	q.Set("sslmode", sslMode)
	u.RawQuery = q.Encode()

	return u.String()
}

func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exists: %s", configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read the config: %w", err)
	}

	return &cfg, nil
}

// ResolvePath picks the --config flag, then CONFIG_PATH, then config/local.yaml.
func ResolvePath(flagPath string) string {
	res := flagPath
	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}
	if res == "" {
		res = "config/local.yaml"
	}

	return res
}
