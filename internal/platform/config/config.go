package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	GatewayPostgREST = "postgrest"
	GatewayPostgres  = "postgres"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	API          APIConfig          `yaml:"api"`
	Gateway      string             `yaml:"gateway"`
	Database     DatabaseConfig     `yaml:"database"`
	Provisioning ProvisioningConfig `yaml:"provisioning"`
	Log          LogConfig          `yaml:"log"`
}

// ServerConfig は gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// APIConfig は REST API (PostgREST) への接続設定です。
type APIConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"-"`
	TimeoutRaw string        `yaml:"timeout"`
}

// ProvisioningConfig は社員レコードの自動オンボーディングに関する設定です。
type ProvisioningConfig struct {
	Cooldown        time.Duration `yaml:"-"`
	PollInterval    time.Duration `yaml:"-"`
	WaitCeiling     time.Duration `yaml:"-"`
	MaxRetries      int           `yaml:"max_retries"`
	CooldownRaw     string        `yaml:"cooldown"`
	PollIntervalRaw string        `yaml:"poll_interval"`
	WaitCeilingRaw  string        `yaml:"wait_ceiling"`
}

// LogConfig はロガーの設定です。
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
}

// Load は指定されたパスから設定ファイルを読み込みます。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// EffectivePath はフラグ、CONFIG_PATH 環境変数、既定値の順に設定ファイルのパスを決定します。
func EffectivePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	if c.Gateway == "" {
		c.Gateway = GatewayPostgREST
	}

	switch c.Gateway {
	case GatewayPostgREST:
		if err := c.API.validateAndNormalize(); err != nil {
			return err
		}
		if c.Database.Configured() {
			if err := c.Database.validateAndNormalize(); err != nil {
				return err
			}
		}
	case GatewayPostgres:
		if err := c.Database.validateAndNormalize(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("config: gateway must be %q or %q, got %q", GatewayPostgREST, GatewayPostgres, c.Gateway)
	}

	if err := c.Provisioning.validateAndNormalize(); err != nil {
		return err
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	return nil
}

func (a *APIConfig) validateAndNormalize() error {
	if a.BaseURL == "" {
		return fmt.Errorf("config: api.base_url must be set")
	}
	u, err := url.Parse(a.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: api.base_url must be an absolute URL")
	}
	a.BaseURL = strings.TrimRight(a.BaseURL, "/")

	timeout, err := parseDurationAllowEmpty(a.TimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: api.timeout: %w", err)
	}
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	a.Timeout = timeout

	return nil
}

func (p *ProvisioningConfig) validateAndNormalize() error {
	cooldown, err := parseDurationAllowEmpty(p.CooldownRaw)
	if err != nil {
		return fmt.Errorf("config: provisioning.cooldown: %w", err)
	}
	p.Cooldown = cooldown

	poll, err := parseDurationAllowEmpty(p.PollIntervalRaw)
	if err != nil {
		return fmt.Errorf("config: provisioning.poll_interval: %w", err)
	}
	p.PollInterval = poll

	ceiling, err := parseDurationAllowEmpty(p.WaitCeilingRaw)
	if err != nil {
		return fmt.Errorf("config: provisioning.wait_ceiling: %w", err)
	}
	p.WaitCeiling = ceiling

	if p.MaxRetries < 0 {
		return fmt.Errorf("config: provisioning.max_retries must not be negative")
	}

	return nil
}

// Configured は database セクションが記述されているかを返します。
func (d DatabaseConfig) Configured() bool {
	return d.Host != "" || d.Name != ""
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}
