package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName          string `mapstructure:"app_name"`
		Env              string `mapstructure:"-"`
		Build            string `mapstructure:"build"`
		Debug            bool   `mapstructure:"debug"`
		TestMode         bool   `mapstructure:"test_mode"`
		SecretKey        string `mapstructure:"secret_key"`
		RollbarToken     string `mapstructure:"rollbar_token"`
		DefaultFromEmail string `mapstructure:"default_from_email"`
		SendgridAPIKey   string `mapstructure:"sendgrid_api_key"`

		Server   ServerConfig   `mapstructure:"server"`
		Session  SessionConfig  `mapstructure:"session"`
		Identity IdentityConfig `mapstructure:"identity"`

		// Routes overrides the route policy table: route -> allowed roles (empty = any authenticated).
		Routes map[string][]string `mapstructure:"routes"`
	}

	ServerConfig struct {
		Address         string        `mapstructure:"address"`
		Host            string        `mapstructure:"host"`
		DebugHost       string        `mapstructure:"debug_host"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
		DisableReqLogs  bool          `mapstructure:"disable_req_logs"`
	}

	SessionConfig struct {
		// Backend is one of memory, sqlite, postgres, redis.
		Backend      string        `mapstructure:"backend"`
		KeyPrefix    string        `mapstructure:"key_prefix"`
		DatabaseURL  string        `mapstructure:"database_url"`
		RedisURL     string        `mapstructure:"redis_url"`
		TTL          time.Duration `mapstructure:"ttl"`
		CookieName   string        `mapstructure:"cookie_name"`
		CookieMaxAge time.Duration `mapstructure:"cookie_max_age"`
		LoginLatency time.Duration `mapstructure:"login_latency"`
	}

	IdentityConfig struct {
		// Provider is one of static, remote.
		Provider string        `mapstructure:"provider"`
		URL      string        `mapstructure:"url"`
		Timeout  time.Duration `mapstructure:"timeout"`
	}
)

// IdleTimeout is how long a server keeps an unused session in memory:
// the shorter of the cookie lifetime and the slot TTL.
func (c SessionConfig) IdleTimeout() time.Duration {
	idle := c.CookieMaxAge
	if c.TTL > 0 && (idle <= 0 || c.TTL < idle) {
		idle = c.TTL
	}
	return idle
}

// NewConfig loads the configuration from defaults, the optional config/.env.<env> file and the environment.
// Environment variables are prefixed with the current env, eg. DEV_SESSION_BACKEND=redis.
func NewConfig() *Config {
	v := viper.New()

	v.SetTypeByDefaultValue(true)
	v.SetDefault("app_name", "Koperasi")
	v.SetDefault("build", "develop")
	v.SetDefault("debug", true)
	v.SetDefault("test_mode", false)
	v.SetDefault("secret_key", "k0p3r4si-d3v-s3cr3t-(change-me)")
	v.SetDefault("rollbar_token", "")
	v.SetDefault("default_from_email", "noreply@localhost")
	v.SetDefault("sendgrid_api_key", "")

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.debug_host", ":4000")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.disable_req_logs", false)

	v.SetDefault("session.backend", "sqlite")
	v.SetDefault("session.key_prefix", "user")
	v.SetDefault("session.database_url", "koperasi.db")
	v.SetDefault("session.redis_url", "redis://localhost:6379/0")
	v.SetDefault("session.ttl", 7*24*time.Hour)
	v.SetDefault("session.cookie_name", "koperasi_session")
	v.SetDefault("session.cookie_max_age", 7*24*time.Hour)
	v.SetDefault("session.login_latency", 800*time.Millisecond)

	v.SetDefault("identity.provider", "static")
	v.SetDefault("identity.url", "")
	v.SetDefault("identity.timeout", 10*time.Second)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("test_mode", true)
		v.SetDefault("session.backend", "memory")
		v.SetDefault("session.login_latency", time.Duration(0))
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		log.Fatalf("config.Unmarshal: %v", err)
	}
	conf.Env = env
	return conf
}
