package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var (
	cfg  *Config
	once sync.Once
	mu   sync.RWMutex
)

// Config represents the application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Email    EmailConfig    `mapstructure:"email"`
	Checker  CheckerConfig  `mapstructure:"checker"`
	Report   ReportConfig   `mapstructure:"report"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	Timezone string `mapstructure:"timezone"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORS            CORSConfig    `mapstructure:"cors"`
}

type CORSConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Origins []string `mapstructure:"origins"`
	Methods []string `mapstructure:"methods"`
	Headers []string `mapstructure:"headers"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout"`
}

type EmailConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	From    string `mapstructure:"from"`
	SMTP    struct {
		Host       string `mapstructure:"host"`
		Port       int    `mapstructure:"port"`
		User       string `mapstructure:"user"`
		Password   string `mapstructure:"password"`
		AuthType   string `mapstructure:"auth_type"`
		TLSMode    string `mapstructure:"tls_mode"`
		SkipVerify bool   `mapstructure:"skip_verify"`
	} `mapstructure:"smtp"`
}

type CheckerConfig struct {
	Schedule      string        `mapstructure:"schedule"`
	Window        time.Duration `mapstructure:"window"`
	DetectionRate float64       `mapstructure:"detection_rate"`
	JobTimeout    time.Duration `mapstructure:"job_timeout"`
	RunOnStartup  bool          `mapstructure:"run_on_startup"`
	SenderAddress string        `mapstructure:"sender_address"`
}

type ReportConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	TemplateDir string `mapstructure:"template_dir"`
}

// Load initializes the configuration with hot reload support. A missing
// config file is not fatal; defaults plus environment overrides apply.
func Load(configPath string) error {
	var err error
	once.Do(func() {
		v := viper.New()
		v.SetConfigType("yaml")
		v.SetConfigName("default")
		v.AddConfigPath(configPath)

		setDefaults(v)

		if readErr := v.ReadInConfig(); readErr != nil {
			if _, ok := readErr.(viper.ConfigFileNotFoundError); !ok {
				err = fmt.Errorf("failed to read config: %w", readErr)
				return
			}
		}

		// Environment variable overrides
		v.SetEnvPrefix("DELIV")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		cfg = &Config{}
		if err = v.Unmarshal(cfg); err != nil {
			err = fmt.Errorf("failed to unmarshal config: %w", err)
			return
		}

		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			newCfg := &Config{}
			if reloadErr := v.Unmarshal(newCfg); reloadErr != nil {
				fmt.Printf("Failed to reload config: %v\n", reloadErr)
				return
			}
			mu.Lock()
			cfg = newCfg
			mu.Unlock()
			fmt.Printf("Configuration reloaded from %s\n", e.Name)
		})
	})

	return err
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "deliverability-tester")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.timezone", "UTC")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors.enabled", true)
	v.SetDefault("server.cors.origins", []string{"*"})
	v.SetDefault("server.cors.methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("server.cors.headers", []string{"authorization", "x-client-info", "apikey", "content-type"})

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "deliverability")
	v.SetDefault("database.user", "deliverability")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.query_timeout", 10*time.Second)

	v.SetDefault("email.enabled", false)
	v.SetDefault("email.from", "Deliverability Report <noreply@localhost>")
	v.SetDefault("email.smtp.port", 25)

	v.SetDefault("checker.schedule", "* * * * *")
	v.SetDefault("checker.window", 5*time.Minute)
	v.SetDefault("checker.detection_rate", 0.7)
	v.SetDefault("checker.job_timeout", 30*time.Second)
	v.SetDefault("checker.run_on_startup", false)
	v.SetDefault("checker.sender_address", "test@example.com")

	v.SetDefault("report.base_url", "http://localhost:8080")
	v.SetDefault("report.template_dir", "templates")
}

// Get returns the current configuration (thread-safe)
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// GetDSN returns the connection string for the configured driver.
func (c *DatabaseConfig) GetDSN() string {
	switch strings.ToLower(c.Driver) {
	case "mysql", "mariadb":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
			c.User, c.Password, c.Host, c.Port, c.Name)
	case "sqlite", "sqlite3":
		if c.Path != "" {
			return c.Path
		}
		return c.Name + ".db"
	default:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
	}
}

// GetServerAddr returns the server listen address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// EffectiveTLSMode normalizes the configured SMTP TLS mode.
func (c *EmailConfig) EffectiveTLSMode() string {
	mode := strings.ToLower(strings.TrimSpace(c.SMTP.TLSMode))
	switch mode {
	case "smtps", "starttls", "none":
		return mode
	default:
		if c.SMTP.Port == 465 {
			return "smtps"
		}
		return "none"
	}
}
