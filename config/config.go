package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del tracker.
type Config struct {
	Tracker       TrackerConfig        `yaml:"tracker"`
	Source        SourceConfig         `yaml:"source"`
	Storage       StorageConfig        `yaml:"storage"`
	Notifications NotificationsConfig  `yaml:"notifications"`
	Subscriptions []SubscriptionConfig `yaml:"subscriptions"`
	Log           LogConfig            `yaml:"log"`
}

// TrackerConfig controla el análisis diario.
type TrackerConfig struct {
	IntervalHours  int     `yaml:"interval_hours"`    // cadencia del loop (la tabla fuente se publica a diario)
	TopN           int     `yaml:"top_n"`             // tamaño de los rankings por categoría
	StrongLeadTopK int     `yaml:"strong_lead_top_k"` // umbral de rank para calificar como strong lead
	MomentumMinPct float64 `yaml:"momentum_min_pct"`  // |%| mínimo del porcentaje primario
}

// SourceConfig apunta a la tabla de commodities a parsear.
type SourceConfig struct {
	URL string `yaml:"url"`
}

// StorageConfig controla dónde se persiste el histórico.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// NotificationsConfig controla el envío de alertas.
type NotificationsConfig struct {
	Enabled bool       `yaml:"enabled"`
	SMTP    SMTPConfig `yaml:"smtp"`
}

// SMTPConfig son las credenciales del servidor de salida (email y gateway SMS).
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Sender   string `yaml:"sender"`
	Password string `yaml:"password"` // mejor vía SMTP_PASSWORD en .env
}

// SubscriptionConfig es una suscripción de alertas para un commodity.
type SubscriptionConfig struct {
	Name             string  `yaml:"name"`
	Email            string  `yaml:"email"`
	SMS              string  `yaml:"sms"` // formato número@gateway (p.ej. 5551234567@vtext.com)
	MinPercentChange float64 `yaml:"min_percent_change"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// Interval devuelve la cadencia del loop como time.Duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Tracker.IntervalHours) * time.Hour
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("SMTP_SENDER"); v != "" {
		cfg.Notifications.SMTP.Sender = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.Notifications.SMTP.Password = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Tracker.IntervalHours <= 0 {
		cfg.Tracker.IntervalHours = 24
	}
	if cfg.Tracker.TopN <= 0 {
		cfg.Tracker.TopN = 5
	}
	if cfg.Tracker.StrongLeadTopK <= 0 {
		cfg.Tracker.StrongLeadTopK = 3
	}
	if cfg.Tracker.MomentumMinPct <= 0 {
		cfg.Tracker.MomentumMinPct = 1.0
	}
	if cfg.Source.URL == "" {
		cfg.Source.URL = "https://tradingeconomics.com/commodities"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "comexbot.db"
	}
	if cfg.Notifications.SMTP.Port == 0 {
		cfg.Notifications.SMTP.Port = 587
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	for i := range cfg.Subscriptions {
		if cfg.Subscriptions[i].MinPercentChange <= 0 {
			cfg.Subscriptions[i].MinPercentChange = 1.0
		}
	}
}
