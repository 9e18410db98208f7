package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
	} `yaml:"email"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // минуты
	} `yaml:"jwt"`

	Payments PaymentsConfig `yaml:"payments"`

	OTP struct {
		TTL         int `yaml:"ttl"`          // секунды
		MaxAttempts int `yaml:"max_attempts"` // попыток на один код
	} `yaml:"otp"`
}

// PaymentsConfig держит все платежные константы в одном месте.
// Разбросанные по коду литералы сумм — источник расхождений между
// orders и verify, поэтому суммы тарифов и цены premium живут здесь.
type PaymentsConfig struct {
	GatewayKeyID  string `yaml:"gateway_key_id"`
	GatewaySecret string `yaml:"gateway_secret"`
	WebhookSecret string `yaml:"webhook_secret"`
	GatewayURL    string `yaml:"gateway_url"`
	Currency      string `yaml:"currency"`

	// Покрытие такси на партнера (в основных единицах валюты)
	CabMaxCoverage float64 `yaml:"cab_max_coverage"`

	// Цены premium доступа
	PremiumPricePhone    float64 `yaml:"premium_price_phone"`
	PremiumPriceLinkedin float64 `yaml:"premium_price_linkedin"`
}

// MeetingTier описывает распределение суммы встречи между инициатором и партнером
type MeetingTier struct {
	Total         float64
	PartnerAmount float64
}

// MeetingTiers возвращает допустимые тарифы встреч.
// Ключ — сумма которую платит инициатор.
func (p PaymentsConfig) MeetingTiers() map[float64]MeetingTier {
	return map[float64]MeetingTier{
		1000: {Total: 1000, PartnerAmount: 0},
		650:  {Total: 1000, PartnerAmount: 350},
		500:  {Total: 1000, PartnerAmount: 500},
	}
}

var AppConfig *Config

func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")
	serverEnv := os.Getenv("SERVER_ENV")
	portStr := os.Getenv("SERVER_PORT")
	jwtSecret := os.Getenv("JWT_SECRET")

	if dbURL == "" {
		log.Println("Загрузка из config.yaml (режим НЕ-тест)")

		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyEnvOverrides(&cfg)
		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	log.Println("✅ Загрузка конфигурации из ПЕРЕМЕННЫХ ОКРУЖЕНИЯ (режим теста)")

	cfg.Database.DSN = dbURL
	cfg.Server.Env = serverEnv
	cfg.Server.Port, _ = strconv.Atoi(portStr)
	cfg.JWT.Secret = jwtSecret
	cfg.JWT.TTL = 60

	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")

	cfg.Email.SMTPHost = "smtp.test.com"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "test@corpmatch.com"

	cfg.Payments.GatewayKeyID = os.Getenv("PAYMENT_KEY_ID")
	cfg.Payments.GatewaySecret = os.Getenv("PAYMENT_KEY_SECRET")
	cfg.Payments.WebhookSecret = os.Getenv("PAYMENT_WEBHOOK_SECRET")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

// applyEnvOverrides: секреты никогда не живут в yaml в production,
// env всегда важнее файла
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("PAYMENT_KEY_ID"); v != "" {
		cfg.Payments.GatewayKeyID = v
	}
	if v := os.Getenv("PAYMENT_KEY_SECRET"); v != "" {
		cfg.Payments.GatewaySecret = v
	}
	if v := os.Getenv("PAYMENT_WEBHOOK_SECRET"); v != "" {
		cfg.Payments.WebhookSecret = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Payments.Currency == "" {
		cfg.Payments.Currency = "INR"
	}
	if cfg.Payments.GatewayURL == "" {
		cfg.Payments.GatewayURL = "https://api.razorpay.com/v1"
	}
	if cfg.Payments.CabMaxCoverage == 0 {
		cfg.Payments.CabMaxCoverage = 350
	}
	if cfg.Payments.PremiumPricePhone == 0 {
		cfg.Payments.PremiumPricePhone = 10
	}
	if cfg.Payments.PremiumPriceLinkedin == 0 {
		cfg.Payments.PremiumPriceLinkedin = 5
	}
	if cfg.OTP.TTL == 0 {
		cfg.OTP.TTL = 300
	}
	if cfg.OTP.MaxAttempts == 0 {
		cfg.OTP.MaxAttempts = 3
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 60
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
