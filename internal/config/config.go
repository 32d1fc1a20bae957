package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Режимы хранения ссылок и писем.
const (
	ModeDatabase = "database"
	ModeFile     = "file"
	ModeMemory   = "memory"
)

// Config хранит конфигурацию сервера и пакетных команд
type Config struct {
	ServerAddress    string        `json:"server_address"`
	BaseURL          string        `json:"base_url"`
	ShortBaseURL     string        `json:"short_base_url"`
	FileStoragePath  string        `json:"file_storage_path"`
	LettersDir       string        `json:"letters_dir"`
	OutputDir        string        `json:"output_dir"`
	DatabaseDSN      string        `json:"database_dsn"`
	PgMigrationsPath string        `json:"pg_migrations_path"`
	EnableHTTPS      bool          `json:"enable_https"`
	TLSCertPath      string        `json:"tls_cert_path"`
	TLSKeyPath       string        `json:"tls_key_path"`
	Mode             string        `json:"-"`
	PaymentAPIURL    string        `json:"payment_api_url"`
	PaymentTimeout   time.Duration `json:"payment_timeout"`
	PaymentRPS       float64       `json:"payment_rps"`
	ShortIDAlphabet  string        `json:"short_id_alphabet"`
	LinkTTL          time.Duration `json:"link_ttl"`
	LetterMaxAccess  int           `json:"letter_max_access"`
	RedisAddr        string        `json:"redis_addr"`
	RedisPassword    string        `json:"-"`
	AuthSecret       string        `json:"-"`
	RateRPS          float64       `json:"rate_rps"`
	RateBurst        int           `json:"rate_burst"`
	LogFile          string        `json:"log_file"`
	FontDir          string        `json:"font_dir"`
	TemplatesFile    string        `json:"templates_file"`
	FallbackDate     string        `json:"fallback_letter_date"`
	Brevo            BrevoConfig   `json:"-"`
}

// BrevoConfig настройки отправки писем о завершении пакета.
type BrevoConfig struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	UserEmail   string
	UserName    string
}

// FallbackDateLayouts форматы FALLBACK_LETTER_DATE.
var FallbackDateLayouts = []string{"2006-01-02", "02/01/2006", "2 January 2006"}

func setDefaults() {
	viper.SetDefault("SERVER_ADDRESS", "localhost:8080") // Значения по умолчанию
	viper.SetDefault("BASE_URL", "http://localhost:8080")
	viper.SetDefault("SHORT_BASE_URL", "")
	viper.SetDefault("FILE_STORAGE_PATH", "url_mappings.json")
	viper.SetDefault("LETTERS_DIR", "letter_links")
	viper.SetDefault("OUTPUT_DIR", "output_letters")
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("PG_MIGRATIONS_PATH", "internal/migrations")
	viper.SetDefault("ENABLE_HTTPS", false)
	viper.SetDefault("TLS_CERT_PATH", "cert.pem")
	viper.SetDefault("TLS_KEY_PATH", "key.pem")
	viper.SetDefault("PAYMENT_API_URL", "https://api.zwennpay.com:9425/api/v1.0/Common/GetMerchantQR")
	viper.SetDefault("PAYMENT_TIMEOUT", 20*time.Second)
	viper.SetDefault("PAYMENT_RPS", 0)
	viper.SetDefault("SHORT_ID_ALPHABET", "abcdefghijklmnopqrstuvwxyz0123456789")
	viper.SetDefault("LINK_TTL", 30*24*time.Hour)
	viper.SetDefault("LETTER_MAX_ACCESS", 10)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("AUTH_SECRET", "")
	viper.SetDefault("RATE_RPS", 5)
	viper.SetDefault("RATE_BURST", 20)
	viper.SetDefault("LOG_FILE", "")
	viper.SetDefault("FONT_DIR", "")
	viper.SetDefault("TEMPLATES_FILE", "")
	viper.SetDefault("FALLBACK_LETTER_DATE", "")
	viper.SetDefault("DEFAULT_SENDER_EMAIL", "noreply@nic.mu")
	viper.SetDefault("DEFAULT_SENDER_NAME", "NIC Insurance")
}

// Load собирает конфигурацию из значений по умолчанию, .env, JSON-файла
// (CONFIG), переменных окружения и привязанных флагов.
func Load() (*Config, error) {
	setDefaults()
	viper.AutomaticEnv()

	// Читаем .env, если есть (не переопределяет переменные окружения!)
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	_ = viper.ReadInConfig() // Ошибку игнорируем, если файла нет

	if path := viper.GetString("CONFIG"); path != "" {
		viper.SetConfigFile(path)
		viper.SetConfigType("json")
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("не удалось прочитать JSON-файл конфигурации %q: %w", path, err)
		}
	}

	cfg := fromViper()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper() *Config {
	cfg := &Config{
		ServerAddress:    viper.GetString("SERVER_ADDRESS"),
		BaseURL:          strings.TrimRight(viper.GetString("BASE_URL"), "/"),
		ShortBaseURL:     strings.TrimRight(viper.GetString("SHORT_BASE_URL"), "/"),
		FileStoragePath:  viper.GetString("FILE_STORAGE_PATH"),
		LettersDir:       viper.GetString("LETTERS_DIR"),
		OutputDir:        viper.GetString("OUTPUT_DIR"),
		DatabaseDSN:      viper.GetString("DATABASE_DSN"),
		PgMigrationsPath: viper.GetString("PG_MIGRATIONS_PATH"),
		EnableHTTPS:      viper.GetBool("ENABLE_HTTPS"),
		TLSCertPath:      viper.GetString("TLS_CERT_PATH"),
		TLSKeyPath:       viper.GetString("TLS_KEY_PATH"),
		PaymentAPIURL:    viper.GetString("PAYMENT_API_URL"),
		PaymentTimeout:   viper.GetDuration("PAYMENT_TIMEOUT"),
		PaymentRPS:       viper.GetFloat64("PAYMENT_RPS"),
		ShortIDAlphabet:  viper.GetString("SHORT_ID_ALPHABET"),
		LinkTTL:          viper.GetDuration("LINK_TTL"),
		LetterMaxAccess:  viper.GetInt("LETTER_MAX_ACCESS"),
		RedisAddr:        viper.GetString("REDIS_ADDR"),
		RedisPassword:    viper.GetString("REDIS_PASSWORD"),
		AuthSecret:       viper.GetString("AUTH_SECRET"),
		RateRPS:          viper.GetFloat64("RATE_RPS"),
		RateBurst:        viper.GetInt("RATE_BURST"),
		LogFile:          viper.GetString("LOG_FILE"),
		FontDir:          viper.GetString("FONT_DIR"),
		TemplatesFile:    viper.GetString("TEMPLATES_FILE"),
		FallbackDate:     viper.GetString("FALLBACK_LETTER_DATE"),
		Brevo: BrevoConfig{
			APIKey:      viper.GetString("BREVO_API_KEY"),
			SenderEmail: viper.GetString("DEFAULT_SENDER_EMAIL"),
			SenderName:  viper.GetString("DEFAULT_SENDER_NAME"),
			UserEmail:   viper.GetString("USER_EMAIL"),
			UserName:    viper.GetString("USER_NAME"),
		},
	}
	if cfg.ShortBaseURL == "" {
		cfg.ShortBaseURL = cfg.BaseURL
	}
	cfg.Mode = detectMode(cfg)
	return cfg
}

// Определяем режим работы
func detectMode(cfg *Config) string {
	switch {
	case cfg.DatabaseDSN != "":
		return ModeDatabase
	case cfg.FileStoragePath != "":
		return ModeFile
	default:
		return ModeMemory
	}
}

// NewConfig инициализирует конфигурацию сервера на основе аргументов командной строки
func NewConfig() (*Config, error) {
	// Определяем флаги, но НЕ задаем в них значения по умолчанию
	serverAddress := flag.String("a", "", "server address")
	baseURL := flag.String("b", "", "base URL")
	fileStoragePath := flag.String("f", "", "file storage path (JSON file)")
	databaseDSN := flag.String("d", "", "PostgreSQL DSN")
	enableHTTPS := flag.Bool("s", false, "enable HTTPS")
	tlsCertPath := flag.String("cert", "", "path to TLS certificate")
	tlsKeyPath := flag.String("key", "", "path to TLS key")
	configPath := flag.String("c", "", "path to JSON config file")
	flag.StringVar(configPath, "config", "", "path to JSON config file")

	flag.Parse()

	// Флаг имеет приоритет над переменными окружения
	set := func(key, val string) {
		if val != "" {
			viper.Set(key, val)
		}
	}
	set("SERVER_ADDRESS", *serverAddress)
	set("BASE_URL", *baseURL)
	set("FILE_STORAGE_PATH", *fileStoragePath)
	set("DATABASE_DSN", *databaseDSN)
	set("TLS_CERT_PATH", *tlsCertPath)
	set("TLS_KEY_PATH", *tlsKeyPath)
	set("CONFIG", *configPath)
	if *enableHTTPS {
		viper.Set("ENABLE_HTTPS", true)
	}

	return Load()
}

// FallbackLetterDate разбирает FALLBACK_LETTER_DATE. Нулевое время означает,
// что дата не задана.
func (cfg *Config) FallbackLetterDate() (time.Time, error) {
	if cfg.FallbackDate == "" {
		return time.Time{}, nil
	}
	for _, layout := range FallbackDateLayouts {
		if t, err := time.Parse(layout, cfg.FallbackDate); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("некорректная дата FALLBACK_LETTER_DATE %q", cfg.FallbackDate)
}

// Validate проверяет корректность конфигурации
func (cfg *Config) Validate() error {
	var errs []error
	if cfg.ServerAddress == "" {
		errs = append(errs, errors.New("адрес сервера не может быть пустым"))
	}
	if cfg.BaseURL == "" {
		errs = append(errs, errors.New("базовый URL не может быть пустым"))
	} else if u, err := url.Parse(cfg.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("некорректный базовый URL %q", cfg.BaseURL))
	}
	if cfg.PaymentTimeout <= 0 {
		errs = append(errs, errors.New("PAYMENT_TIMEOUT должен быть положительным"))
	}
	if cfg.PaymentRPS < 0 || cfg.RateRPS < 0 {
		errs = append(errs, errors.New("лимиты запросов не могут быть отрицательными"))
	}
	if cfg.LinkTTL <= 0 {
		errs = append(errs, errors.New("LINK_TTL должен быть положительным"))
	}
	if cfg.LetterMaxAccess <= 0 {
		errs = append(errs, errors.New("LETTER_MAX_ACCESS должен быть положительным"))
	}
	if err := validateAlphabet(cfg.ShortIDAlphabet); err != nil {
		errs = append(errs, err)
	}
	if _, err := cfg.FallbackLetterDate(); err != nil {
		errs = append(errs, err)
	}
	if cfg.EnableHTTPS {
		for _, p := range []string{cfg.TLSCertPath, cfg.TLSKeyPath} {
			if _, err := os.Stat(p); err != nil {
				errs = append(errs, fmt.Errorf("TLS файл недоступен: %w", err))
			}
		}
	}
	return errors.Join(errs...)
}

// validateAlphabet допускает только [a-z0-9]: маршрут коротких ссылок других символов не принимает.
func validateAlphabet(alphabet string) error {
	if len(alphabet) < 2 {
		return fmt.Errorf("алфавит идентификаторов слишком короткий: %q", alphabet)
	}
	seen := make(map[rune]struct{}, len(alphabet))
	for _, r := range alphabet {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return fmt.Errorf("алфавит идентификаторов допускает только [a-z0-9], получен %q", r)
		}
		if _, ok := seen[r]; ok {
			return fmt.Errorf("символ %q повторяется в алфавите", r)
		}
		seen[r] = struct{}{}
	}
	return nil
}
