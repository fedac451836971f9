package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Redis   RedisConfig
	Storage StorageConfig
	Remito  RemitoConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
	TimeZone string // zona usada para "hoy" en los tableros (America/Argentina/Buenos_Aires)
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo (ej. DATABASE_URL de Supabase).
// Driver "memory" levanta el almacenamiento en memoria (demo y pruebas manuales).
type DBConfig struct {
	Driver      string // postgres | memory
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string

	// Pool. Cero deja el default de pgx.
	MaxConns          int
	MinConns          int
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	ConnectTimeout    time.Duration
	// ForceIPv4 conecta solo por tcp4 (contenedores sin IPv6).
	ForceIPv4 bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	SwaggerPath string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig conexión a Redis. Addr vacío desactiva caché compartida y cola de trabajos.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL int // segundos que vive una instantánea de colección
}

// Enabled informa si hay Redis configurado.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// StorageConfig almacenamiento de archivos (fotos, firmas, remitos).
type StorageConfig struct {
	Driver        string // supabase | local
	SupabaseURL   string
	SupabaseKey   string
	Bucket        string
	LocalDir      string
	PublicBaseURL string // prefijo público para el driver local
	MaxImageWidth int    // px; las fotos más anchas se reducen
}

// RemitoConfig numeración y plantilla de remitos.
type RemitoConfig struct {
	TemplatePath string // imagen de fondo (PNG/JPG) opcional
	AutoGenerate bool   // encola la generación al completar una orden
	MaxDescLines int
	Concurrency  int // workers del proceso cmd/worker
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, REDIS_ADDR, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "ascensores-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
			TimeZone: getString(v, "APP_TIMEZONE", "America/Argentina/Buenos_Aires"),
		},
		DB: DBConfig{
			Driver:      getString(v, "DB_DRIVER", "postgres"),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "ascensores"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),

			MinConns:          getInt(v, "DB_MIN_CONNS", 2),
			MaxConnLifetime:   getDuration(v, "DB_MAX_CONN_LIFETIME", time.Hour),
			MaxConnIdleTime:   getDuration(v, "DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
			HealthCheckPeriod: getDuration(v, "DB_HEALTH_CHECK_PERIOD", time.Minute),
			ConnectTimeout:    getDuration(v, "DB_CONNECT_TIMEOUT", 10*time.Second),
			ForceIPv4:         getBool(v, "DB_FORCE_IPV4", false),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 720),
			Issuer:     getString(v, "JWT_ISSUER", "ascensores-api"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			SwaggerPath: getString(v, "HTTP_SWAGGER_FILE", "./docs/swagger.json"),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
			CacheTTL: getInt(v, "REDIS_CACHE_TTL_SECONDS", 30),
		},
		Storage: StorageConfig{
			Driver:        getString(v, "STORAGE_DRIVER", "local"),
			SupabaseURL:   getString(v, "SUPABASE_URL", ""),
			SupabaseKey:   getString(v, "SUPABASE_SERVICE_KEY", ""),
			Bucket:        getString(v, "STORAGE_BUCKET", "work-orders"),
			LocalDir:      getString(v, "STORAGE_LOCAL_DIR", "./data/uploads"),
			PublicBaseURL: getString(v, "STORAGE_PUBLIC_BASE_URL", "http://localhost:8080/files"),
			MaxImageWidth: getInt(v, "STORAGE_MAX_IMAGE_WIDTH", 1600),
		},
		Remito: RemitoConfig{
			TemplatePath: getString(v, "REMITO_TEMPLATE_PATH", ""),
			AutoGenerate: getBool(v, "REMITO_AUTO_GENERATE", false),
			MaxDescLines: getInt(v, "REMITO_MAX_DESCRIPTION_LINES", 6),
			Concurrency:  getInt(v, "REMITO_WORKER_CONCURRENCY", 4),
		},
	}

	if cfg.JWT.Secret == "" && cfg.App.Env == "production" {
		return nil, fmt.Errorf("config: JWT_SECRET es obligatorio en producción")
	}
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "dev-secret-change-me"
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

// getDuration acepta "90s", "30m", "1h".
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(v.GetString(key)))
	if err != nil || d < 0 {
		return def
	}
	return d
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
