package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env         string            `yaml:"env" env:"ENV" env-default:"local"`
	DSN         string            `yaml:"dsn" env:"DSN" env-required:"true"`
	HTTP        HTTPConfig        `yaml:"http"`
	Token       TokenConfig       `yaml:"token"`
	Session     SessionConfig     `yaml:"session"`
	FileStorage FileStorageConfig `yaml:"file_storage"`
	Supabase    SupabaseConfig    `yaml:"supabase"`
	S3          S3Config          `yaml:"s3"`
	Redis       RedisConf         `yaml:"redis"`
	Media       MediaConfig       `yaml:"media"`
	Blog        BlogConfig        `yaml:"blog"`
	Cache       CacheConfig       `yaml:"cache"`
}

type HTTPConfig struct {
	Host        string        `yaml:"host" env:"HTTP_HOST"`
	Port        string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	CORSOrigins []string      `yaml:"cors_origins" env:"HTTP_CORS_ORIGINS" env-separator:","`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
}

type TokenConfig struct {
	Secret     string        `yaml:"secret" env:"TOKEN_SECRET" env-required:"true"`
	AccessTTL  time.Duration `yaml:"access_ttl" env-default:"15m"`
	RefreshTTL time.Duration `yaml:"refresh_ttl" env-default:"168h"`
}

type SessionConfig struct {
	Secret string `yaml:"secret" env:"SESSION_SECRET" env-required:"true"`
	Secure bool   `yaml:"secure" env:"SESSION_SECURE"`
}

const (
	StorageLocal    = "local"
	StorageSupabase = "supabase"
	StorageS3       = "s3"
)

type FileStorageConfig struct {
	Kind    string `yaml:"kind" env:"FILE_STORAGE_KIND" env-default:"local"`
	BaseDir string `yaml:"base_dir" env-default:"./uploads"`
	BaseURL string `yaml:"base_url" env-default:"/uploads"`
	MaxSize int64  `yaml:"max_size" env-default:"20971520"`
}

type SupabaseConfig struct {
	URL           string `yaml:"url" env:"SUPABASE_URL"`
	ServiceKey    string `yaml:"service_key" env:"SUPABASE_SERVICE_KEY"`
	Bucket        string `yaml:"bucket" env-default:"gallery"`
	CRMFunction   string `yaml:"crm_function" env-default:"sync-lead-to-crm"`
	SheetFunction string `yaml:"sheet_function" env-default:"sync-lead-to-sheet"`
}

type S3Config struct {
	Endpoint      string `yaml:"endpoint" env:"S3_ENDPOINT"`
	AccessKey     string `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey     string `yaml:"secret_key" env:"S3_SECRET_KEY"`
	Bucket        string `yaml:"bucket" env-default:"gallery"`
	UseSSL        bool   `yaml:"use_ssl" env-default:"true"`
	PublicBaseURL string `yaml:"public_base_url"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redispassword" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"REDIS_DB"`
}

type MediaConfig struct {
	MaxDimension int   `yaml:"max_dimension" env-default:"1920"`
	TargetBytes  int64 `yaml:"target_bytes" env-default:"1048576"`
	Quality      int   `yaml:"quality" env-default:"85"`
	MinQuality   int   `yaml:"min_quality" env-default:"45"`
}

type BlogConfig struct {
	FallbackPath   string `yaml:"fallback_path"`
	WordsPerMinute int    `yaml:"words_per_minute" env-default:"200"`
}

type CacheConfig struct {
	TTL time.Duration `yaml:"ttl" env-default:"5m"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	cfg, err := LoadPath(configPath)
	if err != nil {
		panic(err.Error())
	}

	return cfg
}

// LoadPath reads an optional .env next to the working directory, then the
// YAML file, then environment overrides.
func LoadPath(configPath string) (*Config, error) {
	_ = godotenv.Load()

	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, &LoadError{Msg: "config file does not exist: " + configPath}
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, &LoadError{Msg: "cannot read config: " + err.Error()}
	}

	return &cfg, nil
}

type LoadError struct {
	Msg string
}

func (e *LoadError) Error() string { return e.Msg }

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
