package conf

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/kr/pretty"
	"gopkg.in/validator.v2"
	"gopkg.in/yaml.v2"
)

var (
	conf *Config
	once sync.Once
)

type Config struct {
	Env      string
	Hertz    Hertz    `yaml:"hertz"`
	Postgres Postgres `yaml:"postgres"`
	Redis    Redis    `yaml:"redis"`
	Kafka    Kafka    `yaml:"kafka"`
	Registry Registry `yaml:"registry"`
	Oracle   Oracle   `yaml:"oracle"`
	Trading  Trading  `yaml:"trading"`
}

type Postgres struct {
	DSN string `yaml:"dsn" validate:"nonzero"`
}

type Redis struct {
	Address  string `yaml:"address" validate:"nonzero"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Kafka struct {
	Brokers []string          `yaml:"brokers"`
	Topics  map[string]string `yaml:"topics"`
}

type Registry struct {
	Enable          bool     `yaml:"enable"`
	RegistryAddress []string `yaml:"registry_address"`
	ServiceName     string   `yaml:"service_name"`
	ServicePort     int      `yaml:"service_port"`
}

// Oracle configures the external quote API the trading core prices against.
type Oracle struct {
	BaseURL    string `yaml:"base_url" validate:"nonzero"`
	QuotePath  string `yaml:"quote_path"`
	ImportPath string `yaml:"import_path"`
	TimeoutMS  int    `yaml:"timeout_ms"`
	CacheTTLMS int    `yaml:"cache_ttl_ms"`
	RetryCount int    `yaml:"retry_count"`
}

type Trading struct {
	// SeedBalance is credited to every freshly registered wallet.
	SeedBalance string `yaml:"seed_balance"`
	MaxQuantity int64  `yaml:"max_quantity"`
}

type Hertz struct {
	Service         string `yaml:"service"`
	Address         string `yaml:"address"`
	EnablePprof     bool   `yaml:"enable_pprof"`
	EnableGzip      bool   `yaml:"enable_gzip"`
	EnableCORS      bool   `yaml:"enable_cors"`
	EnableAccessLog bool   `yaml:"enable_access_log"`
	LogLevel        string `yaml:"log_level"`
	LogFileName     string `yaml:"log_file_name"`
	LogMaxSize      int    `yaml:"log_max_size"`
	LogMaxBackups   int    `yaml:"log_max_backups"`
	LogMaxAge       int    `yaml:"log_max_age"`
}

// GetConf gets configuration instance
func GetConf() *Config {
	once.Do(initConf)
	return conf
}

func initConf() {
	prefix := "conf"
	confFileRelPath := filepath.Join(prefix, filepath.Join(GetEnv(), "conf.yaml"))
	content, err := os.ReadFile(confFileRelPath)
	if err != nil {
		panic(err)
	}

	conf = new(Config)
	err = yaml.Unmarshal(content, conf)
	if err != nil {
		hlog.Error("parse yaml error - %v", err)
		panic(err)
	}
	if err := validator.Validate(conf); err != nil {
		hlog.Error("validate config error - %v", err)
		panic(err)
	}

	conf.Env = GetEnv()

	pretty.Printf("%+v\n", conf)
}

func GetEnv() string {
	e := os.Getenv("GO_ENV")
	if len(e) == 0 {
		return "test"
	}
	return e
}

func LogLevel() hlog.Level {
	level := GetConf().Hertz.LogLevel
	switch level {
	case "trace":
		return hlog.LevelTrace
	case "debug":
		return hlog.LevelDebug
	case "info":
		return hlog.LevelInfo
	case "notice":
		return hlog.LevelNotice
	case "warn":
		return hlog.LevelWarn
	case "error":
		return hlog.LevelError
	case "fatal":
		return hlog.LevelFatal
	default:
		return hlog.LevelInfo
	}
}
