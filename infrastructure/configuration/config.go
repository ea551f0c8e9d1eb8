package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"nxt-watch/infrastructure/logger"

	"github.com/spf13/viper"
)

const (
	DefaultPort           = 10001
	DefaultAPIBaseURL     = "https://apis.ccbp.in"
	DefaultAPITimeoutSecs = 10
	DefaultCookieName     = "jwt_token"
	DefaultCookieMaxAge   = 30
)

type Config struct {
	App         App         `json:"app"`
	API         API         `json:"api"`
	Session     Session     `json:"session"`
	State       State       `json:"state"`
	RedisClient RedisClient `json:"redisClient"`
	Logger      Logger      `json:"logger"`
	Cors        Cors        `json:"cors"`
}

type App struct {
	Port        int    `json:"port"`
	TLSEnabled  bool   `json:"tlsEnabled"`
	TLSCertFile string `json:"tlsCertFile"`
	TLSKeyFile  string `json:"tlsKeyFile"`
}

// API is the remote video API
type API struct {
	BaseURL        string `json:"baseUrl"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

type Session struct {
	CookieName    string `json:"cookieName"`
	MaxAgeDays    int    `json:"maxAgeDays"`
	Secure        bool   `json:"secure"`
	LoginRate     int    `json:"loginRate"`  // login attempts per minute per client
	ScreenIdleMin int    `json:"screenIdleMin"`
}

// State selects where per-session state lives: "memory" or "redis"
type State struct {
	Backend string `json:"backend"`
	TTLDays int    `json:"ttlDays"`
}

type RedisClient struct {
	URL      string `json:"url"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	Username string `json:"username"`
	DB       int    `json:"db"`
}

type Logger struct {
	Format string `json:"format"`
	Level  string `json:"level"`
}

type Cors struct {
	AllowOrigins []string `json:"allowOrigins"`
}

var C Config

// EnvFiles lists the env files applied when C was last built
var EnvFiles []string

func init() {
	Load("config.env", ".env")
}

// Load applies envFiles to the process environment, then rebuilds C.
// Variables already set in the environment keep precedence over the files.
func Load(envFiles ...string) {
	EnvFiles = LoadEnvFromFile(envFiles...)
	C = Config{}
	LoadConfig()
	initApp(&C)
	initAPI(&C)
	initSession(&C)
	initState(&C)
	logger.Configure(C.Logger.Format, C.Logger.Level)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found, using defaults")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initApp(C *Config) {
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = DefaultPort
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		C.App.TLSEnabled = parseBool(v, C.App.TLSEnabled)
	}
	if C.App.TLSCertFile == "" {
		C.App.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	}
	if C.App.TLSKeyFile == "" {
		C.App.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	}
	if C.App.TLSEnabled {
		logger.GetLogger().WithFields(map[string]interface{}{"cert": C.App.TLSCertFile, "key": C.App.TLSKeyFile}).Info("TLS enabled via configuration")
	}
}

func initAPI(C *Config) {
	C.API.BaseURL = getConfigValue(C.API.BaseURL, "API_BASE_URL", DefaultAPIBaseURL)
	C.API.BaseURL = strings.TrimRight(C.API.BaseURL, "/")
	if v := os.Getenv("API_TIMEOUT_SECONDS"); v != "" {
		if s, err := strconv.Atoi(v); err == nil {
			C.API.TimeoutSeconds = s
		}
	}
	if C.API.TimeoutSeconds <= 0 {
		C.API.TimeoutSeconds = DefaultAPITimeoutSecs
	}
}

func initSession(C *Config) {
	C.Session.CookieName = getConfigValue(C.Session.CookieName, "SESSION_COOKIE_NAME", DefaultCookieName)
	if C.Session.MaxAgeDays <= 0 {
		C.Session.MaxAgeDays = DefaultCookieMaxAge
	}
	if v := os.Getenv("SESSION_COOKIE_SECURE"); v != "" {
		C.Session.Secure = parseBool(v, C.Session.Secure)
	}
	if C.Session.LoginRate <= 0 {
		C.Session.LoginRate = 10
	}
	if C.Session.ScreenIdleMin <= 0 {
		C.Session.ScreenIdleMin = 30
	}
}

func initState(C *Config) {
	C.State.Backend = strings.ToLower(getConfigValue(C.State.Backend, "STATE_BACKEND", "memory"))
	if C.State.TTLDays <= 0 {
		C.State.TTLDays = C.Session.MaxAgeDays
	}
	C.RedisClient.URL = getConfigValue(C.RedisClient.URL, "REDIS_URL", "")
	if C.RedisClient.Host == "" {
		C.RedisClient.Host = getEnv("REDIS_HOST", "localhost")
	}
	if C.RedisClient.Port == "" {
		C.RedisClient.Port = getEnv("REDIS_PORT", "6379")
	}
	if C.RedisClient.Password == "" {
		C.RedisClient.Password = os.Getenv("REDIS_PASSWORD")
	}
}

// RedisAddr returns host:port of the configured redis server
func (r RedisClient) RedisAddr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// getConfigValue gets value from environment first, then config, then default
func getConfigValue(configValue, envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if configValue != "" {
		return configValue
	}
	return defaultValue
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(v string, fallback bool) bool {
	switch v {
	case "1", "true", "TRUE", "True":
		return true
	case "0", "false", "FALSE", "False":
		return false
	}
	return fallback
}
