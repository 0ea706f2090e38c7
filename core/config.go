package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// storage backends
const (
	StorageInMem    = "inmem"
	StoragePostgres = "postgres"
)

type (
	Config struct {
		Env          string
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		RollbarToken string
		Storage      string // inmem | postgres
		WorkDir      string

		API      APIConfig
		Progress ProgressConfig
		Server   ServerConfig
		Database DatabaseConfig
	}

	// APIConfig describes the remote LMS API consumed by the learner client.
	APIConfig struct {
		BaseURL    string
		UploadsURL string
		Timeout    time.Duration
	}

	ProgressConfig struct {
		DebounceDelay time.Duration
	}

	ServerConfig struct {
		Host               string
		Address            string
		SecretKey          string
		DisableReqLogs     bool
		JWTExpirationDelta time.Duration
		ShutdownTimeout    time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}
)

func (db DatabaseConfig) Address() string {
	return net.JoinHostPort(db.Host, strconv.Itoa(db.Port))
}

// NewConfig loads the configuration from defaults, `config/.env.<env>` (if any) and the environment.
// Environment variables are prefixed with the current env, eg. `DEV_API_BASEURL`.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Mini LMS")
	v.SetDefault("build", "dev")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("storage", "inmem")

	v.SetDefault("api.baseURL", "http://localhost:5254")
	v.SetDefault("api.uploadsURL", "")
	v.SetDefault("api.timeout", 30*time.Second)

	v.SetDefault("progress.debounceDelay", time.Second)

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":5254")
	v.SetDefault("server.secretKey", "k2@v#6wz!q9$hx&t1m^d8r+u0y*j3e)n")
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.shutdownTimeout", 10*time.Second)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "minilms")
	v.SetDefault("database.user", "minilms")
	v.SetDefault("database.password", "minilms")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	workDir := Getwd()
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		RollbarToken: v.GetString("rollbarToken"),
		Storage:      CleanString(v.GetString("storage"), true /* lower */),
		WorkDir:      workDir,
		API: APIConfig{
			BaseURL:    strings.TrimRight(v.GetString("api.baseURL"), "/"),
			UploadsURL: strings.TrimRight(v.GetString("api.uploadsURL"), "/"),
			Timeout:    v.GetDuration("api.timeout"),
		},
		Progress: ProgressConfig{
			DebounceDelay: v.GetDuration("progress.debounceDelay"),
		},
		Server: ServerConfig{
			Host:               v.GetString("server.host"),
			Address:            v.GetString("server.address"),
			SecretKey:          v.GetString("server.secretKey"),
			DisableReqLogs:     v.GetBool("server.disableReqLogs"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetInt("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
	}
	if conf.API.UploadsURL == "" {
		conf.API.UploadsURL = conf.API.BaseURL + "/uploads"
	}
	return conf
}
