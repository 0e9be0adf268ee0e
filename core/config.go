package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName         string
		Env             string // DEV (default), TEST, QA, PROD
		Debug           bool
		TestMode        bool
		Build           string
		SecretKey       string
		FrontendBaseURL string
		WorkDir         string

		// EduDomain is the institutional email domain sign-ups are restricted to.
		EduDomain string

		Server   ServerConfig
		Admin    AdminConfig
		Database DatabaseConfig
		Relay    RelayConfig
		Sendgrid SendgridConfig
		Rollbar  RollbarConfig
	}

	ServerConfig struct {
		Host               string
		Port               string
		DebugHost          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	// AdminConfig holds the shared dashboard password. There are no per-admin
	// accounts; whoever knows the password gets a session token.
	AdminConfig struct {
		Password string
	}

	DatabaseConfig struct {
		Engine     string
		Host       string
		Port       string
		Name       string
		User       string
		Password   string
		DisableTLS bool
	}

	RelayConfig struct {
		Host string
		Port string
		// BaseURL is where the API process reaches the relay process.
		BaseURL string
	}

	SendgridConfig struct {
		ApiKey           string
		DefaultFromName  string
		DefaultFromEmail string
	}

	RollbarConfig struct {
		Token string
	}
)

func (c ServerConfig) Address() string   { return c.Host + ":" + c.Port }
func (c DatabaseConfig) Address() string { return c.Host + ":" + c.Port }
func (c RelayConfig) Address() string    { return c.Host + ":" + c.Port }

// Configured reports whether database credentials were supplied at all.
// The admin API degrades to an explanatory 503 when they are absent,
// rather than prompting or crashing.
func (c DatabaseConfig) Configured() bool {
	return c.Name != "" && c.User != ""
}

func (c SendgridConfig) DefaultFrom() mail.Address {
	return mail.Address{Name: c.DefaultFromName, Address: c.DefaultFromEmail}
}

// NewConfig loads configuration from defaults, an optional config/.env.<env>
// file and environment variables, in increasing order of precedence.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "MealMatch")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "w#l2v^9y)d&0q(h!x4*c7(#yg8h^$cegm3emy-bdzu0xh5(t")
	v.SetDefault("frontendBaseURL", "http://localhost:5173")
	v.SetDefault("eduDomain", "brandeis.edu")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.debugHost", "0.0.0.0:4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 12*time.Hour)

	v.SetDefault("admin.password", "")

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("relay.host", "0.0.0.0")
	v.SetDefault("relay.port", "8001")
	v.SetDefault("relay.baseURL", "http://localhost:8001")

	v.SetDefault("sendgrid.apiKey", "")
	v.SetDefault("sendgrid.defaultFromName", "MealMatch")
	v.SetDefault("sendgrid.defaultFromEmail", "noreply@localhost")

	v.SetDefault("rollbar.token", "")

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{
		AppName:         v.GetString("appName"),
		Env:             env,
		Debug:           v.GetBool("debug"),
		TestMode:        env == "TEST",
		Build:           v.GetString("build"),
		SecretKey:       v.GetString("secretKey"),
		FrontendBaseURL: v.GetString("frontendBaseURL"),
		WorkDir:         wd,
		EduDomain:       strings.ToLower(v.GetString("eduDomain")),
		Server: ServerConfig{
			Host:               v.GetString("server.host"),
			Port:               v.GetString("server.port"),
			DebugHost:          v.GetString("server.debugHost"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
		},
		Admin: AdminConfig{
			Password: v.GetString("admin.password"),
		},
		Database: DatabaseConfig{
			Engine:     v.GetString("database.engine"),
			Host:       v.GetString("database.host"),
			Port:       v.GetString("database.port"),
			Name:       v.GetString("database.name"),
			User:       v.GetString("database.user"),
			Password:   v.GetString("database.password"),
			DisableTLS: v.GetBool("database.disableTLS"),
		},
		Relay: RelayConfig{
			Host:    v.GetString("relay.host"),
			Port:    v.GetString("relay.port"),
			BaseURL: v.GetString("relay.baseURL"),
		},
		Sendgrid: SendgridConfig{
			ApiKey:           v.GetString("sendgrid.apiKey"),
			DefaultFromName:  v.GetString("sendgrid.defaultFromName"),
			DefaultFromEmail: v.GetString("sendgrid.defaultFromEmail"),
		},
		Rollbar: RollbarConfig{
			Token: v.GetString("rollbar.token"),
		},
	}
}
