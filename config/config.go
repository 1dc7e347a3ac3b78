package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// devQRSecret is only ever handed out when Environment is "development".
// Production startup fails hard without QR_SECRET in the environment.
const devQRSecret = "dev-only-qr-secret-do-not-deploy"

type Config struct {
	Server   Server
	Database Database
	QR       QR
	WebAuthn WebAuthn
}

type Server struct {
	Port           string
	Environment    string
	AllowedOrigins []string
}

type Database struct {
	DSN string
}

type QR struct {
	Secret        string
	TTL           time.Duration
	SkewTolerance time.Duration
	GraceWindow   time.Duration
}

type WebAuthn struct {
	RPDisplayName string
	RPID          string
	RPOrigins     []string
}

func Load(filename string) (*Config, error) {
	v := viper.New()

	v.SetConfigName(filename)
	v.SetConfigType("yaml")
	v.AddConfigPath("config")
	v.AddConfigPath(".")

	v.SetDefault("server.port", ":6969")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowedorigins", []string{"http://localhost:3000"})
	v.SetDefault("database.dsn", "attendance.db")
	v.SetDefault("qr.secret", "")
	v.SetDefault("qr.ttl", 30*time.Second)
	v.SetDefault("qr.skewtolerance", 2*time.Second)
	v.SetDefault("qr.gracewindow", 10*time.Minute)
	v.SetDefault("webauthn.rpdisplayname", "QR Attendance")
	v.SetDefault("webauthn.rpid", "localhost")
	v.SetDefault("webauthn.rporigins", []string{"http://localhost:3000"})

	v.BindEnv("qr.secret", "QR_SECRET")
	v.BindEnv("server.environment", "APP_ENV")
	v.BindEnv("server.port", "PORT")
	v.BindEnv("database.dsn", "DATABASE_DSN")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		// no config file is fine, env + defaults carry everything
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}

	if c.QR.Secret == "" {
		if c.Server.Environment != "development" {
			return nil, errors.New("QR_SECRET is not set; refusing to start outside development")
		}
		c.QR.Secret = devQRSecret
	}

	return &c, nil
}
