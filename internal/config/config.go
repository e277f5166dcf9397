package config

import (
	"fmt"
	"github.com/spf13/viper"
	"os"
)

/* ---------- raw structs ---------- */

type DBConfig struct {
	Host, User, Password, DBName, SSLMode string
	Port                                  int
}

type SMTPConfig struct {
	Host, User, Password, From string
	Port                       int
}

type Config struct {
	WebHost, AppURL, JWTSecret, UploadDir, ExportDir string
	WebPort                                          int
	DB                                               DBConfig
	SMTP                                             SMTPConfig
}

/* ---------- loader ---------- */

func Load() (Config, error) {

	viper.SetDefault("web.host", "0.0.0.0")
	viper.SetDefault("web.port", 5000)
	viper.SetDefault("app_url", "http://localhost:5000")
	viper.SetDefault("db.sslmode", "disable")
	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("upload_dir", "./uploads")
	viper.SetDefault("export_dir", "./exports")

	_ = viper.ReadInConfig() // ignore missing config file

	c := Config{
		WebHost: viper.GetString("web.host"),
		WebPort: viper.GetInt("web.port"),
		AppURL:  viper.GetString("app_url"),
		DB: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetInt("db.port"),
			User:     viper.GetString("db.user"),
			Password: viper.GetString("db.password"),
			DBName:   viper.GetString("db.name"),
			SSLMode:  viper.GetString("db.sslmode"),
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("smtp.host"),
			Port:     viper.GetInt("smtp.port"),
			User:     viper.GetString("smtp.user"),
			Password: viper.GetString("smtp.password"),
			From:     viper.GetString("smtp.from"),
		},
		JWTSecret: viper.GetString("jwt_secret"),
		UploadDir: viper.GetString("upload_dir"),
		ExportDir: viper.GetString("export_dir"),
	}

	// ---- OVERRIDE WITH ENV VARS (STRICT) ----
	if v := os.Getenv("ADMINSERVER_DB_HOST"); v != "" {
		c.DB.Host = v
	}
	if v := os.Getenv("ADMINSERVER_DB_PORT"); v != "" {
		fmt.Sscanf(v, "%d", &c.DB.Port)
	}
	if v := os.Getenv("ADMINSERVER_DB_USER"); v != "" {
		c.DB.User = v
	}
	if v := os.Getenv("ADMINSERVER_DB_PASSWORD"); v != "" {
		c.DB.Password = v
	}
	if v := os.Getenv("ADMINSERVER_DB_NAME"); v != "" {
		c.DB.DBName = v
	}
	if v := os.Getenv("ADMINSERVER_SMTP_HOST"); v != "" {
		c.SMTP.Host = v
	}
	if v := os.Getenv("ADMINSERVER_SMTP_PORT"); v != "" {
		fmt.Sscanf(v, "%d", &c.SMTP.Port)
	}
	if v := os.Getenv("ADMINSERVER_SMTP_MAIL"); v != "" {
		c.SMTP.User = v
		if c.SMTP.From == "" {
			c.SMTP.From = v
		}
	}
	if v := os.Getenv("ADMINSERVER_SMTP_PASSWORD"); v != "" {
		c.SMTP.Password = v
	}
	if v := os.Getenv("ADMINSERVER_APP_URL"); v != "" {
		c.AppURL = v
	}
	if v := os.Getenv("ADMINSERVER_JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}

	// ---- CREATE WORKING DIRS ----
	if err := os.MkdirAll(c.UploadDir, 0o755); err != nil {
		return Config{}, fmt.Errorf("mkdir upload dir: %w", err)
	}
	if err := os.MkdirAll(c.ExportDir, 0o755); err != nil {
		return Config{}, fmt.Errorf("mkdir export dir: %w", err)
	}

	return c, nil
}
