package config

import (
	"os"
	"testing"
)

func TestLoad_DefaultsAndEnvOverrides(t *testing.T) {
	// Load creates the upload/export dirs relative to the working directory.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("ADMINSERVER_DB_HOST", "db.internal")
	t.Setenv("ADMINSERVER_DB_PORT", "5433")
	t.Setenv("ADMINSERVER_JWT_SECRET", "env-secret")
	t.Setenv("ADMINSERVER_SMTP_MAIL", "otp@x.com")
	t.Setenv("ADMINSERVER_APP_URL", "http://test.local")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if c.WebPort != 5000 {
		t.Fatalf("default web port: got %d", c.WebPort)
	}
	if c.DB.Host != "db.internal" || c.DB.Port != 5433 {
		t.Fatalf("env override not applied: %+v", c.DB)
	}
	if c.JWTSecret != "env-secret" {
		t.Fatalf("jwt secret: got %q", c.JWTSecret)
	}
	if c.SMTP.User != "otp@x.com" || c.SMTP.From != "otp@x.com" {
		t.Fatalf("smtp mail override: %+v", c.SMTP)
	}
	if c.AppURL != "http://test.local" {
		t.Fatalf("app url: got %q", c.AppURL)
	}

	if _, err := os.Stat(c.UploadDir); err != nil {
		t.Fatalf("upload dir not created: %v", err)
	}
	if _, err := os.Stat(c.ExportDir); err != nil {
		t.Fatalf("export dir not created: %v", err)
	}
}
