package config

import (
	"log"
	"os"
)

type Config struct {
	Port            string
	DataDir         string
	AdminDBDSN      string
	InquiryDBPath   string
	MediaDir        string
	LogFile         string
	RelayContactURL string
	RelayInquiryURL string
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func Load() Config {
	cfg := Config{
		Port:          env("PORT", "8080"),
		DataDir:       env("DATA_DIR", "./data"),
		AdminDBDSN:    env("ADMIN_DB_DSN", "palcofon.db"), // sqlite file in project root
		InquiryDBPath: env("INQUIRY_DB", "inquiries.db"),
		MediaDir:      env("MEDIA_DIR", "./web/media"),
		LogFile:       env("LOG_FILE", "./palcofon.log"),
		// The mail relays are external endpoints; these defaults point at the
		// hosted PHP scripts.
		RelayContactURL: env("RELAY_CONTACT_URL", "https://palcofon.co.za/send-contact.php"),
		RelayInquiryURL: env("RELAY_INQUIRY_URL", "https://palcofon.co.za/send-inquiry.php"),
	}
	log.Printf("[config] PORT=%s DATA_DIR=%s ADMIN_DB_DSN=%s INQUIRY_DB=%s MEDIA_DIR=%s LOG_FILE=%s",
		cfg.Port, cfg.DataDir, cfg.AdminDBDSN, cfg.InquiryDBPath, cfg.MediaDir, cfg.LogFile)
	return cfg
}
