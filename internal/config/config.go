package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DBDSN         string
	MediaDir      string
	LogFile       string
	SetCodesFile  string
	AssetCacheTTL time.Duration
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "poolquote.db" // sqlite file in project root
	}
	media := os.Getenv("MEDIA_DIR")
	if media == "" {
		media = "./web/media"
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./poolquote.log"
	}
	setCodes := os.Getenv("SET_CODES_FILE")
	if setCodes == "" {
		setCodes = "./set_codes.json"
	}
	ttl := 15 * time.Minute
	if v := os.Getenv("ASSET_CACHE_TTL_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttl = time.Duration(n) * time.Minute
		}
	}

	cfg := Config{Port: port, DBDSN: dsn, MediaDir: media, LogFile: logFile, SetCodesFile: setCodes, AssetCacheTTL: ttl}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s SET_CODES_FILE=%s", cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile, cfg.SetCodesFile)
	return cfg
}

// LoadSetCodes reads the dimension-key → set-code lookup table, e.g.
// {"6-3": "SET-6-3"}. The table is deployment configuration, not
// business data the application owns; a missing file means no sets.
func LoadSetCodes(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[config] set codes file %s not found, set substitution disabled", path)
			return map[string]string{}, nil
		}
		return nil, err
	}
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
