package update

import (
	"os"
	"strconv"
	"strings"
)

type RuntimeConfig struct {
	DBPath   string
	DayStart string
	DayEnd   string
	RandSeed int64 // 0 means time-seeded
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DBPath:   "teum.db",
		DayStart: "08:00",
		DayEnd:   "22:00",
	}
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("TEUM_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString("TEUM_DAY_START"); ok {
		cfg.DayStart = v
	}
	if v, ok := getEnvString("TEUM_DAY_END"); ok {
		cfg.DayEnd = v
	}
	if v, ok := getEnvInt64("TEUM_RAND_SEED"); ok {
		cfg.RandSeed = v
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt64(name string) (int64, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
