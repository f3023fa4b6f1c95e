package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	HTTPTimeout time.Duration
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration

	NausysBase    string
	NausysUser    string
	NausysPass    string
	NausysRPS     int
	NausysTimeout time.Duration
	CrewSecurity  string
	CrewWorkers   int
	SyncDomain    string
	SyncInterval  time.Duration
	CriteriaTTL   time.Duration
	FreeCabinDays int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Int("default", def).Msg("ignoring non-numeric setting")
		}
		return def
	}
	seconds := func(k string, def int) time.Duration {
		return time.Duration(atoi(k, def)) * time.Second
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		HTTPTimeout: seconds("HTTP_TIMEOUT_SECONDS", 15),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/charter?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		CacheTTL:    seconds("CACHE_TTL_SECONDS", 900),

		NausysBase:    env("NAUSYS_BASE_URL", "https://ws.nausys.com/CBMS-external/rest"),
		NausysUser:    env("NAUSYS_USERNAME", ""),
		NausysPass:    env("NAUSYS_PASSWORD", ""),
		NausysRPS:     atoi("NAUSYS_RPS", 5),
		NausysTimeout: seconds("NAUSYS_TIMEOUT_SECONDS", 30),
		CrewSecurity:  env("CREW_SECURITY_CODE", ""),
		CrewWorkers:   atoi("CREW_WORKERS", 4),
		SyncDomain:    env("SYNC_DOMAIN", "all"),
		SyncInterval:  seconds("SYNC_INTERVAL_SECONDS", 0),
		CriteriaTTL:   seconds("FREE_CABIN_CRITERIA_TTL_SECONDS", 3600),
		FreeCabinDays: atoi("FREE_CABIN_WINDOW_DAYS", 60),
	}
	if c.NausysUser == "" || c.NausysPass == "" {
		log.Warn().Msg("NAUSYS_USERNAME or NAUSYS_PASSWORD is empty")
	}
	if c.CrewSecurity == "" {
		log.Info().Msg("CREW_SECURITY_CODE not set, crew sync disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
