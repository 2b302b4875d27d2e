package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	JWTSecret string
	AppDebug  bool
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	AppDebug = GetEnv("APP_ENV", "development") != "production"

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET belum diset!")
	} else {
		log.Println("✅ JWT_SECRET berhasil dimuat.")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

// =======================
// BILLING CONFIG
// =======================

// BillingConfig dipegang eksplisit oleh tiap service/job — tidak ada
// pembacaan ENV tersembunyi di dalam service.
type BillingConfig struct {
	PenaltyPerDay  int    // denda per hari keterlambatan (Rp)
	MaxPenalty     int    // denda maksimum (Rp)
	DefaultDueDays int    // due date default: N hari setelah generate
	WebhookSecret  string // shared secret HMAC untuk webhook gateway
}

func LoadBillingConfig() BillingConfig {
	return BillingConfig{
		PenaltyPerDay:  GetEnvInt("OVERDUE_PENALTY_PER_DAY", 10000),
		MaxPenalty:     GetEnvInt("OVERDUE_MAX_PENALTY", 500000),
		DefaultDueDays: GetEnvInt("BILLING_DUE_DAYS", 14),
		WebhookSecret:  GetEnv("PAYMENT_GATEWAY_SECRET", "webhook-secret"),
	}
}
