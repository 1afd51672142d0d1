package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
)

// Config carries every environment-driven setting the application needs.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	JWTSecret string

	// FeeTiers is the compact tier string, e.g. "0-3:49,3-6:69,6-10:89".
	// Each segment is minKm-maxKm:feePesos. Empty means no tiers, in which
	// case every order gets the default fee.
	FeeTiers string

	RoutingURL     string
	RoutingTimeout time.Duration

	// RedisAddr enables the cross-instance event relay when non-empty.
	RedisAddr    string
	RedisChannel string

	BroadcastSchedule string
	SweepSchedule     string
	RiderStaleWindow  time.Duration
}

// DatabaseDSN assembles the postgres connection string.
func (c Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// ParseFeeSchedule parses the compact tier string into a validated schedule.
// An empty string yields an empty schedule; the calculator then falls back
// to the default fee for every order.
func ParseFeeSchedule(tierSpec string) (services.FeeSchedule, error) {
	if strings.TrimSpace(tierSpec) == "" {
		return services.FeeSchedule{}, nil
	}

	var tiers []services.FeeTier
	for _, segment := range strings.Split(tierSpec, ",") {
		segment = strings.TrimSpace(segment)

		bounds, feePart, found := strings.Cut(segment, ":")
		if !found {
			return services.FeeSchedule{}, fmt.Errorf("fee tier %q: missing fee", segment)
		}
		minPart, maxPart, found := strings.Cut(bounds, "-")
		if !found {
			return services.FeeSchedule{}, fmt.Errorf("fee tier %q: missing distance range", segment)
		}

		minKm, err := strconv.ParseFloat(minPart, 64)
		if err != nil {
			return services.FeeSchedule{}, fmt.Errorf("fee tier %q: invalid lower bound: %w", segment, err)
		}
		maxKm, err := strconv.ParseFloat(maxPart, 64)
		if err != nil {
			return services.FeeSchedule{}, fmt.Errorf("fee tier %q: invalid upper bound: %w", segment, err)
		}
		feePesos, err := strconv.ParseInt(feePart, 10, 64)
		if err != nil {
			return services.FeeSchedule{}, fmt.Errorf("fee tier %q: invalid fee: %w", segment, err)
		}

		fee, err := kernel.NewMoneyFromPesos(feePesos)
		if err != nil {
			return services.FeeSchedule{}, fmt.Errorf("fee tier %q: %w", segment, err)
		}
		tier, err := services.NewFeeTier(minKm, maxKm, fee)
		if err != nil {
			return services.FeeSchedule{}, fmt.Errorf("fee tier %q: %w", segment, err)
		}
		tiers = append(tiers, tier)
	}

	return services.NewFeeSchedule(tiers)
}
