package config

import "time"

type AccessConfig struct {
	// Roles that may skip the profile-completeness check.
	ProfileExemptRoles []string `yaml:"profile_exempt_roles"`
	EnforceBlocked     bool     `yaml:"enforce_blocked"`
}

type BookingConfig struct {
	// RequirePassengerEmail aborts an accept before any write when the
	// booking carries no passenger email.
	RequirePassengerEmail bool          `yaml:"require_passenger_email"`
	EmailRetries          int           `yaml:"email_retries"`
	EmailRetryDelay       time.Duration `yaml:"email_retry_delay"`
	SideEffectTimeout     time.Duration `yaml:"side_effect_timeout"`
}

type ChatConfig struct {
	DedupInterval  time.Duration `yaml:"dedup_interval"`
	PreviewLength  int           `yaml:"preview_length"`
	SystemSenderID string        `yaml:"system_sender_id"`
}

type CitiesConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Country  string        `yaml:"country"`
	Timeout  time.Duration `yaml:"timeout"`
}

type PlatformConfig struct {
	CommissionRate float64 `yaml:"commission_rate"`
}

func loadAccessConfig() *AccessConfig {
	return &AccessConfig{
		ProfileExemptRoles: getEnvAsSlice("ACCESS_PROFILE_EXEMPT_ROLES", []string{}),
		EnforceBlocked:     getEnvAsBool("ACCESS_ENFORCE_BLOCKED", false),
	}
}

func loadBookingConfig() *BookingConfig {
	return &BookingConfig{
		RequirePassengerEmail: getEnvAsBool("BOOKING_REQUIRE_PASSENGER_EMAIL", false),
		EmailRetries:          getEnvAsInt("BOOKING_EMAIL_RETRIES", 3),
		EmailRetryDelay:       getEnvAsDuration("BOOKING_EMAIL_RETRY_DELAY", 2*time.Second),
		SideEffectTimeout:     getEnvAsDuration("BOOKING_SIDE_EFFECT_TIMEOUT", 30*time.Second),
	}
}

func loadChatConfig() *ChatConfig {
	return &ChatConfig{
		DedupInterval:  getEnvAsDuration("CHAT_DEDUP_INTERVAL", time.Hour),
		PreviewLength:  getEnvAsInt("CHAT_PREVIEW_LENGTH", 50),
		SystemSenderID: getEnv("CHAT_SYSTEM_SENDER_ID", "system"),
	}
}

func loadCitiesConfig() *CitiesConfig {
	return &CitiesConfig{
		Endpoint: getEnv("CITIES_ENDPOINT", "https://countriesnow.space/api/v0.1/countries/cities"),
		Country:  getEnv("CITIES_COUNTRY", "Canada"),
		Timeout:  getEnvAsDuration("CITIES_TIMEOUT", 10*time.Second),
	}
}

func loadPlatformConfig() *PlatformConfig {
	return &PlatformConfig{
		CommissionRate: getEnvAsFloat64("PLATFORM_COMMISSION_RATE", 10),
	}
}
