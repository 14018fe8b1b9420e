package config

import "testing"

func validConfig() *Config {
	return &Config{
		Env:                    "development",
		DatabaseURL:            "postgres://localhost/bookline",
		BusinessTimezone:       "UTC",
		SlotGranularityMinutes: 30,
		CheckInEarlyMinutes:    60,
		CheckInLateMinutes:     30,
		NoShowGraceMinutes:     30,
	}
}

func TestValidateOK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateRequiresAuthSecretInProduction(t *testing.T) {
	cfg := validConfig()
	cfg.Env = "production"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing AUTH_SECRET in production")
	}
	cfg.AuthSecret = "s3cret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateRejectsBadGranularity(t *testing.T) {
	cfg := validConfig()
	cfg.SlotGranularityMinutes = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero granularity")
	}
}

func TestValidateRejectsBadTimezone(t *testing.T) {
	cfg := validConfig()
	cfg.BusinessTimezone = "Mars/Olympus_Mons"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestValidateGoogleCalendarPairing(t *testing.T) {
	cfg := validConfig()
	cfg.GoogleCalendarID = "primary"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error: calendar id without credentials file")
	}
	cfg.GoogleCredentialsFile = "/etc/bookline/google.json"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
