package conferencing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/reallifeconnect/orgmeet/libs/config"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/model"
)

// Provider creates a conference on an external service and returns its id.
type Provider interface {
	CreateConference(ctx context.Context, req model.BookingRequest) (string, error)
}

var ErrProvider = errors.New("conferencing provider error")

// ProviderError describes a failed conference creation. StatusCode is zero
// when no HTTP response was received.
type ProviderError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to create meeting: %s (status %d)", e.Message, e.StatusCode)
	}
	return "failed to create meeting: " + e.Message
}

func (e *ProviderError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrProvider, e.Err}
	}
	return []error{ErrProvider}
}

type Config struct {
	BaseURL           string
	AuthToken         string
	HostID            int
	TimeZone          string
	AutoRecord        string
	MuteMode          string
	OneTimeAccessCode bool
	SecureURL         bool
	// DefaultDuration is used when a request has no end time.
	DefaultDuration time.Duration
	// Timeout bounds one create call. Zero means the call is bounded only by
	// the request context.
	Timeout time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		BaseURL:           config.String("CONFERENCING_API_URL", ""),
		AuthToken:         config.String("CONFERENCING_AUTH_TOKEN", ""),
		HostID:            config.Int("CONFERENCING_HOST_ID", 0),
		TimeZone:          config.String("CONFERENCING_TIME_ZONE", "US/Eastern"),
		AutoRecord:        config.String("CONFERENCING_AUTO_RECORD", "none"),
		MuteMode:          config.String("CONFERENCING_MUTE_MODE", "conversation"),
		OneTimeAccessCode: config.Bool("CONFERENCING_ONE_TIME_ACCESS_CODE", true),
		SecureURL:         config.Bool("CONFERENCING_SECURE_URL", false),
		DefaultDuration:   time.Duration(config.Int("CONFERENCING_DEFAULT_DURATION_MINUTES", 30)) * time.Minute,
		Timeout:           config.Seconds("CONFERENCING_TIMEOUT_SECONDS", 0),
	}
}

// NewProvider returns nil when no API URL is configured; bookings then get
// locally generated ids.
func NewProvider(cfg Config) (Provider, error) {
	if cfg.BaseURL == "" {
		return nil, nil
	}
	p, err := NewHTTPProvider(cfg)
	if err != nil {
		return nil, err
	}
	return p, nil
}
