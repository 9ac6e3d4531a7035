package conferencing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/model"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	createPath  = "/enterprise_api/conference/create"
	startLayout = "2006-01-02 15:04:05"
	maxBodyLog  = 512
)

type createRequest struct {
	AuthToken         string              `json:"auth_token"`
	HostID            int                 `json:"host_id"`
	Subject           string              `json:"subject"`
	Start             string              `json:"start"`
	TimeZone          string              `json:"time_zone"`
	Duration          int                 `json:"duration"`
	AutoRecord        string              `json:"auto_record"`
	OneTimeAccessCode bool                `json:"one_time_access_code"`
	SecureURL         bool                `json:"secure_url"`
	MuteMode          string              `json:"mute_mode"`
	Participants      []createParticipant `json:"participants"`
}

type createParticipant struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type createResponse struct {
	ConferenceID json.RawMessage `json:"conference_id"`
}

// HTTPProvider calls the enterprise conferencing API.
type HTTPProvider struct {
	cfg  Config
	url  string
	loc  *time.Location
	http *http.Client
}

func NewHTTPProvider(cfg Config) (*HTTPProvider, error) {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("conferencing time zone %q: %w", cfg.TimeZone, err)
	}
	if cfg.DefaultDuration <= 0 {
		cfg.DefaultDuration = 30 * time.Minute
	}
	return &HTTPProvider{
		cfg: cfg,
		url: strings.TrimRight(cfg.BaseURL, "/") + createPath,
		loc: loc,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

func (p *HTTPProvider) CreateConference(ctx context.Context, req model.BookingRequest) (string, error) {
	raw, err := json.Marshal(p.buildRequest(req))
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := p.http.Do(httpReq)
	if err != nil {
		return "", &ProviderError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &ProviderError{StatusCode: resp.StatusCode, Message: "failed to read response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ProviderError{StatusCode: resp.StatusCode, Message: snippet(body)}
	}

	var out createResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &ProviderError{StatusCode: resp.StatusCode, Message: "invalid response body", Err: err}
	}
	id := conferenceID(out.ConferenceID)
	if id == "" {
		return "", &ProviderError{StatusCode: resp.StatusCode, Message: "response has no conference_id"}
	}
	return id, nil
}

func (p *HTTPProvider) buildRequest(req model.BookingRequest) createRequest {
	duration := p.cfg.DefaultDuration
	if !req.End.IsZero() {
		duration = req.End.Sub(req.Start)
	}
	participants := make([]createParticipant, 0, len(req.Participants))
	for _, pt := range req.Participants {
		participants = append(participants, createParticipant{Email: pt.Email, Name: pt.Name, Phone: pt.Phone})
	}
	return createRequest{
		AuthToken:         p.cfg.AuthToken,
		HostID:            p.cfg.HostID,
		Subject:           req.Title,
		Start:             req.Start.In(p.loc).Format(startLayout),
		TimeZone:          p.cfg.TimeZone,
		Duration:          int(math.Round(duration.Minutes())),
		AutoRecord:        p.cfg.AutoRecord,
		OneTimeAccessCode: p.cfg.OneTimeAccessCode,
		SecureURL:         p.cfg.SecureURL,
		MuteMode:          p.cfg.MuteMode,
		Participants:      participants,
	}
}

// conferenceID accepts the id as a JSON string or number.
func conferenceID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if s == "" {
		return "provider returned non-2xx"
	}
	if len(s) > maxBodyLog {
		s = s[:maxBodyLog]
	}
	return s
}
