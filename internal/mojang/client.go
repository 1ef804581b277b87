package mojang

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.minecraftservices.com"
	DefaultTimeout = 5 * time.Second
)

var (
	// ErrProfileNotFound — Mojang не знает такой аккаунт (штатный исход:
	// UUID мог «протухнуть» после миграции аккаунта).
	ErrProfileNotFound = errors.New("mojang: profile not found")
	// ErrUpstream — любой другой сбой общения с Mojang (сеть, таймаут, 5xx).
	ErrUpstream = errors.New("mojang: upstream error")
)

var mcidRe = regexp.MustCompile(`^[0-9a-f]{32}$`)

// NormalizeMCID приводит идентификатор игрока к канонической форме:
// дефисы выбрасываем, дальше требуем ровно 32 hex-символа в нижнем регистре.
func NormalizeMCID(raw string) (string, bool) {
	id := strings.ReplaceAll(strings.TrimSpace(raw), "-", "")
	if !mcidRe.MatchString(id) {
		return "", false
	}
	return id, true
}

type profileResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Client — тонкая обёртка над profile-lookup API Mojang.
// Никаких ретраев внутри: решает вызывающая сторона.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// UsernameByID возвращает актуальный ник игрока по его MCID.
func (c *Client) UsernameByID(ctx context.Context, mcid string) (string, error) {
	p, err := c.lookup(ctx, "/minecraft/profile/lookup/"+mcid)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

// IDByUsername возвращает MCID по нику (регистронезависимо на стороне Mojang).
func (c *Client) IDByUsername(ctx context.Context, username string) (string, error) {
	id, _, err := c.ProfileByUsername(ctx, username)
	return id, err
}

// ProfileByUsername — MCID и каноническое написание ника.
func (c *Client) ProfileByUsername(ctx context.Context, username string) (mcid, name string, err error) {
	p, err := c.lookup(ctx, "/minecraft/profile/lookup/name/"+username)
	if err != nil {
		return "", "", err
	}
	return strings.ToLower(p.ID), p.Name, nil
}

func (c *Client) lookup(ctx context.Context, path string) (*profileResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("User-Agent", "mcid/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrProfileNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var p profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	if p.Name == "" && p.ID == "" {
		return nil, fmt.Errorf("%w: empty profile payload", ErrUpstream)
	}
	return &p, nil
}
