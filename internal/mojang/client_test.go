package mojang

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNormalizeMCID(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		valid bool
	}{
		{"plain 32 hex", "069a79f444e94726a5befca90e38aaf5", "069a79f444e94726a5befca90e38aaf5", true},
		{"hyphenated 36", "069a79f4-44e9-4726-a5be-fca90e38aaf5", "069a79f444e94726a5befca90e38aaf5", true},
		{"surrounding spaces", "  069a79f444e94726a5befca90e38aaf5 ", "069a79f444e94726a5befca90e38aaf5", true},
		{"uppercase rejected", "069A79F444E94726A5BEFCA90E38AAF5", "", false},
		{"too short", "069a79f444e9", "", false},
		{"non-hex", "069a79f444e94726a5befca90e38aazz", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeMCID(tt.in)
			if ok != tt.valid || got != tt.want {
				t.Errorf("NormalizeMCID(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.valid)
			}
		})
	}
}

func TestUsernameByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/minecraft/profile/lookup/069a79f444e94726a5befca90e38aaf5" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"069a79f444e94726a5befca90e38aaf5","name":"Notch"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	name, err := c.UsernameByID(context.Background(), "069a79f444e94726a5befca90e38aaf5")
	if err != nil {
		t.Fatalf("UsernameByID: %v", err)
	}
	if name != "Notch" {
		t.Errorf("username = %q, want Notch", name)
	}

	_, err = c.UsernameByID(context.Background(), "ffffffffffffffffffffffffffffffff")
	if !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("unknown mcid: err = %v, want ErrProfileNotFound", err)
	}
}

func TestIDByUsername(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/minecraft/profile/lookup/name/Notch" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"id":"069A79F444E94726A5BEFCA90E38AAF5","name":"Notch"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	id, err := c.IDByUsername(context.Background(), "Notch")
	if err != nil {
		t.Fatalf("IDByUsername: %v", err)
	}
	// Mojang может отдать UUID в верхнем регистре — клиент нормализует.
	if id != "069a79f444e94726a5befca90e38aaf5" {
		t.Errorf("id = %q", id)
	}

	_, err = c.IDByUsername(context.Background(), "NoSuchPlayer")
	if !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("unknown name: err = %v, want ErrProfileNotFound", err)
	}
}

func TestUpstreamErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.UsernameByID(context.Background(), "069a79f444e94726a5befca90e38aaf5")
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("5xx: err = %v, want ErrUpstream", err)
	}
}

func TestTimeoutIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"id":"069a79f444e94726a5befca90e38aaf5","name":"Notch"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 20*time.Millisecond)
	_, err := c.UsernameByID(context.Background(), "069a79f444e94726a5befca90e38aaf5")
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("timeout: err = %v, want ErrUpstream", err)
	}
}

func TestContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	c := NewClient(srv.URL, time.Second)
	_, err := c.UsernameByID(ctx, "069a79f444e94726a5befca90e38aaf5")
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("cancelled ctx: err = %v, want ErrUpstream", err)
	}
}
