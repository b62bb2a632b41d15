package config

import "testing"

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.BaseURL != "http://localhost:8000" {
		t.Fatalf("base url = %q, want default", cfg.BaseURL)
	}
	if cfg.APIPrefix != "/api" {
		t.Fatalf("api prefix = %q, want /api", cfg.APIPrefix)
	}
	if got := cfg.RequestTimeout().Seconds(); got != 60 {
		t.Fatalf("request timeout = %vs, want 60s", got)
	}
	if got := cfg.ReconnectDelay().Seconds(); got != 5 {
		t.Fatalf("reconnect delay = %vs, want 5s", got)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	t.Parallel()

	cfg := Config{BaseURL: "https://planner.example.com", RequestTimeoutSeconds: 10}
	cfg.ApplyDefaults()

	if cfg.BaseURL != "https://planner.example.com" {
		t.Fatalf("base url = %q, want explicit value kept", cfg.BaseURL)
	}
	if got := cfg.RequestTimeout().Seconds(); got != 10 {
		t.Fatalf("request timeout = %vs, want 10s", got)
	}
}

func TestWebSocketBase_SchemeSubstitution(t *testing.T) {
	t.Parallel()

	cases := []struct {
		base string
		want string
	}{
		{"http://localhost:8000", "ws://localhost:8000"},
		{"https://planner.example.com/", "wss://planner.example.com"},
		{"ws://already-ws", "ws://already-ws"},
	}
	for _, tc := range cases {
		cfg := Config{BaseURL: tc.base}
		if got := cfg.WebSocketBase(); got != tc.want {
			t.Fatalf("WebSocketBase(%q) = %q, want %q", tc.base, got, tc.want)
		}
	}
}

func TestValidateSettings_AcceptsFullConfig(t *testing.T) {
	t.Parallel()

	settings := map[string]any{
		"base_url":                "https://planner.example.com",
		"api_prefix":              "/api",
		"request_timeout_seconds": 30,
		"reconnect_delay_seconds": 5,
		"user_id":                 "u1",
	}

	if err := ValidateSettings(settings); err != nil {
		t.Fatalf("ValidateSettings returned error: %v", err)
	}
}

func TestValidateSettings_RejectsUnknownKeysAndBadValues(t *testing.T) {
	t.Parallel()

	if err := ValidateSettings(map[string]any{"base_urll": "typo"}); err == nil {
		t.Fatal("ValidateSettings accepted unknown key, want error")
	}
	if err := ValidateSettings(map[string]any{"base_url": "ftp://nope"}); err == nil {
		t.Fatal("ValidateSettings accepted non-http base_url, want error")
	}
	if err := ValidateSettings(map[string]any{"request_timeout_seconds": 0}); err == nil {
		t.Fatal("ValidateSettings accepted zero timeout, want error")
	}
}
