package middleware

import "testing"

func TestValidateTargetURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid https", "https://example.com/", false},
		{"valid http", "http://example.com/page", false},
		{"empty", "", true},
		{"no scheme", "example.com", true},
		{"ftp scheme", "ftp://example.com/", true},
		{"no host", "https://", true},
		{"localhost", "http://localhost:8080/", true},
		{"loopback", "http://127.0.0.1/", true},
		{"ipv6 loopback", "http://[::1]/", true},
		{"private 10", "http://10.0.0.5/", true},
		{"private 192.168", "http://192.168.1.1/", true},
		{"private 172.16", "http://172.16.0.1/", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTargetURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTargetURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTenantID(t *testing.T) {
	valid := []string{"acme", "acme-corp", "tenant_01", "A1"}
	for _, v := range valid {
		if err := ValidateTenantID(v); err != nil {
			t.Errorf("ValidateTenantID(%q) = %v, want nil", v, err)
		}
	}

	invalid := []string{"", "bad tenant", "tenant!", "a/b", string(make([]byte, 70))}
	for _, v := range invalid {
		if err := ValidateTenantID(v); err == nil {
			t.Errorf("ValidateTenantID(%q) = nil, want error", v)
		}
	}
}

func TestValidateAuditID(t *testing.T) {
	if err := ValidateAuditID("6ba7b810-9dad-11d1-80b4-00c04fd430c8"); err != nil {
		t.Errorf("valid uuid rejected: %v", err)
	}
	if err := ValidateAuditID("6BA7B810-9DAD-11D1-80B4-00C04FD430C8"); err != nil {
		t.Errorf("uppercase uuid rejected: %v", err)
	}
	for _, bad := range []string{"", "not-a-uuid", "6ba7b810"} {
		if err := ValidateAuditID(bad); err == nil {
			t.Errorf("ValidateAuditID(%q) = nil, want error", bad)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  plain  ", "plain"},
		{"null\x00byte", "nullbyte"},
		{"line\nbreak kept", "line\nbreak kept"},
		{"bell\x07gone", "bellgone"},
	}
	for _, tt := range tests {
		if got := SanitizeString(tt.in); got != tt.want {
			t.Errorf("SanitizeString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateLimit(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 20},
		{-5, 20},
		{50, 50},
		{500, 100},
	}
	for _, tt := range tests {
		if got := ValidateLimit(tt.in); got != tt.want {
			t.Errorf("ValidateLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestValidateDays(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 30},
		{90, 90},
		{400, 365},
	}
	for _, tt := range tests {
		if got := ValidateDays(tt.in); got != tt.want {
			t.Errorf("ValidateDays(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
