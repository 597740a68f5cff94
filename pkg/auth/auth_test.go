package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, expires, err := m.GenerateToken(42, []string{RoleClient, RoleAdmin})
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if !expires.After(time.Now()) {
		t.Errorf("expiry %v should be in the future", expires)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user 42, got %d", claims.UserID)
	}
	if len(claims.Roles) != 2 || claims.Roles[1] != RoleAdmin {
		t.Errorf("unexpected roles %v", claims.Roles)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	token, _, err := m.GenerateToken(1, []string{RoleAdmin})
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	expired := NewTokenManager("test-secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	oldToken, _, err := expired.GenerateToken(1, []string{RoleAdmin})
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	tests := []struct {
		name    string
		manager *TokenManager
		token   string
	}{
		{"wrong secret", NewTokenManager("other-secret", time.Hour), token},
		{"garbage", m, "not-a-token"},
		{"expired", m, oldToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.manager.ValidateToken(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	admin, _, _ := m.GenerateToken(1, []string{RoleClient, RoleAdmin})
	client, _, _ := m.GenerateToken(2, []string{RoleClient})

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"admin passes", admin, nil},
		{"client forbidden", client, ErrForbidden},
		{"missing token", "", ErrMissingToken},
		{"invalid token", "abc.def.ghi", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RequireRole(context.Background(), m, tt.token, RoleAdmin)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc", "abc", false},
		{"bearer  xyz ", "xyz", false},
		{"", "", true},
		{"Basic abc", "", true},
		{"Bearer", "", true},
	}

	for _, tt := range tests {
		got, err := BearerToken(tt.header)
		if (err != nil) != tt.wantErr {
			t.Errorf("BearerToken(%q) error = %v, wantErr %v", tt.header, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("BearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestStaticGate(t *testing.T) {
	g := StaticGate{Principal: &Principal{UserID: 7, Roles: []string{RoleAdmin}}}
	p, err := g.Authenticate(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.HasRole(RoleAdmin) {
		t.Error("expected admin role")
	}

	if _, err := (StaticGate{}).Authenticate(context.Background(), "x"); !errors.Is(err, ErrMissingToken) {
		t.Errorf("expected ErrMissingToken, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !CheckPassword(hash, "s3cret!") {
		t.Error("expected password to match")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("expected mismatch for wrong password")
	}
}
