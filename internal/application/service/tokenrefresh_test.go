package service

import (
	"context"
	"errors"
	"testing"

	"hedgesync/internal/domain"
)

type mockRefresher struct {
	pair     domain.TokenPair
	err      error
	gotCreds domain.VenueCredentials
}

func (m *mockRefresher) RefreshToken(_ context.Context, creds domain.VenueCredentials) (domain.TokenPair, error) {
	m.gotCreds = creds
	return m.pair, m.err
}

func refreshSecrets() *mockSecrets {
	s := testSecrets()
	s.values[KeyRefreshToken] = "ref"
	return s
}

func TestTokenRefreshRotatesBothTokens(t *testing.T) {
	refresher := &mockRefresher{pair: domain.TokenPair{AccessToken: "a2", RefreshToken: "r2"}}
	secrets := refreshSecrets()
	svc := NewTokenRefreshService(refresher, secrets)

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if refresher.gotCreds.AccountID != 42 || refresher.gotCreds.RefreshToken != "ref" {
		t.Errorf("credentials not loaded from secrets: %+v", refresher.gotCreds)
	}
	if secrets.values[KeyAccessToken] != "a2" {
		t.Errorf("access token not rotated: %q", secrets.values[KeyAccessToken])
	}
	if secrets.values[KeyRefreshToken] != "r2" {
		t.Errorf("refresh token not rotated: %q", secrets.values[KeyRefreshToken])
	}
}

func TestTokenRefreshFailureLeavesTokensAlone(t *testing.T) {
	refresher := &mockRefresher{err: errors.New("venue rejected refresh")}
	secrets := refreshSecrets()
	svc := NewTokenRefreshService(refresher, secrets)

	if err := svc.Run(context.Background()); err == nil {
		t.Fatal("expected refresh failure to propagate")
	}
	if secrets.values[KeyAccessToken] != "tok" || secrets.values[KeyRefreshToken] != "ref" {
		t.Error("tokens changed despite failed refresh")
	}
}
