package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"hedgesync/internal/application/port"
	"hedgesync/internal/domain"
)

// TokenRefreshService rotates the venue access/refresh token pair and
// persists the new pair to the secret store.
type TokenRefreshService struct {
	venue   port.VenueTokenRefresher
	secrets port.SecretStore
}

func NewTokenRefreshService(venue port.VenueTokenRefresher, secrets port.SecretStore) *TokenRefreshService {
	return &TokenRefreshService{venue: venue, secrets: secrets}
}

func (s *TokenRefreshService) Run(ctx context.Context) error {
	creds, err := s.loadCredentials(ctx)
	if err != nil {
		return err
	}

	pair, err := s.venue.RefreshToken(ctx, creds)
	if err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}

	if err := s.secrets.Set(ctx, KeyAccessToken, pair.AccessToken); err != nil {
		return fmt.Errorf("store %s: %w", KeyAccessToken, err)
	}
	if err := s.secrets.Set(ctx, KeyRefreshToken, pair.RefreshToken); err != nil {
		return fmt.Errorf("store %s: %w", KeyRefreshToken, err)
	}
	log.Info().Msg("token pair rotated")
	return nil
}

func (s *TokenRefreshService) loadCredentials(ctx context.Context) (domain.VenueCredentials, error) {
	var creds domain.VenueCredentials
	var err error

	idStr, err := s.secrets.Get(ctx, KeyAccountID)
	if err != nil {
		return creds, fmt.Errorf("load %s: %w", KeyAccountID, err)
	}
	if creds.AccountID, err = strconv.ParseInt(idStr, 10, 64); err != nil {
		return creds, fmt.Errorf("parse %s: %w", KeyAccountID, err)
	}
	if creds.ClientID, err = s.secrets.Get(ctx, KeyClientID); err != nil {
		return creds, fmt.Errorf("load %s: %w", KeyClientID, err)
	}
	if creds.ClientSecret, err = s.secrets.Get(ctx, KeyClientSecret); err != nil {
		return creds, fmt.Errorf("load %s: %w", KeyClientSecret, err)
	}
	if creds.AccessToken, err = s.secrets.Get(ctx, KeyAccessToken); err != nil {
		return creds, fmt.Errorf("load %s: %w", KeyAccessToken, err)
	}
	if creds.RefreshToken, err = s.secrets.Get(ctx, KeyRefreshToken); err != nil {
		return creds, fmt.Errorf("load %s: %w", KeyRefreshToken, err)
	}
	return creds, nil
}
