package port

import (
	"context"

	"hedgesync/internal/domain"
)

// VenueReader runs one full reconcile conversation with the venue and
// returns the aggregated account report. Blocking; one conversation,
// one connection, released before returning.
type VenueReader interface {
	FetchReport(ctx context.Context, req domain.ReportRequest) (domain.AccountReport, error)
}

// VenueTokenRefresher runs the short token-refresh conversation.
type VenueTokenRefresher interface {
	RefreshToken(ctx context.Context, creds domain.VenueCredentials) (domain.TokenPair, error)
}
