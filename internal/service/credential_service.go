// File: internal/service/credential_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/RayanDZ04/area-rattrapage/internal/config"
	domainErrors "github.com/RayanDZ04/area-rattrapage/internal/domain/errors"
	"github.com/RayanDZ04/area-rattrapage/internal/domain/repository"
	"github.com/RayanDZ04/area-rattrapage/internal/provider"
	"github.com/RayanDZ04/area-rattrapage/internal/utils/metrics"
)

// CredentialProvider obtains a currently valid access credential for a
// user's connected external account, refreshing proactively when stale.
type CredentialProvider interface {
	Obtain(ctx context.Context, userID uuid.UUID, providerName string) (provider.Credential, error)
}

// CredentialService implements CredentialProvider on top of the stored
// service connections and the provider's OAuth token endpoint.
type CredentialService struct {
	connRepo      repository.ServiceConnectionRepository
	oauth2Configs map[string]*oauth2.Config
	staleAfter    time.Duration
	logger        *zap.Logger
}

// NewCredentialService builds the per-provider oauth2 configs once, the way
// the rest of the server config is resolved at startup.
func NewCredentialService(
	connRepo repository.ServiceConnectionRepository,
	providers map[string]config.OAuthProviderConfig,
	staleAfter time.Duration,
	logger *zap.Logger,
) *CredentialService {
	oauth2Configs := make(map[string]*oauth2.Config)
	for providerName, providerCfg := range providers {
		oauth2Configs[providerName] = &oauth2.Config{
			ClientID:     providerCfg.ClientID,
			ClientSecret: providerCfg.ClientSecret,
			RedirectURL:  providerCfg.RedirectURL,
			Scopes:       providerCfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  providerCfg.AuthURL,
				TokenURL: providerCfg.TokenURL,
			},
		}
	}
	return &CredentialService{
		connRepo:      connRepo,
		oauth2Configs: oauth2Configs,
		staleAfter:    staleAfter,
		logger:        logger,
	}
}

// Obtain returns an access credential for (user, provider), refreshing it
// first when the stored one is older than the staleness threshold. A
// successful refresh rewrites the connection row exactly once.
func (s *CredentialService) Obtain(ctx context.Context, userID uuid.UUID, providerName string) (provider.Credential, error) {
	oauthCfg, ok := s.oauth2Configs[providerName]
	if !ok || oauthCfg.ClientID == "" || oauthCfg.ClientSecret == "" {
		return provider.Credential{}, fmt.Errorf("%w: provider %q", domainErrors.ErrProviderMisconfigured, providerName)
	}

	conn, err := s.connRepo.FindCurrent(ctx, userID, providerName)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return provider.Credential{}, fmt.Errorf("%w: provider %q", domainErrors.ErrNoConnection, providerName)
		}
		return provider.Credential{}, fmt.Errorf("failed to load service connection: %w", err)
	}

	if time.Since(conn.IssuedAt) < s.staleAfter {
		return provider.Credential{AccessToken: conn.AccessToken}, nil
	}

	// Stale: refresh before handing the credential to any downstream call.
	if !conn.HasRefreshToken() {
		return provider.Credential{}, fmt.Errorf("%w: provider %q", domainErrors.ErrIncompleteGrant, providerName)
	}

	token, err := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: *conn.RefreshToken}).Token()
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("failure").Inc()
		s.logger.Warn("Token refresh failed",
			zap.String("user_id", userID.String()),
			zap.String("provider", providerName),
			zap.Error(err),
		)
		return provider.Credential{}, fmt.Errorf("%w: %v", domainErrors.ErrRefreshFailed, err)
	}

	if err := s.connRepo.UpdateAccessToken(ctx, conn.ID, token.AccessToken, time.Now().UTC()); err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("failure").Inc()
		return provider.Credential{}, fmt.Errorf("failed to persist refreshed access token: %w", err)
	}

	metrics.TokenRefreshTotal.WithLabelValues("success").Inc()
	s.logger.Info("Access token refreshed",
		zap.String("user_id", userID.String()),
		zap.String("provider", providerName),
	)
	return provider.Credential{AccessToken: token.AccessToken}, nil
}

var _ CredentialProvider = (*CredentialService)(nil)
