package handlers

import (
	"context"
	"io"

	"golang.org/x/oauth2"

	"github.com/tubeport/backend/internal/models"
)

// OAuthFlow drives the authorization-code exchange for the login popup.
type OAuthFlow interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

// Provider exposes the upstream identity and channel queries handlers need.
type Provider interface {
	UserInfo(ctx context.Context, bundle *oauth2.Token) (models.Profile, error)
	HasChannel(ctx context.Context, bundle *oauth2.Token) (bool, error)
}

// UploadRelay stages a submitted file locally and publishes it upstream.
type UploadRelay interface {
	Do(ctx context.Context, bundle *oauth2.Token, upload models.Upload, payload io.Reader) (models.Receipt, error)
}
