// Package googleworkspace wraps the Google Drive and Gmail APIs behind small
// clients the pipeline and tools consume. All access runs through one OAuth
// refresh-token credential; per-API clients are constructed lazily so a
// missing credential only fails the operations that need it.
package googleworkspace

import (
	"context"
	"net/http"

	"newsletter-press/internal/config"
	"newsletter-press/internal/domain/entity"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleTokenURL = "https://oauth2.googleapis.com/token"

// workspaceSource tags Drive/Gmail failures in the error taxonomy. They are
// not content sources but share the kind vocabulary so tools report them
// uniformly.
const workspaceSource entity.SourceTag = "google"

// NewHTTPClient builds an OAuth2-authenticated HTTP client from the refresh
// token credential. The token source refreshes access tokens transparently.
func NewHTTPClient(ctx context.Context, creds config.Credentials) (*http.Client, error) {
	if !creds.GoogleConfigured() {
		return nil, entity.NewSourceAuthError(workspaceSource,
			"Google OAuth credentials not configured. Set GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, GOOGLE_REFRESH_TOKEN.")
	}

	conf := &oauth2.Config{
		ClientID:     creds.GoogleClientID,
		ClientSecret: creds.GoogleClientSecret,
		Endpoint:     google.Endpoint,
	}
	token := &oauth2.Token{RefreshToken: creds.GoogleRefreshToken}
	return conf.Client(ctx, token), nil
}
