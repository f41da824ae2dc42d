package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// verifyGoogleAccessToken resolves a Google OAuth access token to the
// caller's identity via the userinfo endpoint. The token never touches
// storage; only the derived session token does.
func verifyGoogleAccessToken(ctx context.Context, accessToken string) (*Identity, error) {
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})

	oauth2Service, err := goauth2.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth2 service: %w", err)
	}

	userInfo, err := oauth2Service.Userinfo.Get().Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	if userInfo.Id == "" {
		return nil, fmt.Errorf("user info response missing subject id")
	}

	return &Identity{
		Subject:  userInfo.Id,
		Email:    userInfo.Email,
		Name:     userInfo.Name,
		PhotoURL: userInfo.Picture,
	}, nil
}
