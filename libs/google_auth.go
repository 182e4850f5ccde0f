package libs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// GoogleUserInfo holds the identity claims extracted from a verified Google
// ID token.
type GoogleUserInfo struct {
	ID            string `json:"sub"`
	Email         string `json:"email"`
	VerifiedEmail string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleAuthVerifier validates Google sign-in ID tokens via Google's
// tokeninfo endpoint and checks the token was issued for this application.
type GoogleAuthVerifier struct {
	ClientID   string
	httpClient *http.Client
}

func NewGoogleAuthVerifier(clientID string) *GoogleAuthVerifier {
	return &GoogleAuthVerifier{
		ClientID: clientID,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (g *GoogleAuthVerifier) VerifyIDToken(ctx context.Context, idToken string) (*GoogleUserInfo, error) {
	url := "https://oauth2.googleapis.com/tokeninfo?id_token=" + idToken

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending verification request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("invalid token")
	}

	var tokenInfo struct {
		Aud string `json:"aud"`
		GoogleUserInfo
	}

	if err := json.NewDecoder(resp.Body).Decode(&tokenInfo); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if tokenInfo.Aud != g.ClientID {
		return nil, errors.New("token was not issued for this application")
	}

	return &tokenInfo.GoogleUserInfo, nil
}
