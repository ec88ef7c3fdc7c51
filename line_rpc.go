// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// --- Types for LINE Login REST API communication ---

type lineTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type lineErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

var lineHTTPClient = &http.Client{
	Timeout: 5 * time.Second,
}

// lineAuthorizeURL builds the provider's authorization redirect. Visiting
// it suspends the flow; the provider calls back with a code after the user
// consents (or immediately, inside the LINE client).
func (fe *frontendServer) lineAuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", fe.lineChannelID)
	q.Set("redirect_uri", fe.lineRedirectURL)
	q.Set("state", state)
	q.Set("scope", "profile openid")
	return fe.lineLoginBase + "/oauth2/v2.1/authorize?" + q.Encode()
}

// lineExchangeCode trades an authorization code for an access token.
func (fe *frontendServer) lineExchangeCode(ctx context.Context, code string) (*lineTokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", fe.lineRedirectURL)
	form.Set("client_id", fe.lineChannelID)
	form.Set("client_secret", fe.lineChannelSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fe.lineAPIBase+"/oauth2/v2.1/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := lineHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp lineErrorResponse
		json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error != "" {
			return nil, fmt.Errorf("%s: %s", errResp.Error, errResp.ErrorDescription)
		}
		return nil, fmt.Errorf("token exchange failed (status %d)", resp.StatusCode)
	}

	var token lineTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	return &token, nil
}

// lineGetProfile fetches the user's profile with a Bearer token.
func (fe *frontendServer) lineGetProfile(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fe.lineAPIBase+"/v2/profile", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := lineHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get profile (status %d)", resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile response: %w", err)
	}
	return &profile, nil
}
