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
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var errLoginStateMismatch = errors.New("login state mismatch, please try again")

const (
	cookieLineToken   = cookiePrefix + "line-token"
	cookieLineUserID  = cookiePrefix + "line-user-id"
	cookieLineName    = cookiePrefix + "line-name"
	cookieLinePicture = cookiePrefix + "line-picture"
	cookieOauthState  = cookiePrefix + "oauth-state"
	cookieLoginNext   = cookiePrefix + "login-next"
	cookieInClient    = cookiePrefix + "in-client"
)

// lineLoginHandler starts the authorization-code flow (GET /login). The
// redirect suspends the session; the provider returns control at /login/callback.
func (fe *frontendServer) lineLoginHandler(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: cookieOauthState, Value: state, MaxAge: 600, Path: "/"})

	next := r.URL.Query().Get("next")
	if next == "" || !strings.HasPrefix(next, "/") {
		next = "/"
	}
	http.SetCookie(w, &http.Cookie{Name: cookieLoginNext, Value: url.QueryEscape(next), MaxAge: 600, Path: "/"})

	w.Header().Set("Location", fe.lineAuthorizeURL(state))
	w.WriteHeader(http.StatusFound)
}

// lineCallbackHandler finishes the login flow (GET /login/callback).
func (fe *frontendServer) lineCallbackHandler(w http.ResponseWriter, r *http.Request) {
	log := r.Context().Value(ctxKeyLog{}).(logrus.FieldLogger)

	stateCookie, err := r.Cookie(cookieOauthState)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		renderHTTPError(log, r, w, errLoginStateMismatch, http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		// User cancelled at the consent screen; go back to the shop.
		log.WithField("error", r.URL.Query().Get("error")).Warn("login cancelled by provider")
		w.Header().Set("Location", baseURL+"/")
		w.WriteHeader(http.StatusFound)
		return
	}

	token, err := fe.lineExchangeCode(r.Context(), code)
	if err != nil {
		renderHTTPError(log, r, w, err, http.StatusBadGateway)
		return
	}
	profile, err := fe.lineGetProfile(r.Context(), token.AccessToken)
	if err != nil {
		renderHTTPError(log, r, w, err, http.StatusBadGateway)
		return
	}

	setIdentityCookies(w, token.AccessToken, profile)
	log.WithField("userId", profile.UserID).Info("user logged in")

	next := baseURL + "/"
	if c, err := r.Cookie(cookieLoginNext); err == nil {
		if v, err := url.QueryUnescape(c.Value); err == nil && strings.HasPrefix(v, "/") {
			next = baseURL + v
		}
	}
	http.SetCookie(w, &http.Cookie{Name: cookieLoginNext, Value: "", MaxAge: -1, Path: "/"})
	w.Header().Set("Location", next)
	w.WriteHeader(http.StatusFound)
}

// lineLogoutHandler clears identity cookies and returns to the shop.
func (fe *frontendServer) lineLogoutHandler(w http.ResponseWriter, r *http.Request) {
	clearIdentityCookies(w)
	w.Header().Set("Location", baseURL+"/")
	w.WriteHeader(http.StatusFound)
}

// refreshProfile re-fetches the profile when the provider says we are
// logged in but the local identity is stale. Best effort: failures are
// logged and the current cookie identity is returned unchanged.
func (fe *frontendServer) refreshProfile(w http.ResponseWriter, r *http.Request) *Profile {
	log := r.Context().Value(ctxKeyLog{}).(logrus.FieldLogger)
	token := lineToken(r)
	if token == "" {
		return currentProfile(r)
	}
	profile, err := fe.lineGetProfile(r.Context(), token)
	if err != nil {
		log.WithField("error", err).Debug("profile refresh failed")
		return currentProfile(r)
	}
	setIdentityCookies(w, token, profile)
	return profile
}

// --- Helper functions ---

func setIdentityCookies(w http.ResponseWriter, token string, profile *Profile) {
	set := func(name, value string) {
		http.SetCookie(w, &http.Cookie{Name: name, Value: value, MaxAge: cookieMaxAge, Path: "/"})
	}
	set(cookieLineToken, token)
	set(cookieLineUserID, url.QueryEscape(profile.UserID))
	set(cookieLineName, url.QueryEscape(profile.DisplayName))
	set(cookieLinePicture, url.QueryEscape(profile.PictureURL))
}

func clearIdentityCookies(w http.ResponseWriter) {
	for _, name := range []string{cookieLineToken, cookieLineUserID, cookieLineName, cookieLinePicture} {
		http.SetCookie(w, &http.Cookie{Name: name, Value: "", MaxAge: -1, Path: "/"})
	}
}

func lineToken(r *http.Request) string {
	c, err := r.Cookie(cookieLineToken)
	if err != nil {
		return ""
	}
	return c.Value
}

func isLoggedIn(r *http.Request) bool {
	return lineToken(r) != ""
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	v, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return v
}

// currentProfile reads the identity cookies, falling back to the Guest
// sentinel when the user has not completed a login.
func currentProfile(r *http.Request) *Profile {
	userID := cookieValue(r, cookieLineUserID)
	if userID == "" || !isLoggedIn(r) {
		return &Profile{UserID: guestUserID}
	}
	return &Profile{
		UserID:      userID,
		DisplayName: cookieValue(r, cookieLineName),
		PictureURL:  cookieValue(r, cookieLinePicture),
	}
}

// isInClient reports whether the request comes from the embedded LINE
// client rather than a standalone browser. The client marks its first
// request with liff=1 (remembered in a cookie by the middleware) and its
// in-app browser carries a "Line/" User-Agent token.
func isInClient(r *http.Request) bool {
	if r.URL.Query().Get("liff") == "1" {
		return true
	}
	if c, err := r.Cookie(cookieInClient); err == nil && c.Value == "1" {
		return true
	}
	return strings.Contains(r.UserAgent(), "Line/")
}
