package main

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dormbase/internal/auth"
	"dormbase/internal/domain/users"
	"dormbase/internal/mailer"
)

type RegisterUserPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	Name     string `json:"name" validate:"omitempty,max=100"`
}

type TokenResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// registerUserHandler godoc
//
//	@Summary		Register a new account
//	@Description	Creates a password account and returns a signed token
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		RegisterUserPayload	true	"Credentials"
//	@Success		201		{object}	TokenResponse
//	@Failure		400		{object}	error
//	@Router			/register [post]
func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var payload RegisterUserPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	user := &users.User{
		Email: email,
		Name:  payload.Name,
		Role:  auth.EffectiveRole(auth.RoleUser, email, app.config.adminEmails),
	}
	if err := user.Password.Set(payload.Password); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Users.Create(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, users.ErrDuplicateEmail):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.issueToken(w, r, user, http.StatusCreated)
}

type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// loginHandler godoc
//
//	@Summary		Log in with email and password
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		LoginPayload	true	"Credentials"
//	@Success		200		{object}	TokenResponse
//	@Failure		400		{object}	error
//	@Router			/login [post]
func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	user, err := app.store.Users.GetByEmail(r.Context(), email)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrNotFound):
			// Do not reveal whether the account exists.
			app.badRequestResponse(w, r, errors.New("invalid credentials"))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := user.Password.Compare(payload.Password); err != nil {
		app.badRequestResponse(w, r, errors.New("invalid credentials"))
		return
	}

	app.issueToken(w, r, user, http.StatusOK)
}

type SendCodePayload struct {
	Email string `json:"email" validate:"required,email"`
}

const verificationCodeExpiry = 10 * time.Minute

// sendCodeHandler emails a one-time login code. It answers 200 whether or
// not the email is already registered, so it cannot be used to probe
// for accounts.
//
//	@Summary	Send a one-time login code
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		payload	body	SendCodePayload	true	"Destination email"
//	@Success	200
//	@Failure	400	{object}	error
//	@Router		/auth/send-code [post]
func (app *application) sendCodeHandler(w http.ResponseWriter, r *http.Request) {
	var payload SendCodePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	code, err := generateCode()
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	expires := time.Now().Add(verificationCodeExpiry)
	if err := app.store.Users.SetVerificationCode(r.Context(), email, code, expires); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	data := struct {
		Username  string
		Code      string
		ExpiresIn string
	}{
		Username:  email,
		Code:      code,
		ExpiresIn: "10 minutes",
	}

	status, err := app.mailer.Send(mailer.VerificationCodeTemplate, email, email, data)
	if err != nil {
		app.logger.Errorw("error sending verification code", "error", err)
		app.internalServerError(w, r, err)
		return
	}
	app.logger.Infow("verification code sent", "email", email, "statusCode", status)

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"message": "code sent"}); err != nil {
		app.internalServerError(w, r, err)
	}
}

type VerifyCodePayload struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// verifyCodeHandler godoc
//
//	@Summary	Redeem a one-time login code for a token
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		VerifyCodePayload	true	"Email and code"
//	@Success	200		{object}	TokenResponse
//	@Failure	400		{object}	error
//	@Router		/auth/verify-code [post]
func (app *application) verifyCodeHandler(w http.ResponseWriter, r *http.Request) {
	var payload VerifyCodePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	user, err := app.store.Users.RedeemVerificationCode(r.Context(), email, payload.Code)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrInvalidCode):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.issueToken(w, r, user, http.StatusOK)
}

type GoogleAuthPayload struct {
	Credential  string `json:"credential"`
	AccessToken string `json:"accessToken"`
}

type googleProfile struct {
	Email   string
	Sub     string
	Name    string
	Picture string
}

// googleAuthHandler accepts either an ID token ("credential", the One Tap
// flow) or an OAuth access token and verifies it against Google before
// creating or refreshing the account.
//
//	@Summary	Log in with Google
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		GoogleAuthPayload	true	"Google credential or access token"
//	@Success	200		{object}	TokenResponse
//	@Failure	400		{object}	error
//	@Router		/auth/google [post]
func (app *application) googleAuthHandler(w http.ResponseWriter, r *http.Request) {
	var payload GoogleAuthPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var (
		profile *googleProfile
		err     error
	)
	switch {
	case payload.Credential != "":
		profile, err = app.verifyGoogleIDToken(r.Context(), payload.Credential)
	case payload.AccessToken != "":
		profile, err = app.fetchGoogleUserinfo(r.Context(), payload.AccessToken)
	default:
		app.badRequestResponse(w, r, errors.New("credential or accessToken is required"))
		return
	}
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	email := strings.ToLower(profile.Email)

	user := &users.User{
		Email:    email,
		GoogleID: profile.Sub,
		Name:     profile.Name,
		Picture:  profile.Picture,
		Role:     auth.RoleUser,
	}
	if err := app.store.Users.UpsertGoogle(r.Context(), user); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.issueToken(w, r, user, http.StatusOK)
}

func (app *application) verifyGoogleIDToken(ctx context.Context, credential string) (*googleProfile, error) {
	u := "https://oauth2.googleapis.com/tokeninfo?id_token=" + url.QueryEscape(credential)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google token verification failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.New("invalid google credential")
	}

	var info struct {
		Aud     string `json:"aud"`
		Email   string `json:"email"`
		Sub     string `json:"sub"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(&info); err != nil {
		return nil, err
	}

	if app.config.google.clientID != "" && info.Aud != app.config.google.clientID {
		return nil, errors.New("google credential was issued for a different client")
	}
	if info.Email == "" {
		return nil, errors.New("google credential carries no email")
	}

	return &googleProfile{Email: info.Email, Sub: info.Sub, Name: info.Name, Picture: info.Picture}, nil
}

func (app *application) fetchGoogleUserinfo(ctx context.Context, accessToken string) (*googleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://www.googleapis.com/oauth2/v2/userinfo", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google userinfo request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.New("invalid google access token")
	}

	var info struct {
		Email   string `json:"email"`
		ID      string `json:"id"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(&info); err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, errors.New("google access token carries no email")
	}

	return &googleProfile{Email: info.Email, Sub: info.ID, Name: info.Name, Picture: info.Picture}, nil
}

func (app *application) issueToken(w http.ResponseWriter, r *http.Request, user *users.User, status int) {
	role := auth.EffectiveRole(user.Role, user.Email, app.config.adminEmails)

	token, err := app.authenticator.GenerateToken(user.ID, user.Email, role)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, status, TokenResponse{Token: token, Email: user.Email, Role: role}); err != nil {
		app.internalServerError(w, r, err)
	}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
