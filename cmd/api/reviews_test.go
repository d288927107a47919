package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dormbase/internal/domain/moderation"
	"dormbase/internal/domain/reviews"
	"dormbase/internal/domain/storage"

	"go.uber.org/zap"
)

// fakeReviewStore records what the handlers persist.
type fakeReviewStore struct {
	reviews.Store
	created []*reviews.Review
}

func (f *fakeReviewStore) Create(ctx context.Context, r *reviews.Review) error {
	r.ID = int64(len(f.created) + 1)
	f.created = append(f.created, r)
	return nil
}

func newReviewTestApp(store *fakeReviewStore) *application {
	return &application{
		logger: zap.NewNop().Sugar(),
		store:  &storage.Container{Reviews: store},
	}
}

const validReviewBody = `{
	"university": "Stanford University",
	"dorm": "Founders Hall",
	"room": 4, "bathroom": 3, "building": 5, "amenities": 4, "location": 5,
	"description": "Spacious rooms and quiet floors, laundry is always busy.",
	"year": [2024],
	"roomType": "Double",
	"wouldDormAgain": true
}`

func TestCreateReviewStartsPending(t *testing.T) {
	store := &fakeReviewStore{}
	app := newReviewTestApp(store)

	req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(validReviewBody))
	resp := httptest.NewRecorder()
	app.createReviewHandler(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if len(store.created) != 1 {
		t.Fatalf("expected one persisted review, got %d", len(store.created))
	}
	if got := store.created[0].Status; got != moderation.StatusPending {
		t.Fatalf("new review persisted with status %q, want %q", got, moderation.StatusPending)
	}
}

func TestCreateReviewAnonymousIsUnverified(t *testing.T) {
	store := &fakeReviewStore{}
	app := newReviewTestApp(store)

	req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(validReviewBody))
	resp := httptest.NewRecorder()
	app.createReviewHandler(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	if store.created[0].Verified || store.created[0].UserEmail != "" {
		t.Fatalf("anonymous review must be unverified and unowned, got verified=%v user=%q",
			store.created[0].Verified, store.created[0].UserEmail)
	}
}

func TestCreateReviewSignedInIsVerified(t *testing.T) {
	store := &fakeReviewStore{}
	app := newReviewTestApp(store)

	req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(validReviewBody))
	req = req.WithContext(context.WithValue(req.Context(), userCtx, &authUser{ID: 7, Email: "student@campus.edu", Role: "user"}))
	resp := httptest.NewRecorder()
	app.createReviewHandler(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	if !store.created[0].Verified || store.created[0].UserEmail != "student@campus.edu" {
		t.Fatalf("signed-in review must be verified and owned, got verified=%v user=%q",
			store.created[0].Verified, store.created[0].UserEmail)
	}
}

func TestCreateReviewRejectsShortDescription(t *testing.T) {
	store := &fakeReviewStore{}
	app := newReviewTestApp(store)

	body := strings.Replace(validReviewBody,
		"Spacious rooms and quiet floors, laundry is always busy.", "meh", 1)

	req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(body))
	resp := httptest.NewRecorder()
	app.createReviewHandler(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a 3-character description, got %d", resp.Code)
	}
	if len(store.created) != 0 {
		t.Fatalf("short-description review must not be persisted")
	}
}
