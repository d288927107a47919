package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dormbase/internal/domain/dorms"
	"dormbase/internal/domain/moderation"
	"dormbase/internal/domain/storage"
	"dormbase/internal/domain/universities"

	"go.uber.org/zap"
)

type fakeUniversityStore struct {
	universities.Store
}

func (f *fakeUniversityStore) GetBySlug(ctx context.Context, slug string) (*universities.University, error) {
	if slug != "stanford-university" {
		return nil, universities.ErrNotFound
	}
	return &universities.University{ID: 1, Name: "Stanford University", Slug: slug}, nil
}

type fakeDormStore struct {
	dorms.Store
	created []*dorms.Dorm
}

func (f *fakeDormStore) Create(ctx context.Context, d *dorms.Dorm) error {
	d.ID = int64(len(f.created) + 1)
	f.created = append(f.created, d)
	return nil
}

func newDormTestRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/dorms", strings.NewReader(body))
	return req.WithContext(context.WithValue(req.Context(), userCtx,
		&authUser{ID: 7, Email: "student@campus.edu", Role: "user"}))
}

func TestCreateDormStartsPending(t *testing.T) {
	store := &fakeDormStore{}
	app := &application{
		logger: zap.NewNop().Sugar(),
		store:  &storage.Container{Universities: &fakeUniversityStore{}, Dorms: store},
	}

	req := newDormTestRequest(`{"universitySlug": "stanford-university", "name": "Founders Hall"}`)
	resp := httptest.NewRecorder()
	app.createDormHandler(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if len(store.created) != 1 {
		t.Fatalf("expected one persisted dorm, got %d", len(store.created))
	}
	d := store.created[0]
	if d.Status != moderation.StatusPending {
		t.Fatalf("submitted dorm persisted with status %q, want %q", d.Status, moderation.StatusPending)
	}
	if d.Slug != "founders-hall" {
		t.Fatalf("slug = %q, want %q", d.Slug, "founders-hall")
	}
	if d.SubmittedBy != "student@campus.edu" {
		t.Fatalf("submittedBy = %q, want the caller's email", d.SubmittedBy)
	}
}

// A name with no letters or digits would slugify to "", colliding with
// every other such name on the (universitySlug, slug) key.
func TestCreateDormRejectsUnslugifiableName(t *testing.T) {
	store := &fakeDormStore{}
	app := &application{
		logger: zap.NewNop().Sugar(),
		store:  &storage.Container{Universities: &fakeUniversityStore{}, Dorms: store},
	}

	req := newDormTestRequest(`{"universitySlug": "stanford-university", "name": "!!!"}`)
	resp := httptest.NewRecorder()
	app.createDormHandler(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a punctuation-only name, got %d", resp.Code)
	}
	if len(store.created) != 0 {
		t.Fatalf("unslugifiable dorm must not be persisted")
	}
}

func TestCreateDormUnknownUniversity(t *testing.T) {
	app := &application{
		logger: zap.NewNop().Sugar(),
		store:  &storage.Container{Universities: &fakeUniversityStore{}, Dorms: &fakeDormStore{}},
	}

	req := newDormTestRequest(`{"universitySlug": "nowhere-university", "name": "Founders Hall"}`)
	resp := httptest.NewRecorder()
	app.createDormHandler(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown university, got %d", resp.Code)
	}
}
