package main

import (
	"errors"
	"net/http"

	"dormbase/internal/domain/universities"

	"github.com/go-chi/chi/v5"
)

// listUniversitiesHandler godoc
//
//	@Summary	List all universities
//	@Tags		universities
//	@Produce	json
//	@Success	200	{array}	universities.University
//	@Router		/api/universities [get]
func (app *application) listUniversitiesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Universities.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getUniversityHandler godoc
//
//	@Summary	Get one university by slug
//	@Tags		universities
//	@Produce	json
//	@Param		slug	path		string	true	"University slug"
//	@Success	200		{object}	universities.University
//	@Failure	404		{object}	error
//	@Router		/api/universities/{slug} [get]
func (app *application) getUniversityHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	uni, err := app.store.Universities.GetBySlug(r.Context(), slug)
	if err != nil {
		switch {
		case errors.Is(err, universities.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, uni); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listUniversityDormsHandler godoc
//
//	@Summary	List approved dorms at a university
//	@Tags		universities
//	@Produce	json
//	@Param		slug	path	string	true	"University slug"
//	@Success	200		{array}	dorms.Dorm
//	@Failure	404		{object}	error
//	@Router		/api/universities/{slug}/dorms [get]
func (app *application) listUniversityDormsHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if _, err := app.store.Universities.GetBySlug(r.Context(), slug); err != nil {
		switch {
		case errors.Is(err, universities.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	list, err := app.store.Dorms.ListByUniversity(r.Context(), slug, true)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}
