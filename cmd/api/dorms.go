package main

import (
	"errors"
	"net/http"

	"dormbase/internal/auth"
	"dormbase/internal/domain/dorms"
	"dormbase/internal/domain/moderation"
	"dormbase/internal/domain/reviews"
	"dormbase/internal/domain/universities"
	"dormbase/internal/slug"

	"github.com/go-chi/chi/v5"
)

type CreateDormPayload struct {
	UniversitySlug string   `json:"universitySlug" validate:"required,max=120"`
	Name           string   `json:"name" validate:"required,max=120"`
	Description    string   `json:"description" validate:"omitempty,max=2000"`
	Images         []string `json:"images" validate:"omitempty,max=5"`
	Amenities      []string `json:"amenities" validate:"omitempty,max=30,dive,max=60"`
	RoomTypes      []string `json:"roomTypes" validate:"omitempty,max=10,dive,max=60"`
}

// createDormHandler accepts a user-submitted dorm. Submissions always start
// pending and are invisible to public listings until an admin approves.
//
//	@Summary	Submit a new dorm
//	@Tags		dorms
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		CreateDormPayload	true	"Dorm details"
//	@Success	201		{object}	dorms.Dorm
//	@Failure	400		{object}	error
//	@Failure	404		{object}	error
//	@Security	ApiKeyAuth
//	@Router		/api/dorms [post]
func (app *application) createDormHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateDormPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	if _, err := app.store.Universities.GetBySlug(r.Context(), payload.UniversitySlug); err != nil {
		switch {
		case errors.Is(err, universities.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	dormSlug := slug.Make(payload.Name)
	if dormSlug == "" {
		app.badRequestResponse(w, r, errors.New("name must contain at least one letter or digit"))
		return
	}

	images, err := app.resolveImages(r.Context(), payload.Images)
	if err != nil {
		app.mediaErrorResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	dorm := &dorms.Dorm{
		UniversitySlug: payload.UniversitySlug,
		Name:           payload.Name,
		Slug:           dormSlug,
		Description:    payload.Description,
		Images:         images,
		Amenities:      payload.Amenities,
		RoomTypes:      payload.RoomTypes,
		Status:         moderation.StatusPending,
		SubmittedBy:    user.Email,
	}
	if len(images) > 0 {
		dorm.ImageURL = images[0]
	}

	if err := app.store.Dorms.Create(r.Context(), dorm); err != nil {
		switch {
		case errors.Is(err, dorms.ErrDuplicate):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, dorm); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getDormHandler godoc
//
//	@Summary	Get one dorm
//	@Tags		dorms
//	@Produce	json
//	@Param		universitySlug	path		string	true	"University slug"
//	@Param		slug			path		string	true	"Dorm slug"
//	@Success	200				{object}	DormDetail
//	@Failure	404				{object}	error
//	@Router		/api/dorms/{universitySlug}/{slug} [get]
func (app *application) getDormHandler(w http.ResponseWriter, r *http.Request) {
	universitySlug := chi.URLParam(r, "universitySlug")
	dormSlug := chi.URLParam(r, "slug")

	dorm, err := app.store.Dorms.GetBySlug(r.Context(), universitySlug, dormSlug)
	if err != nil {
		switch {
		case errors.Is(err, dorms.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	// Unapproved dorms exist only for their submitter and admins.
	if dorm.Status != moderation.StatusApproved {
		user := getUserFromContext(r)
		if user == nil || (user.Email != dorm.SubmittedBy && user.Role != auth.RoleAdmin) {
			app.notFoundResponse(w, r, dorms.ErrNotFound)
			return
		}
	}

	// Reviews reference universities and dorms by display name.
	uni, err := app.store.Universities.GetBySlug(r.Context(), universitySlug)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	approved := moderation.StatusApproved
	dormReviews, err := app.store.Reviews.List(r.Context(), reviews.Filter{
		University: uni.Name,
		Dorm:       dorm.Name,
		Status:     &approved,
	})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	detail := DormDetail{Dorm: dorm, Reviews: dormReviews, ReviewCount: len(dormReviews)}
	for i := range dormReviews {
		detail.AvgRating += dormReviews[i].OverallRating
	}
	if detail.ReviewCount > 0 {
		detail.AvgRating /= float64(detail.ReviewCount)
	}

	if err := app.jsonResponse(w, http.StatusOK, detail); err != nil {
		app.internalServerError(w, r, err)
	}
}

// DormDetail bundles a dorm with its approved reviews and their aggregate.
type DormDetail struct {
	Dorm        *dorms.Dorm      `json:"dorm"`
	Reviews     []reviews.Review `json:"reviews"`
	ReviewCount int              `json:"reviewCount"`
	AvgRating   float64          `json:"avgRating"`
}
