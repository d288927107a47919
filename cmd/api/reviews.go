package main

import (
	"errors"
	"net/http"
	"strconv"

	"dormbase/internal/domain/moderation"
	"dormbase/internal/domain/reviews"

	"github.com/go-chi/chi/v5"
)

type ReviewPayload struct {
	University     string              `json:"university" validate:"required,max=200"`
	Dorm           string              `json:"dorm" validate:"required,max=200"`
	Room           int                 `json:"room" validate:"required,min=1,max=5"`
	Bathroom       int                 `json:"bathroom" validate:"required,min=1,max=5"`
	Building       int                 `json:"building" validate:"required,min=1,max=5"`
	Amenities      int                 `json:"amenities" validate:"required,min=1,max=5"`
	Location       int                 `json:"location" validate:"required,min=1,max=5"`
	Description    string              `json:"description" validate:"required,min=10,max=5000"`
	Years          reviews.FlexInts    `json:"year" validate:"omitempty,dive,min=1900,max=2100"`
	RoomTypes      reviews.FlexStrings `json:"roomType" validate:"omitempty,dive,max=60"`
	WouldDormAgain bool                `json:"wouldDormAgain"`
	Images         []string            `json:"images" validate:"omitempty,max=5"`
	FileImage      string              `json:"fileImage"`
}

// createReviewHandler accepts a review from anyone. Submissions always
// start pending and stay out of public listings until an admin approves.
// A signed-in author gets the verified flag and ownership of the review;
// anonymous submissions are accepted but can never be edited.
//
//	@Summary	Submit a review
//	@Tags		reviews
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		ReviewPayload	true	"Review"
//	@Success	201		{object}	reviews.Review
//	@Failure	400		{object}	error
//	@Router		/api/reviews [post]
func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	var payload ReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	images, err := app.resolveImages(r.Context(), gatherImages(payload))
	if err != nil {
		app.mediaErrorResponse(w, r, err)
		return
	}

	review := &reviews.Review{
		University:     payload.University,
		Dorm:           payload.Dorm,
		Room:           payload.Room,
		Bathroom:       payload.Bathroom,
		Building:       payload.Building,
		Amenities:      payload.Amenities,
		Location:       payload.Location,
		Description:    payload.Description,
		Years:          payload.Years,
		RoomTypes:      payload.RoomTypes,
		WouldDormAgain: payload.WouldDormAgain,
		Images:         images,
		Status:         moderation.StatusPending,
	}

	if user := getUserFromContext(r); user != nil {
		review.UserEmail = user.Email
		review.Verified = true
	}

	if err := app.store.Reviews.Create(r.Context(), review); err != nil {
		app.internalServerError(w, r, err)
		return
	}
	review.Finalize()

	if err := app.jsonResponse(w, http.StatusCreated, review); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listReviewsHandler godoc
//
//	@Summary	List approved reviews
//	@Tags		reviews
//	@Produce	json
//	@Param		university	query	string	false	"Filter by university name"
//	@Param		dorm		query	string	false	"Filter by dorm name"
//	@Success	200			{array}	reviews.Review
//	@Router		/api/reviews [get]
func (app *application) listReviewsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	approved := moderation.StatusApproved
	filter := reviews.Filter{
		University: q.Get("university"),
		Dorm:       q.Get("dorm"),
		Status:     &approved,
	}

	list, err := app.store.Reviews.List(r.Context(), filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listOwnReviewsHandler shows the caller their reviews across all statuses,
// with any pending edit rendered in place of the live fields.
//
//	@Summary	List the caller's own reviews
//	@Tags		reviews
//	@Produce	json
//	@Success	200	{array}	reviews.Review
//	@Security	ApiKeyAuth
//	@Router		/api/reviews/user [get]
func (app *application) listOwnReviewsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	list, err := app.store.Reviews.ListByUser(r.Context(), user.Email)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	views := make([]reviews.Review, 0, len(list))
	for _, rev := range list {
		views = append(views, rev.AccountView())
	}

	if err := app.jsonResponse(w, http.StatusOK, views); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateReviewHandler stages an edit to an approved review. The live review
// stays public and unchanged until an admin approves the edit.
//
//	@Summary	Edit an own review
//	@Tags		reviews
//	@Accept		json
//	@Produce	json
//	@Param		reviewID	path		int				true	"Review ID"
//	@Param		payload		body		ReviewPayload	true	"Updated review"
//	@Success	200			{object}	reviews.Review
//	@Failure	400			{object}	error
//	@Failure	403			{object}	error
//	@Failure	404			{object}	error
//	@Security	ApiKeyAuth
//	@Router		/api/reviews/{reviewID} [put]
func (app *application) updateReviewHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload ReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	images, err := app.resolveImages(r.Context(), gatherImages(payload))
	if err != nil {
		app.mediaErrorResponse(w, r, err)
		return
	}

	snapshot := &reviews.EditSnapshot{
		Room:           payload.Room,
		Bathroom:       payload.Bathroom,
		Building:       payload.Building,
		Amenities:      payload.Amenities,
		Location:       payload.Location,
		Description:    payload.Description,
		Years:          payload.Years,
		RoomTypes:      payload.RoomTypes,
		WouldDormAgain: payload.WouldDormAgain,
		Images:         images,
	}

	user := getUserFromContext(r)

	if err := app.store.Reviews.SavePendingEdit(r.Context(), id, user.Email, snapshot); err != nil {
		switch {
		case errors.Is(err, reviews.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, reviews.ErrNotOwner):
			app.forbiddenResponse(w, r)
		case errors.Is(err, reviews.ErrNotEditable):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	review, err := app.store.Reviews.GetByID(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, review.AccountView()); err != nil {
		app.internalServerError(w, r, err)
	}
}

type VotePayload struct {
	Direction reviews.VoteDirection `json:"direction" validate:"required"`
}

// voteReviewHandler godoc
//
//	@Summary	Upvote or downvote a review
//	@Tags		reviews
//	@Accept		json
//	@Produce	json
//	@Param		reviewID	path		int			true	"Review ID"
//	@Param		payload		body		VotePayload	true	"Vote direction: up or down"
//	@Success	200			{object}	reviews.Review
//	@Failure	400			{object}	error
//	@Failure	404			{object}	error
//	@Security	ApiKeyAuth
//	@Router		/api/reviews/{reviewID}/vote [post]
func (app *application) voteReviewHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload VotePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if !payload.Direction.Valid() {
		app.badRequestResponse(w, r, errors.New("direction must be up or down"))
		return
	}

	review, err := app.store.Reviews.GetByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	user := getUserFromContext(r)

	up, down := reviews.ApplyVote(review.Upvotes, review.Downvotes, user.Email, payload.Direction)
	if err := app.store.Reviews.UpdateVotes(r.Context(), id, up, down); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	review.Upvotes = up
	review.Downvotes = down
	review.Finalize()

	if err := app.jsonResponse(w, http.StatusOK, review); err != nil {
		app.internalServerError(w, r, err)
	}
}

// gatherImages merges the images array with the legacy single fileImage
// field older clients still send.
func gatherImages(p ReviewPayload) []string {
	imgs := p.Images
	if p.FileImage != "" {
		imgs = append(imgs, p.FileImage)
	}
	return imgs
}
