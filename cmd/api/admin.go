package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"dormbase/internal/cache"
	"dormbase/internal/domain/dorms"
	"dormbase/internal/domain/moderation"
	"dormbase/internal/domain/reviews"
	"dormbase/internal/domain/stats"
	"dormbase/internal/params"

	"github.com/go-chi/chi/v5"
)

// adminListReviewsHandler godoc
//
//	@Summary	List reviews by moderation status
//	@Tags		admin
//	@Produce	json
//	@Param		status	query	string	false	"pending, approved or declined (default pending)"
//	@Param		limit	query	int		false	"Page size"
//	@Param		page	query	int		false	"Page number"
//	@Success	200		{array}	reviews.Review
//	@Security	ApiKeyAuth
//	@Router		/api/admin/reviews [get]
func (app *application) adminListReviewsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	status := moderation.StatusPending
	if raw := q.Get("status"); raw != "" {
		status = moderation.Status(raw)
		if !status.Valid() {
			app.badRequestResponse(w, r, errors.New("status must be pending, approved or declined"))
			return
		}
	}

	p := params.ParsePagination(q)

	list, err := app.store.Reviews.List(r.Context(), reviews.Filter{
		Status: &status,
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// approveReviewHandler godoc
//
//	@Summary	Approve a review
//	@Tags		admin
//	@Produce	json
//	@Param		reviewID	path	int	true	"Review ID"
//	@Success	200
//	@Failure	404	{object}	error
//	@Security	ApiKeyAuth
//	@Router		/api/admin/reviews/{reviewID}/approve [patch]
func (app *application) approveReviewHandler(w http.ResponseWriter, r *http.Request) {
	app.setReviewStatus(w, r, moderation.StatusApproved)
}

// declineReviewHandler godoc
//
//	@Summary	Decline a review
//	@Tags		admin
//	@Produce	json
//	@Param		reviewID	path	int	true	"Review ID"
//	@Success	200
//	@Failure	404	{object}	error
//	@Security	ApiKeyAuth
//	@Router		/api/admin/reviews/{reviewID}/decline [patch]
func (app *application) declineReviewHandler(w http.ResponseWriter, r *http.Request) {
	app.setReviewStatus(w, r, moderation.StatusDeclined)
}

// setReviewStatus is deliberately last-write-wins: re-moderating an already
// decided review just overwrites the decision.
func (app *application) setReviewStatus(w http.ResponseWriter, r *http.Request, status moderation.Status) {
	id, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	admin := getUserFromContext(r)

	if err := app.store.Reviews.SetStatus(r.Context(), id, status, admin.Email); err != nil {
		switch {
		case errors.Is(err, reviews.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"status": string(status)}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// approveReviewEditHandler publishes a staged edit, replacing the live
// fields with the snapshot.
//
//	@Summary	Approve a pending review edit
//	@Tags		admin
//	@Produce	json
//	@Param		reviewID	path	int	true	"Review ID"
//	@Success	200
//	@Failure	400	{object}	error
//	@Failure	404	{object}	error
//	@Security	ApiKeyAuth
//	@Router		/api/admin/reviews/{reviewID}/edit/approve [patch]
func (app *application) approveReviewEditHandler(w http.ResponseWriter, r *http.Request) {
	app.decideReviewEdit(w, r, app.store.Reviews.ApprovePendingEdit)
}

// declineReviewEditHandler discards a staged edit; the live review is
// untouched.
//
//	@Summary	Decline a pending review edit
//	@Tags		admin
//	@Produce	json
//	@Param		reviewID	path	int	true	"Review ID"
//	@Success	200
//	@Failure	400	{object}	error
//	@Failure	404	{object}	error
//	@Security	ApiKeyAuth
//	@Router		/api/admin/reviews/{reviewID}/edit/decline [patch]
func (app *application) declineReviewEditHandler(w http.ResponseWriter, r *http.Request) {
	app.decideReviewEdit(w, r, app.store.Reviews.DeclinePendingEdit)
}

func (app *application) decideReviewEdit(w http.ResponseWriter, r *http.Request, decide func(ctx context.Context, id int64) error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := decide(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, reviews.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, reviews.ErrNoPendingEdit):
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

	if err := app.jsonResponse(w, http.StatusOK, review); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteReviewHandler godoc
//
//	@Summary	Delete a review permanently
//	@Tags		admin
//	@Produce	json
//	@Param		reviewID	path	int	true	"Review ID"
//	@Success	204
//	@Failure	404	{object}	error
//	@Security	ApiKeyAuth
//	@Router		/api/admin/reviews/{reviewID} [delete]
func (app *application) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Reviews.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, reviews.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// adminListDormsHandler godoc
//
//	@Summary	List dorm submissions by moderation status
//	@Tags		admin
//	@Produce	json
//	@Param		status	query	string	false	"pending, approved or declined (default pending)"
//	@Param		limit	query	int		false	"Page size"
//	@Param		page	query	int		false	"Page number"
//	@Success	200		{array}	dorms.Dorm
//	@Security	ApiKeyAuth
//	@Router		/api/admin/dorms [get]
func (app *application) adminListDormsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	status := moderation.StatusPending
	if raw := q.Get("status"); raw != "" {
		status = moderation.Status(raw)
		if !status.Valid() {
			app.badRequestResponse(w, r, errors.New("status must be pending, approved or declined"))
			return
		}
	}

	p := params.ParsePagination(q)

	list, err := app.store.Dorms.List(r.Context(), dorms.Filter{
		Status: &status,
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// approveDormHandler godoc
//
//	@Summary	Approve a dorm submission
//	@Tags		admin
//	@Produce	json
//	@Param		dormID	path	int	true	"Dorm ID"
//	@Success	200
//	@Failure	404	{object}	error
//	@Security	ApiKeyAuth
//	@Router		/api/admin/dorms/{dormID}/approve [patch]
func (app *application) approveDormHandler(w http.ResponseWriter, r *http.Request) {
	app.setDormStatus(w, r, moderation.StatusApproved)
}

// declineDormHandler godoc
//
//	@Summary	Decline a dorm submission
//	@Tags		admin
//	@Produce	json
//	@Param		dormID	path	int	true	"Dorm ID"
//	@Success	200
//	@Failure	404	{object}	error
//	@Security	ApiKeyAuth
//	@Router		/api/admin/dorms/{dormID}/decline [patch]
func (app *application) declineDormHandler(w http.ResponseWriter, r *http.Request) {
	app.setDormStatus(w, r, moderation.StatusDeclined)
}

func (app *application) setDormStatus(w http.ResponseWriter, r *http.Request, status moderation.Status) {
	id, err := strconv.ParseInt(chi.URLParam(r, "dormID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	admin := getUserFromContext(r)

	if err := app.store.Dorms.SetStatus(r.Context(), id, status, admin.Email); err != nil {
		switch {
		case errors.Is(err, dorms.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"status": string(status)}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteDormHandler godoc
//
//	@Summary	Delete a dorm permanently
//	@Tags		admin
//	@Produce	json
//	@Param		dormID	path	int	true	"Dorm ID"
//	@Success	204
//	@Failure	404	{object}	error
//	@Security	ApiKeyAuth
//	@Router		/api/admin/dorms/{dormID} [delete]
func (app *application) deleteDormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "dormID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Dorms.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, dorms.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// adminStatsHandler serves the dashboard overview, cached for a few minutes
// since the counts feed a dashboard, not an invoice.
//
//	@Summary	Platform overview counters
//	@Tags		admin
//	@Produce	json
//	@Success	200	{object}	stats.Overview
//	@Security	ApiKeyAuth
//	@Router		/api/admin/stats [get]
func (app *application) adminStatsHandler(w http.ResponseWriter, r *http.Request) {
	const key = "admin:stats"

	var cached stats.Overview
	if err := app.cache.Get(r.Context(), key, &cached); err == nil {
		if err := app.jsonResponse(w, http.StatusOK, cached); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		app.logger.Warnw("stats cache read failed", "error", err)
	}

	overview, err := app.store.Stats.GetOverview(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.cache.Set(r.Context(), key, overview, cache.StatsTTL); err != nil {
		app.logger.Warnw("stats cache write failed", "error", err)
	}

	if err := app.jsonResponse(w, http.StatusOK, overview); err != nil {
		app.internalServerError(w, r, err)
	}
}

// topStatsHandler serves the public homepage aggregates.
//
//	@Summary	Top-rated universities and dorms
//	@Tags		stats
//	@Produce	json
//	@Param		limit	query		int	false	"How many entries per list (default 10, max 50)"
//	@Success	200		{object}	stats.TopStats
//	@Router		/api/stats/top [get]
func (app *application) topStatsHandler(w http.ResponseWriter, r *http.Request) {
	n := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			app.badRequestResponse(w, r, errors.New("limit must be a positive integer"))
			return
		}
		if parsed > 50 {
			parsed = 50
		}
		n = parsed
	}

	key := fmt.Sprintf("stats:top:%d", n)

	var cached stats.TopStats
	if err := app.cache.Get(r.Context(), key, &cached); err == nil {
		if err := app.jsonResponse(w, http.StatusOK, cached); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		app.logger.Warnw("stats cache read failed", "error", err)
	}

	var (
		top stats.TopStats
		err error
	)

	if top.TopUniversities, err = app.store.Stats.TopUniversities(r.Context(), n); err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if top.TopDorms, err = app.store.Stats.TopDorms(r.Context(), n); err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if top.MostReviewed, err = app.store.Stats.MostReviewedDorms(r.Context(), n); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.cache.Set(r.Context(), key, top, cache.StatsTTL); err != nil {
		app.logger.Warnw("stats cache write failed", "error", err)
	}

	if err := app.jsonResponse(w, http.StatusOK, top); err != nil {
		app.internalServerError(w, r, err)
	}
}
