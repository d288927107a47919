package reviews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dormbase/internal/domain/moderation"
)

var (
	ErrNotFound      = errors.New("review not found")
	ErrNotOwner      = errors.New("review is owned by another user")
	ErrNotEditable   = errors.New("only approved reviews accept edits")
	ErrNoPendingEdit = errors.New("review has no pending edit")
)

// Review references its university and dorm by free-text name, matching the
// public query contract (?university=&dorm=). The overall rating is always
// derived from the five sub-ratings, never stored.
type Review struct {
	ID          int64       `json:"id"`
	University  string      `json:"university"`
	Dorm        string      `json:"dorm"`
	Room        int         `json:"room"`
	Bathroom    int         `json:"bathroom"`
	Building    int         `json:"building"`
	Amenities   int         `json:"amenities"`
	Location    int         `json:"location"`
	Description string      `json:"description"`
	Years       FlexInts    `json:"year"`
	RoomTypes   FlexStrings `json:"roomType"`

	WouldDormAgain bool     `json:"wouldDormAgain"`
	Images         []string `json:"images,omitempty"`
	FileImage      string   `json:"fileImage,omitempty"` // legacy single-image field

	UserEmail string            `json:"user"`
	Verified  bool              `json:"verified"`
	Status    moderation.Status `json:"status"`

	Upvotes   []string `json:"upvotes"`
	Downvotes []string `json:"downvotes"`

	PendingEdit *EditSnapshot `json:"pendingEdit,omitempty"`

	// Derived, populated by Finalize.
	OverallRating float64 `json:"overallRating"`
	Score         int     `json:"score"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EditSnapshot is the shadow copy of a review's editable fields awaiting
// admin approval. The live fields stay authoritative until then.
type EditSnapshot struct {
	Room           int         `json:"room"`
	Bathroom       int         `json:"bathroom"`
	Building       int         `json:"building"`
	Amenities      int         `json:"amenities"`
	Location       int         `json:"location"`
	Description    string      `json:"description"`
	Years          FlexInts    `json:"year"`
	RoomTypes      FlexStrings `json:"roomType"`
	WouldDormAgain bool        `json:"wouldDormAgain"`
	Images         []string    `json:"images,omitempty"`
}

// Overall is the arithmetic mean of the five sub-ratings.
func (r *Review) Overall() float64 {
	return float64(r.Room+r.Bathroom+r.Building+r.Amenities+r.Location) / 5.0
}

// Finalize fills the derived fields after a scan.
func (r *Review) Finalize() {
	r.OverallRating = r.Overall()
	r.Score = Score(r.Upvotes, r.Downvotes)
}

// ApplySnapshot overwrites the live editable fields with the snapshot.
func (r *Review) ApplySnapshot(s *EditSnapshot) {
	r.Room = s.Room
	r.Bathroom = s.Bathroom
	r.Building = s.Building
	r.Amenities = s.Amenities
	r.Location = s.Location
	r.Description = s.Description
	r.Years = s.Years
	r.RoomTypes = s.RoomTypes
	r.WouldDormAgain = s.WouldDormAgain
	if len(s.Images) > 0 {
		r.Images = s.Images
	}
}

// AccountView is what the owner sees: the pending edit rendered in place of
// the live fields, with the shadow kept so the UI can flag it.
func (r Review) AccountView() Review {
	if r.PendingEdit != nil {
		r.ApplySnapshot(r.PendingEdit)
		r.Finalize()
	}
	return r
}

// FlexInts accepts either a single integer or an array — some historical
// clients send `year: 2023`, newer ones `year: [2022, 2023]`.
type FlexInts []int

func (f *FlexInts) UnmarshalJSON(data []byte) error {
	var many []int
	if err := json.Unmarshal(data, &many); err == nil {
		*f = many
		return nil
	}
	var one int
	if err := json.Unmarshal(data, &one); err == nil {
		*f = []int{one}
		return nil
	}
	return fmt.Errorf("expected integer or array of integers, got %s", data)
}

// FlexStrings is the string counterpart of FlexInts, for roomType.
type FlexStrings []string

func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*f = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*f = []string{one}
		return nil
	}
	return fmt.Errorf("expected string or array of strings, got %s", data)
}

type Filter struct {
	University string
	Dorm       string
	Status     *moderation.Status
	Limit      int
	Offset     int
}

type Store interface {
	Create(ctx context.Context, r *Review) error
	GetByID(ctx context.Context, id int64) (*Review, error)
	List(ctx context.Context, filter Filter) ([]Review, error)
	ListByUser(ctx context.Context, email string) ([]Review, error)
	SetStatus(ctx context.Context, id int64, status moderation.Status, decidedBy string) error
	SavePendingEdit(ctx context.Context, id int64, ownerEmail string, snapshot *EditSnapshot) error
	ApprovePendingEdit(ctx context.Context, id int64) error
	DeclinePendingEdit(ctx context.Context, id int64) error
	UpdateVotes(ctx context.Context, id int64, upvotes, downvotes []string) error
	Delete(ctx context.Context, id int64) error
}
