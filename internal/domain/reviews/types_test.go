package reviews

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestOverallIsMeanOfSubRatings(t *testing.T) {
	tests := []struct {
		name    string
		ratings [5]int
		want    float64
	}{
		{"all fives", [5]int{5, 5, 5, 5, 5}, 5.0},
		{"ascending", [5]int{1, 2, 3, 4, 5}, 3.0},
		{"all fours", [5]int{4, 4, 4, 4, 4}, 4.0},
		{"mixed", [5]int{2, 3, 2, 3, 2}, 2.4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := Review{
				Room:      tc.ratings[0],
				Bathroom:  tc.ratings[1],
				Building:  tc.ratings[2],
				Amenities: tc.ratings[3],
				Location:  tc.ratings[4],
			}
			if got := r.Overall(); got != tc.want {
				t.Errorf("Overall() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFinalizePopulatesDerivedFields(t *testing.T) {
	r := Review{
		Room: 5, Bathroom: 5, Building: 5, Amenities: 5, Location: 5,
		Upvotes:   []string{"a@x.com", "b@x.com"},
		Downvotes: []string{"c@x.com"},
	}
	r.Finalize()
	if r.OverallRating != 5.0 {
		t.Errorf("OverallRating = %v, want 5.0", r.OverallRating)
	}
	if r.Score != 1 {
		t.Errorf("Score = %d, want 1", r.Score)
	}
}

func TestFlexIntsUnmarshal(t *testing.T) {
	var f FlexInts
	if err := json.Unmarshal([]byte(`2023`), &f); err != nil {
		t.Fatalf("scalar: %v", err)
	}
	if !reflect.DeepEqual([]int(f), []int{2023}) {
		t.Errorf("scalar = %v, want [2023]", f)
	}

	if err := json.Unmarshal([]byte(`[2022, 2023]`), &f); err != nil {
		t.Fatalf("array: %v", err)
	}
	if !reflect.DeepEqual([]int(f), []int{2022, 2023}) {
		t.Errorf("array = %v, want [2022 2023]", f)
	}

	if err := json.Unmarshal([]byte(`"2023"`), &f); err == nil {
		t.Error("expected error for string input")
	}
}

func TestFlexStringsUnmarshal(t *testing.T) {
	var f FlexStrings
	if err := json.Unmarshal([]byte(`"Double"`), &f); err != nil {
		t.Fatalf("scalar: %v", err)
	}
	if !reflect.DeepEqual([]string(f), []string{"Double"}) {
		t.Errorf("scalar = %v, want [Double]", f)
	}

	if err := json.Unmarshal([]byte(`["Single", "Double"]`), &f); err != nil {
		t.Fatalf("array: %v", err)
	}
	if !reflect.DeepEqual([]string(f), []string{"Single", "Double"}) {
		t.Errorf("array = %v, want [Single Double]", f)
	}

	if err := json.Unmarshal([]byte(`12`), &f); err == nil {
		t.Error("expected error for numeric input")
	}
}

func TestAccountViewRendersPendingEdit(t *testing.T) {
	live := Review{
		Room: 4, Bathroom: 4, Building: 4, Amenities: 4, Location: 4,
		Description: "original description here",
		Images:      []string{"https://cdn.example.com/a.jpg"},
	}
	live.PendingEdit = &EditSnapshot{
		Room: 2, Bathroom: 2, Building: 2, Amenities: 2, Location: 2,
		Description: "edited description, much worse",
	}

	view := live.AccountView()

	if view.Description != "edited description, much worse" {
		t.Errorf("view description = %q, want edited text", view.Description)
	}
	if view.OverallRating != 2.0 {
		t.Errorf("view overall = %v, want 2.0", view.OverallRating)
	}
	// Snapshot without images keeps the live ones.
	if !reflect.DeepEqual(view.Images, live.Images) {
		t.Errorf("view images = %v, want live images kept", view.Images)
	}
	if view.PendingEdit == nil {
		t.Error("view should keep the pendingEdit marker")
	}

	// The live value is untouched (AccountView works on a copy).
	if live.Description != "original description here" {
		t.Error("AccountView mutated the live review")
	}
}

func TestAccountViewWithoutEditIsIdentity(t *testing.T) {
	live := Review{Room: 3, Bathroom: 3, Building: 3, Amenities: 3, Location: 3, Description: "as is"}
	view := live.AccountView()
	if view.Description != "as is" || view.PendingEdit != nil {
		t.Errorf("unexpected view %+v", view)
	}
}
