package advisory

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type mockSource struct {
	advisories []Advisory
	crops      []CropHealth
	err        error
}

func (m *mockSource) ListAdvisories(f Filter) ([]Advisory, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []Advisory
	for _, a := range m.advisories {
		if f.Category != "" && a.Category != f.Category {
			continue
		}
		if f.Priority != "" && a.Priority != f.Priority {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *mockSource) Conditions() (Conditions, error) {
	return Conditions{Temperature: "28°C", Humidity: "75%"}, nil
}

func (m *mockSource) ListCropHealth() ([]CropHealth, error) { return m.crops, nil }

func (m *mockSource) ListTips() ([]Tip, error) { return []Tip{{Title: "Timing", Text: "Spray early"}}, nil }

func newMockSource() *mockSource {
	return &mockSource{
		advisories: []Advisory{
			{ID: "1", Category: Weather, Priority: High, Title: "Irrigation Recommendation"},
			{ID: "2", Category: Pest, Priority: Urgent, Title: "Pest Alert: Aphids"},
			{ID: "3", Category: Nutrition, Priority: Medium, Title: "Fertilizer Application"},
		},
		crops: []CropHealth{
			{Crop: "Tomatoes (Field A)", Health: 92},
			{Crop: "Corn (Field B)", Health: 78},
			{Crop: "Wheat (Field C)", Health: 60},
		},
	}
}

func TestBuildBoard(t *testing.T) {
	b, err := BuildBoard(newMockSource(), Filter{})
	if err != nil {
		t.Fatalf("BuildBoard: %v", err)
	}
	if b.Active != 3 {
		t.Errorf("Active = %d, want 3", b.Active)
	}
	if got := b.Advisories[1].Badge; got != (Badge{Variant: "destructive", Icon: "alert-triangle"}) {
		t.Errorf("urgent badge = %+v", got)
	}

	var statuses []Status
	for _, c := range b.CropHealth {
		statuses = append(statuses, c.Status)
	}
	if diff := cmp.Diff([]Status{Excellent, Good, NeedsAttention}, statuses); diff != "" {
		t.Errorf("statuses (-want +got):\n%s", diff)
	}
}

func TestBuildBoard_Filter(t *testing.T) {
	b, err := BuildBoard(newMockSource(), Filter{Category: Pest})
	if err != nil {
		t.Fatalf("BuildBoard: %v", err)
	}
	if len(b.Advisories) != 1 || b.Advisories[0].ID != "2" {
		t.Errorf("filtered advisories = %+v", b.Advisories)
	}

	b, _ = BuildBoard(newMockSource(), Filter{Priority: "whenever"})
	if len(b.Advisories) != 0 {
		t.Errorf("unknown priority matched %d advisories", len(b.Advisories))
	}
}

func TestBuildBoard_SourceError(t *testing.T) {
	src := newMockSource()
	src.err = errors.New("boom")
	if _, err := BuildBoard(src, Filter{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestStatusFor_Boundaries(t *testing.T) {
	cases := map[int]Status{100: Excellent, 90: Excellent, 89: Good, 75: Good, 74: NeedsAttention, 0: NeedsAttention}
	for h, want := range cases {
		if got := StatusFor(h); got != want {
			t.Errorf("StatusFor(%d) = %q, want %q", h, got, want)
		}
	}
}

func TestPresentationFallbacks(t *testing.T) {
	if BadgeFor("someday") != defaultBadge {
		t.Error("unknown priority did not fall back")
	}
	if MarkerFor("soil") != defaultMarker {
		t.Error("unknown category did not fall back")
	}
}
