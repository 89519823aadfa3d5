package discovery

import (
	"testing"

	"github.com/carefind/carefind/internal/domain/hospital"
	"github.com/carefind/carefind/internal/platform/geo"
)

func ptr(f float64) *float64 { return &f }

func located(name string, lat, lng float64) *hospital.Hospital {
	return &hospital.Hospital{Name: name, Lat: &lat, Lng: &lng}
}

func TestApply_EmptyFilterPreservesOrder(t *testing.T) {
	// No viewer means no distances, so no sort trigger.
	in := []*hospital.Hospital{
		{Name: "Gamma"},
		{Name: "Alpha"},
		{Name: "Beta"},
	}
	out := Filter{}.Apply(in, nil)
	if len(out) != 3 {
		t.Fatalf("expected 3, got %d", len(out))
	}
	for i, want := range []string{"Gamma", "Alpha", "Beta"} {
		if out[i].Name != want {
			t.Errorf("position %d: expected %s, got %s", i, want, out[i].Name)
		}
	}
}

func TestApply_SearchCaseInsensitiveSubstring(t *testing.T) {
	in := []*hospital.Hospital{
		{Name: "City Care Hospital", Address: "12 Park Lane"},
		{Name: "Green Valley Clinic", Address: "8 Hill Road"},
	}
	out := Filter{SearchText: "city care"}.Apply(in, nil)
	if len(out) != 1 || out[0].Name != "City Care Hospital" {
		t.Fatalf("expected name substring match, got %d results", len(out))
	}

	// Address participates in free-text search too.
	out = Filter{SearchText: "HILL"}.Apply(in, nil)
	if len(out) != 1 || out[0].Name != "Green Valley Clinic" {
		t.Fatalf("expected address substring match, got %d results", len(out))
	}
}

func TestApply_SpecializationExactCaseSensitive(t *testing.T) {
	in := []*hospital.Hospital{
		{Name: "City Care", Doctors: []*hospital.Doctor{
			{Specialization: "Cardiology"},
			{Specialization: "Neurology"},
		}},
	}

	out := Filter{Specialization: "Cardiology"}.Apply(in, nil)
	if len(out) != 1 {
		t.Fatalf("expected exact match to include hospital, got %d", len(out))
	}

	out = Filter{Specialization: "cardiology"}.Apply(in, nil)
	if len(out) != 0 {
		t.Fatalf("expected lowercase to exclude hospital, got %d", len(out))
	}
}

func TestApply_MinRating(t *testing.T) {
	in := []*hospital.Hospital{
		{Name: "High", Rating: 4.5},
		{Name: "Edge", Rating: 4.0},
		{Name: "Low", Rating: 3.9},
	}
	out := Filter{MinRating: ptr(4.0)}.Apply(in, nil)
	if len(out) != 2 {
		t.Fatalf("expected 2 hospitals at or above threshold, got %d", len(out))
	}
	for _, h := range out {
		if h.Rating < 4.0 {
			t.Errorf("%s below threshold with rating %.1f", h.Name, h.Rating)
		}
	}
}

func TestApply_MaxDistance(t *testing.T) {
	viewer := &geo.Point{Lat: 28.6139, Lng: 77.2090} // Delhi
	in := []*hospital.Hospital{
		located("Near", 28.7041, 77.1025),  // ~15 km
		located("Far", 19.0760, 72.8777),   // ~1150 km
		{Name: "Unlocated"},                // no coordinate
	}
	out := Filter{MaxDistanceKm: ptr(50)}.Apply(in, viewer)
	if len(out) != 1 || out[0].Name != "Near" {
		t.Fatalf("expected only Near within 50km, got %d results", len(out))
	}
}

func TestApply_MissingDistanceNeverMatchesDistanceFilter(t *testing.T) {
	in := []*hospital.Hospital{{Name: "Unlocated"}}
	out := Filter{MaxDistanceKm: ptr(10000)}.Apply(in, &geo.Point{Lat: 0, Lng: 0})
	if len(out) != 0 {
		t.Fatal("hospital without coordinates must not satisfy a distance filter")
	}
}

func TestApply_SortsWhenAllHaveDistance(t *testing.T) {
	viewer := &geo.Point{Lat: 28.6139, Lng: 77.2090}
	in := []*hospital.Hospital{
		located("Mumbai", 19.0760, 72.8777),
		located("Noida", 28.5355, 77.3910),
		located("Jaipur", 26.9124, 75.7873),
	}
	out := Filter{}.Apply(in, viewer)
	if len(out) != 3 {
		t.Fatalf("expected 3, got %d", len(out))
	}
	for i := 1; i < len(out); i++ {
		if *out[i-1].Distance > *out[i].Distance {
			t.Fatalf("not sorted by distance: %s (%.2f) before %s (%.2f)",
				out[i-1].Name, *out[i-1].Distance, out[i].Name, *out[i].Distance)
		}
	}
	if out[0].Name != "Noida" {
		t.Errorf("expected Noida closest, got %s", out[0].Name)
	}
}

func TestApply_NoSortWhenAnyDistanceMissing(t *testing.T) {
	viewer := &geo.Point{Lat: 28.6139, Lng: 77.2090}
	in := []*hospital.Hospital{
		located("Mumbai", 19.0760, 72.8777),
		{Name: "Unlocated"},
		located("Noida", 28.5355, 77.3910),
	}
	out := Filter{}.Apply(in, viewer)
	for i, want := range []string{"Mumbai", "Unlocated", "Noida"} {
		if out[i].Name != want {
			t.Fatalf("expected input order preserved, position %d is %s", i, out[i].Name)
		}
	}
}

func TestApply_AvailabilityWindow(t *testing.T) {
	in := []*hospital.Hospital{
		{Name: "Open", Doctors: []*hospital.Doctor{{Available: true}}},
		{Name: "Closed", Doctors: []*hospital.Doctor{{Available: false}}},
		{Name: "NoDoctors"},
	}
	for _, w := range []Window{WindowToday, WindowTomorrow, WindowWeek} {
		out := Filter{AvailabilityWindow: w}.Apply(in, nil)
		if len(out) != 1 || out[0].Name != "Open" {
			t.Errorf("window %s: expected only Open, got %d results", w, len(out))
		}
	}
}

func TestApply_PredicatesCompose(t *testing.T) {
	viewer := &geo.Point{Lat: 28.6139, Lng: 77.2090}
	match := located("City Care", 28.7041, 77.1025)
	match.Rating = 4.5
	match.Doctors = []*hospital.Doctor{{Specialization: "Cardiology", Available: true}}

	wrongSpec := located("City Care North", 28.7041, 77.1025)
	wrongSpec.Rating = 4.5
	wrongSpec.Doctors = []*hospital.Doctor{{Specialization: "Neurology", Available: true}}

	tooFar := located("City Care Mumbai", 19.0760, 72.8777)
	tooFar.Rating = 4.5
	tooFar.Doctors = []*hospital.Doctor{{Specialization: "Cardiology", Available: true}}

	in := []*hospital.Hospital{match, wrongSpec, tooFar}
	f := Filter{
		SearchText:     "city care",
		Specialization: "Cardiology",
		MinRating:      ptr(4.0),
		MaxDistanceKm:  ptr(100),
	}
	out := f.Apply(in, viewer)
	if len(out) != 1 || out[0].Name != "City Care" {
		t.Fatalf("expected only the hospital satisfying all predicates, got %d", len(out))
	}
}

func TestApply_EmptyInput(t *testing.T) {
	out := Filter{SearchText: "anything"}.Apply(nil, nil)
	if len(out) != 0 {
		t.Fatalf("expected empty output, got %d", len(out))
	}
}
