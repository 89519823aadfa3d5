package discovery

import (
	"sort"
	"strings"

	"github.com/carefind/carefind/internal/domain/hospital"
	"github.com/carefind/carefind/internal/platform/geo"
)

// Window tags a requested availability horizon. Every window currently
// resolves to the same predicate: the hospital has at least one doctor
// marked available.
type Window string

const (
	WindowToday    Window = "today"
	WindowTomorrow Window = "tomorrow"
	WindowWeek     Window = "week"
)

func (w Window) Valid() bool {
	switch w {
	case WindowToday, WindowTomorrow, WindowWeek:
		return true
	}
	return false
}

// Filter is the set of predicates a discovery query composes. Zero-value
// fields impose no constraint; active fields combine with logical AND.
//
// SearchText matches case-insensitively as a substring of the hospital
// name or address. Specialization is an exact, case-sensitive match
// against any attached doctor. A hospital with no computed distance
// never satisfies MaxDistanceKm.
type Filter struct {
	SearchText         string
	Specialization     string
	MinRating          *float64
	MaxDistanceKm      *float64
	AvailabilityWindow Window
}

// Apply annotates each hospital with its distance from the viewer (nil
// when either coordinate is missing), drops hospitals failing any active
// predicate, and sorts the result ascending by distance when every
// surviving hospital carries one. The sort is stable; when any distance
// is missing the input order is preserved.
func (f Filter) Apply(hospitals []*hospital.Hospital, viewer *geo.Point) []*hospital.Hospital {
	out := make([]*hospital.Hospital, 0, len(hospitals))
	for _, h := range hospitals {
		h.Distance = geo.DistanceBetween(viewer, h.Coordinate())
		if f.matches(h) {
			out = append(out, h)
		}
	}
	if allHaveDistance(out) {
		sort.SliceStable(out, func(i, j int) bool {
			return *out[i].Distance < *out[j].Distance
		})
	}
	return out
}

func (f Filter) matches(h *hospital.Hospital) bool {
	if f.SearchText != "" {
		q := strings.ToLower(f.SearchText)
		if !strings.Contains(strings.ToLower(h.Name), q) &&
			!strings.Contains(strings.ToLower(h.Address), q) {
			return false
		}
	}
	if f.Specialization != "" && !h.HasSpecialization(f.Specialization) {
		return false
	}
	if f.MinRating != nil && h.Rating < *f.MinRating {
		return false
	}
	if f.MaxDistanceKm != nil {
		if h.Distance == nil || *h.Distance > *f.MaxDistanceKm {
			return false
		}
	}
	if f.AvailabilityWindow != "" && !h.HasAvailableDoctor() {
		return false
	}
	return true
}

func allHaveDistance(hospitals []*hospital.Hospital) bool {
	if len(hospitals) == 0 {
		return false
	}
	for _, h := range hospitals {
		if h.Distance == nil {
			return false
		}
	}
	return true
}
