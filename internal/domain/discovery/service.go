package discovery

import (
	"context"

	"github.com/carefind/carefind/internal/domain/hospital"
	"github.com/carefind/carefind/internal/platform/geo"
)

type Service struct {
	hospitals hospital.HospitalRepository
}

func NewService(hospitals hospital.HospitalRepository) *Service {
	return &Service{hospitals: hospitals}
}

// Search loads the full hospital directory and applies the filter from
// the viewer's position. A nil viewer leaves every distance unset, which
// disables both the distance filter and the distance sort.
func (s *Service) Search(ctx context.Context, f Filter, viewer *geo.Point) ([]*hospital.Hospital, error) {
	all, err := s.hospitals.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(all, viewer), nil
}
