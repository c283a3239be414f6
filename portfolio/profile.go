package portfolio

import (
	"context"
	"net/http"
)

const (
	profilePath      = "/api/v1/portfolio"
	adminProfilePath = "/api/v1/admin/portfolio"
)

// ProfileService reads and updates the portfolio profile.
type ProfileService struct {
	client *Client
}

func (s *ProfileService) Get(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := s.client.do(ctx, http.MethodGet, profilePath, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *ProfileService) Update(ctx context.Context, update ProfileUpdate) (*Profile, error) {
	if err := s.client.validateInput("portfolio", update); err != nil {
		return nil, err
	}
	var profile Profile
	if err := s.client.do(ctx, http.MethodPut, adminProfilePath, update, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
