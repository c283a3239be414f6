package portfolio

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	projectsPath      = "/api/v1/projects"
	adminProjectsPath = "/api/v1/admin/projects"
)

type ProjectService struct {
	client *Client
}

func (s *ProjectService) List(ctx context.Context, page, limit int) (*Page[Project], error) {
	var result Page[Project]
	req := s.client.client.R().
		SetContext(ctx).
		SetQueryParams(pageQuery(page, limit)).
		SetResult(&result)
	if _, err := s.client.execute(req, http.MethodGet, projectsPath); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*Project, error) {
	var project Project
	if err := s.client.do(ctx, http.MethodGet, projectsPath+"/"+id.String(), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *ProjectService) Create(ctx context.Context, input ProjectInput) (*Project, error) {
	if input.Technologies == nil {
		input.Technologies = []string{}
	}
	if err := s.client.validateInput("project", input); err != nil {
		return nil, err
	}
	var project Project
	if err := s.client.do(ctx, http.MethodPost, adminProjectsPath, input, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, update ProjectUpdate) (*Project, error) {
	if err := s.client.validateInput("project", update); err != nil {
		return nil, err
	}
	var project Project
	if err := s.client.do(ctx, http.MethodPut, adminProjectsPath+"/"+id.String(), update, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.client.do(ctx, http.MethodDelete, adminProjectsPath+"/"+id.String(), nil, nil)
}
