package portfolio

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// DefaultPageLimit is the page size used when a list call passes no limit.
const DefaultPageLimit = 10

const (
	articlesPath      = "/api/v1/articles"
	adminArticlesPath = "/api/v1/admin/articles"
)

type ArticleService struct {
	client *Client
}

func (s *ArticleService) List(ctx context.Context, page, limit int) (*Page[Article], error) {
	var result Page[Article]
	req := s.client.client.R().
		SetContext(ctx).
		SetQueryParams(pageQuery(page, limit)).
		SetResult(&result)
	if _, err := s.client.execute(req, http.MethodGet, articlesPath); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *ArticleService) Get(ctx context.Context, id uuid.UUID) (*Article, error) {
	var article Article
	if err := s.client.do(ctx, http.MethodGet, articlesPath+"/"+id.String(), nil, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

func (s *ArticleService) GetBySlug(ctx context.Context, slug string) (*Article, error) {
	var article Article
	if err := s.client.do(ctx, http.MethodGet, articlesPath+"/slug/"+url.PathEscape(slug), nil, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

func (s *ArticleService) Create(ctx context.Context, input ArticleInput) (*Article, error) {
	if err := s.client.validateInput("article", input); err != nil {
		return nil, err
	}
	var article Article
	if err := s.client.do(ctx, http.MethodPost, adminArticlesPath, input, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

func (s *ArticleService) Update(ctx context.Context, id uuid.UUID, update ArticleUpdate) (*Article, error) {
	if err := s.client.validateInput("article", update); err != nil {
		return nil, err
	}
	var article Article
	if err := s.client.do(ctx, http.MethodPut, adminArticlesPath+"/"+id.String(), update, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

func (s *ArticleService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.client.do(ctx, http.MethodDelete, adminArticlesPath+"/"+id.String(), nil, nil)
}
