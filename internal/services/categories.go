package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/sonata/internal/models"
	"github.com/desertthunder/sonata/internal/shared"
)

// CategoryService manages categories through the admin endpoints.
//
// The api it wraps must already carry a contributor token (see [APIService.WithToken]).
type CategoryService struct {
	api *APIService
}

func NewCategoryService(api *APIService) *CategoryService {
	return &CategoryService{api: api}
}

// List returns one page of categories. Unlike catalog reads, failures are returned.
func (s *CategoryService) List(ctx context.Context, page int) ([]models.Category, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	return getList[models.Category](ctx, s.api, "/admin/categories", q)
}

// Create adds a category.
func (s *CategoryService) Create(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	if err := validateCategory(&in); err != nil {
		return nil, err
	}
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode category: %w", err)
	}

	resp, err := s.api.Post(ctx, "/admin/categories", data)
	return categoryResult(resp, err)
}

// Update replaces the name and description of category id.
func (s *CategoryService) Update(ctx context.Context, id string, in models.CategoryInput) (*models.Category, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: category id", shared.ErrMissingArgument)
	}
	if err := validateCategory(&in); err != nil {
		return nil, err
	}
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode category: %w", err)
	}

	resp, err := s.api.Put(ctx, "/admin/categories/"+url.PathEscape(id), data)
	return categoryResult(resp, err)
}

// Delete removes category id.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: category id", shared.ErrMissingArgument)
	}

	resp, err := s.api.Delete(ctx, "/admin/categories/"+url.PathEscape(id))
	if err != nil || !resp.OK() {
		return newFormError(resp, err)
	}
	return nil
}

func validateCategory(in *models.CategoryInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return invalidForm("Category name is required.")
	}
	return nil
}

func categoryResult(resp *APIResponse, err error) (*models.Category, error) {
	if err != nil || !resp.OK() {
		return nil, newFormError(resp, err)
	}
	c, err := decodeData[models.Category](resp)
	if err != nil {
		return nil, &FormError{StatusCode: resp.StatusCode, Message: GenericFormMessage, Err: fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)}
	}
	return c, nil
}
