package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/sonata/internal/models"
	"github.com/desertthunder/sonata/internal/shared"
	tu "github.com/desertthunder/sonata/internal/testing"
)

func TestCategoryService(t *testing.T) {
	ctx := context.Background()

	newService := func(t *testing.T, h http.HandlerFunc) *CategoryService {
		t.Helper()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer admin" {
				tu.WriteEnvelopeError(w, http.StatusUnauthorized, "Unauthenticated.", nil)
				return
			}
			h(w, r)
		}))
		t.Cleanup(server.Close)
		return NewCategoryService(NewAPIService(server.URL, nil).WithToken("admin"))
	}

	t.Run("List", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/admin/categories" || r.URL.Query().Get("page") != "3" {
				t.Errorf("unexpected request %s", r.URL)
			}
			tu.WriteEnvelope(w, http.StatusOK, map[string]any{"data": []models.Category{{ID: "c1", Name: "Chamber"}}})
		})

		got, err := svc.List(ctx, 3)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 1 || got[0].Name != "Chamber" {
			t.Errorf("unexpected categories %+v", got)
		}
	})

	t.Run("List Unauthorized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tu.WriteEnvelopeError(w, http.StatusUnauthorized, "Unauthenticated.", nil)
		}))
		defer server.Close()

		svc := NewCategoryService(NewAPIService(server.URL, nil))
		if _, err := svc.List(ctx, 0); !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("Create", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			var in models.CategoryInput
			json.NewDecoder(r.Body).Decode(&in)
			tu.WriteEnvelope(w, http.StatusCreated, models.Category{ID: "c9", Name: in.Name})
		})

		got, err := svc.Create(ctx, models.CategoryInput{Name: "  Opera "})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.ID != "c9" || got.Name != "Opera" {
			t.Errorf("unexpected category %+v", got)
		}
	})

	t.Run("Create Requires Name", func(t *testing.T) {
		svc := NewCategoryService(NewAPIService("http://example.com", nil))
		_, err := svc.Create(ctx, models.CategoryInput{Name: " "})
		if FormMessage(err) != "Category name is required." {
			t.Errorf("unexpected message %q", FormMessage(err))
		}
	})

	t.Run("Update Surfaces Server Errors", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut || r.URL.Path != "/admin/categories/c1" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			tu.WriteEnvelopeError(w, http.StatusUnprocessableEntity, "", []string{"The name has already been taken."})
		})

		_, err := svc.Update(ctx, "c1", models.CategoryInput{Name: "Opera"})
		if FormMessage(err) != "The name has already been taken." {
			t.Errorf("unexpected message %q", FormMessage(err))
		}
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Update Requires ID", func(t *testing.T) {
		svc := NewCategoryService(NewAPIService("http://example.com", nil))
		if _, err := svc.Update(ctx, "", models.CategoryInput{Name: "x"}); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete || r.URL.Path != "/admin/categories/c1" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			tu.WriteEnvelope(w, http.StatusOK, nil)
		})

		if err := svc.Delete(ctx, "c1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Delete Not Found", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			tu.WriteEnvelopeError(w, http.StatusNotFound, "Category not found.", nil)
		})

		err := svc.Delete(ctx, "missing")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if FormMessage(err) != "Category not found." {
			t.Errorf("unexpected message %q", FormMessage(err))
		}
	})
}
