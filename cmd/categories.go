package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/sonata/internal/models"
	"github.com/urfave/cli/v3"
)

// CategoriesList lists categories as seen by the contributor.
func (r *Runner) CategoriesList(ctx context.Context, cmd *cli.Command) error {
	admin, err := r.categoryAdmin()
	if err != nil {
		return err
	}

	categories, err := admin.List(ctx, cmd.Int("page"))
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(categories, cmd.Bool("pretty"))
	}
	if len(categories) == 0 {
		return r.writePlain("No categories yet.\n")
	}

	rows := make([][]string, len(categories))
	for i, c := range categories {
		rows[i] = []string{c.ID, c.Name, c.Description}
	}
	return r.writePlain("%s\n", renderTable([]string{"ID", "Name", "Description"}, rows))
}

// CategoriesCreate creates a category.
func (r *Runner) CategoriesCreate(ctx context.Context, cmd *cli.Command) error {
	admin, err := r.categoryAdmin()
	if err != nil {
		return err
	}

	in := models.CategoryInput{Name: cmd.StringArg("name"), Description: cmd.String("description")}
	category, err := admin.Create(ctx, in)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	r.logger.Info("category created", "id", category.ID)
	return r.writePlain("✓ Created category %s (%s)\n", category.Name, category.ID)
}

// CategoriesUpdate renames or re-describes a category.
func (r *Runner) CategoriesUpdate(ctx context.Context, cmd *cli.Command) error {
	admin, err := r.categoryAdmin()
	if err != nil {
		return err
	}

	id := cmd.StringArg("id")
	in := models.CategoryInput{Name: cmd.StringArg("name"), Description: cmd.String("description")}
	category, err := admin.Update(ctx, id, in)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	r.logger.Info("category updated", "id", category.ID)
	return r.writePlain("✓ Updated category %s (%s)\n", category.Name, category.ID)
}

// CategoriesDelete deletes a category.
func (r *Runner) CategoriesDelete(ctx context.Context, cmd *cli.Command) error {
	admin, err := r.categoryAdmin()
	if err != nil {
		return err
	}

	id := cmd.StringArg("id")
	if err := admin.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	r.logger.Info("category deleted", "id", id)
	return r.writePlain("✓ Deleted category %s\n", id)
}
