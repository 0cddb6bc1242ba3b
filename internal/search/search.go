package search

import (
	"context"

	"github.com/Skotchmaster/foodmarket/internal/models"
	"github.com/Skotchmaster/foodmarket/internal/repo"
)

// Index keeps a searchable copy of the menu.
type Index interface {
	IndexMenuItem(ctx context.Context, item models.MenuItem) error
	DeleteMenuItem(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.MenuItem, error)
}

// DB searches the relational store directly; writes are no-ops.
type DB struct {
	Repo *repo.GormRepo
}

func (d *DB) IndexMenuItem(context.Context, models.MenuItem) error { return nil }

func (d *DB) DeleteMenuItem(context.Context, uint) error { return nil }

func (d *DB) Search(ctx context.Context, query string, from, size int) (int64, []models.MenuItem, error) {
	return d.Repo.SearchMenuItems(ctx, query, from, size)
}
