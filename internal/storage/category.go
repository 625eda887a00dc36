package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/linemk/catalog-api/internal/domain/models"
)

var ErrCategoryNotFound = errors.New("category not found")

// CategoryStorage описывает методы для работы с категориями.
type CategoryStorage interface {
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)
	ListCategories(ctx context.Context, limit, offset int) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error
}

type categoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) CategoryStorage {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id",
		category.Name, category.Description,
	).Scan(&category.ID)
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepository) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	category := &models.Category{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, description FROM categories WHERE id = $1", id)
	if err := row.Scan(&category.ID, &category.Name, &category.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (r *categoryRepository) ListCategories(ctx context.Context, limit, offset int) ([]*models.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, description FROM categories ORDER BY id LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(&category.ID, &category.Name, &category.Description); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE categories SET name = $1, description = $2 WHERE id = $3",
		category.Name, category.Description, category.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *categoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
