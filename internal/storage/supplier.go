package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/linemk/catalog-api/internal/domain/models"
)

var ErrSupplierNotFound = errors.New("supplier not found")

// SupplierStorage описывает методы для работы с поставщиками.
type SupplierStorage interface {
	CreateSupplier(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error)
	GetSupplierByID(ctx context.Context, id int64) (*models.Supplier, error)
	ListSuppliers(ctx context.Context, limit, offset int) ([]*models.Supplier, error)
	UpdateSupplier(ctx context.Context, supplier *models.Supplier) error
	DeleteSupplier(ctx context.Context, id int64) error
}

type supplierRepository struct {
	db *sql.DB
}

func NewSupplierRepository(db *sql.DB) SupplierStorage {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) CreateSupplier(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error) {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO suppliers (name, contact_email, phone_number) VALUES ($1, $2, $3) RETURNING id",
		supplier.Name, supplier.ContactEmail, supplier.PhoneNumber,
	).Scan(&supplier.ID)
	if err != nil {
		return nil, err
	}
	return supplier, nil
}

func (r *supplierRepository) GetSupplierByID(ctx context.Context, id int64) (*models.Supplier, error) {
	supplier := &models.Supplier{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, contact_email, phone_number FROM suppliers WHERE id = $1", id)
	if err := row.Scan(&supplier.ID, &supplier.Name, &supplier.ContactEmail, &supplier.PhoneNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}
	return supplier, nil
}

func (r *supplierRepository) ListSuppliers(ctx context.Context, limit, offset int) ([]*models.Supplier, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, contact_email, phone_number FROM suppliers ORDER BY id LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suppliers []*models.Supplier
	for rows.Next() {
		supplier := &models.Supplier{}
		if err := rows.Scan(&supplier.ID, &supplier.Name, &supplier.ContactEmail, &supplier.PhoneNumber); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, supplier)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *supplierRepository) UpdateSupplier(ctx context.Context, supplier *models.Supplier) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE suppliers SET name = $1, contact_email = $2, phone_number = $3 WHERE id = $4",
		supplier.Name, supplier.ContactEmail, supplier.PhoneNumber, supplier.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSupplierNotFound
	}
	return nil
}

func (r *supplierRepository) DeleteSupplier(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM suppliers WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSupplierNotFound
	}
	return nil
}
