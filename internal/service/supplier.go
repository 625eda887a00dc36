package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/catalog-api/internal/domain/models"
	"github.com/linemk/catalog-api/internal/storage"
)

// SupplierUpdate — частичное обновление, nil-поля не меняются
type SupplierUpdate struct {
	Name         *string
	ContactEmail *string
	PhoneNumber  *string
}

// SupplierService определяет CRUD-операции над поставщиками.
type SupplierService interface {
	CreateSupplier(ctx context.Context, name, contactEmail, phoneNumber string) (*models.Supplier, error)
	ListSuppliers(ctx context.Context, limit, offset int) ([]*models.Supplier, error)
	UpdateSupplier(ctx context.Context, id int64, upd SupplierUpdate) (*models.Supplier, error)
	DeleteSupplier(ctx context.Context, id int64) error
}

type supplierService struct {
	log          *slog.Logger
	supplierRepo storage.SupplierStorage
}

func NewSupplierService(log *slog.Logger, supplierRepo storage.SupplierStorage) SupplierService {
	return &supplierService{log: log, supplierRepo: supplierRepo}
}

func (s *supplierService) CreateSupplier(ctx context.Context, name, contactEmail, phoneNumber string) (*models.Supplier, error) {
	const op = "service.SupplierService.CreateSupplier"

	supplier, err := s.supplierRepo.CreateSupplier(ctx, &models.Supplier{
		Name:         name,
		ContactEmail: contactEmail,
		PhoneNumber:  phoneNumber,
	})
	if err != nil {
		s.log.Error("failed to create supplier", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create supplier: %w", op, err)
	}
	return supplier, nil
}

func (s *supplierService) ListSuppliers(ctx context.Context, limit, offset int) ([]*models.Supplier, error) {
	const op = "service.SupplierService.ListSuppliers"

	if limit < 1 || offset < 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPagination)
	}

	suppliers, err := s.supplierRepo.ListSuppliers(ctx, limit, offset)
	if err != nil {
		s.log.Error("failed to list suppliers", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list suppliers: %w", op, err)
	}
	return suppliers, nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, id int64, upd SupplierUpdate) (*models.Supplier, error) {
	const op = "service.SupplierService.UpdateSupplier"
	logger := s.log.With(slog.String("op", op), slog.Int64("supplierID", id))

	supplier, err := s.supplierRepo.GetSupplierByID(ctx, id)
	if err != nil {
		logger.Warn("failed to get supplier", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if upd.Name != nil {
		supplier.Name = *upd.Name
	}
	if upd.ContactEmail != nil {
		supplier.ContactEmail = *upd.ContactEmail
	}
	if upd.PhoneNumber != nil {
		supplier.PhoneNumber = *upd.PhoneNumber
	}

	if err := s.supplierRepo.UpdateSupplier(ctx, supplier); err != nil {
		logger.Error("failed to update supplier", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update supplier: %w", op, err)
	}
	return supplier, nil
}

func (s *supplierService) DeleteSupplier(ctx context.Context, id int64) error {
	const op = "service.SupplierService.DeleteSupplier"

	if err := s.supplierRepo.DeleteSupplier(ctx, id); err != nil {
		s.log.Warn("failed to delete supplier", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
