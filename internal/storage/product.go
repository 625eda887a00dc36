package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/linemk/catalog-api/internal/domain/models"
)

var ErrProductNotFound = errors.New("product not found")

// InsufficientStockError возвращается при нехватке остатка на складе,
// несёт имя товара и фактический остаток для ответа клиенту
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough quantity for product %s: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

// ProductFilter — параметры поиска товаров, nil-поля не фильтруют
type ProductFilter struct {
	Name         string
	CategoryName string
	SupplierName string
	MinPrice     *int
	MaxPrice     *int
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
}

// ProductStorage описывает методы для работы с товарами, включая
// резервирование остатка — единственный путь списания Quantity при заказе.
type ProductStorage interface {
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	// ReserveStock атомарно проверяет и списывает остаток внутри транзакции вызывающего.
	ReserveStock(ctx context.Context, tx *sql.Tx, productID int64, quantity int) error
	// RestockTx возвращает количество на склад (отмена заказа).
	RestockTx(ctx context.Context, tx *sql.Tx, productID int64, quantity int) error
	SearchProducts(ctx context.Context, filter ProductFilter, limit, offset int) ([]*models.Product, int, error)
}

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) ProductStorage {
	return &productRepository{db: db}
}

const productColumns = "id, name, description, price, created_at, category_id, supplier_id, quantity, photo_path"

func scanProduct(row interface{ Scan(...interface{}) error }) (*models.Product, error) {
	product := &models.Product{}
	err := row.Scan(&product.ID, &product.Name, &product.Description, &product.Price,
		&product.CreatedAt, &product.CategoryID, &product.SupplierID, &product.Quantity, &product.PhotoPath)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO products (name, description, price, category_id, supplier_id, quantity, photo_path)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`,
		product.Name, product.Description, product.Price,
		product.CategoryID, product.SupplierID, product.Quantity, product.PhotoPath,
	).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (r *productRepository) ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY id LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET name = $1, description = $2, price = $3,
		 category_id = $4, supplier_id = $5, quantity = $6, photo_path = $7 WHERE id = $8`,
		product.Name, product.Description, product.Price,
		product.CategoryID, product.SupplierID, product.Quantity, product.PhotoPath, product.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// ReserveStock блокирует строку товара (FOR UPDATE NOWAIT), проверяет остаток
// и списывает его. Проверка и списание выполняются под одной блокировкой,
// поэтому два конкурентных заказа не могут увести остаток в минус
func (r *productRepository) ReserveStock(ctx context.Context, tx *sql.Tx, productID int64, quantity int) error {
	var name string
	var available int
	row := tx.QueryRowContext(ctx,
		"SELECT name, quantity FROM products WHERE id = $1 FOR UPDATE NOWAIT", productID)
	if err := row.Scan(&name, &available); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "55P03" { // lock
				return fmt.Errorf("resource is locked, please try again: %w", err)
			}
		}
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		return err
	}

	if available < quantity {
		return &InsufficientStockError{ProductName: name, Available: available, Requested: quantity}
	}

	_, err := tx.ExecContext(ctx,
		"UPDATE products SET quantity = quantity - $1 WHERE id = $2", quantity, productID)
	if err != nil {
		return err
	}
	return nil
}

func (r *productRepository) RestockTx(ctx context.Context, tx *sql.Tx, productID int64, quantity int) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE products SET quantity = quantity + $1 WHERE id = $2", quantity, productID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// SearchProducts собирает динамический WHERE по заполненным полям фильтра
// и возвращает страницу результатов вместе с общим количеством совпадений
func (r *productRepository) SearchProducts(ctx context.Context, filter ProductFilter, limit, offset int) ([]*models.Product, int, error) {
	var conds []string
	var args []interface{}

	addCond := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Name != "" {
		addCond("p.name ILIKE $%d", "%"+filter.Name+"%")
	}
	if filter.MinPrice != nil {
		addCond("p.price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		addCond("p.price <= $%d", *filter.MaxPrice)
	}
	if filter.CreatedFrom != nil {
		addCond("p.created_at >= $%d", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		addCond("p.created_at <= $%d", *filter.CreatedTo)
	}
	if filter.CategoryName != "" {
		addCond("c.name ILIKE $%d", "%"+filter.CategoryName+"%")
	}
	if filter.SupplierName != "" {
		addCond("s.name ILIKE $%d", "%"+filter.SupplierName+"%")
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	from := ` FROM products p
		JOIN categories c ON p.category_id = c.id
		JOIN suppliers s ON p.supplier_id = s.id`

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*)"+from+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		"SELECT p.id, p.name, p.description, p.price, p.created_at, p.category_id, p.supplier_id, p.quantity, p.photo_path"+
			from+where+" ORDER BY p.id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}
