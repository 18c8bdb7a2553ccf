package repos

import (
	"poolquote/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, code, name, category, unit, unit_price, price_type, price_percentage,
  price_ref_product_id, price_minimum, price_coefficient, coefficient_basis,
  required_surcharges_json, active,
  created_at, COALESCE(updated_at,'') AS updated_at`

// ListActive returns the catalog snapshot quote generation works from.
func (r *ProductRepo) ListActive() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
  SELECT `+productCols+`
  FROM products
  WHERE active = 1
  ORDER BY category, name`)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
  SELECT `+productCols+`
  FROM products
  WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) GetByCode(code string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
  SELECT `+productCols+`
  FROM products
  WHERE code = ?`, code)
	return p, err
}

// Search filters the admin catalog list.
func (r *ProductRepo) Search(q, category string, includeInactive bool, limit, offset int) ([]domain.Product, error) {
	where := `1=1`
	args := []any{}
	if !includeInactive {
		where += ` AND active = 1`
	}
	if q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(code) LIKE ?)`
		args = append(args, "%"+q+"%", "%"+q+"%")
	}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, category)
	}

	sql := `
  SELECT ` + productCols + `
  FROM products
  WHERE ` + where + `
  ORDER BY category, name
  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var out []domain.Product
	err := r.db.Select(&out, sql, args...)
	return out, err
}

func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
  INSERT INTO products(id, code, name, category, unit, unit_price, price_type,
    price_percentage, price_ref_product_id, price_minimum, price_coefficient,
    coefficient_basis, required_surcharges_json, active)
  VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.Code, p.Name, p.Category, p.Unit, p.UnitPrice, p.PriceType,
		p.PricePercentage, p.PriceRefProductID, p.PriceMinimum, p.PriceCoefficient,
		p.CoefficientBasis, p.RequiredSurcharges, p.Active)
	return err
}

func (r *ProductRepo) Update(p domain.Product) error {
	_, err := r.db.Exec(`
  UPDATE products SET code=?, name=?, category=?, unit=?, unit_price=?,
    price_type=?, price_percentage=?, price_ref_product_id=?, price_minimum=?,
    price_coefficient=?, coefficient_basis=?, required_surcharges_json=?,
    active=?, updated_at=CURRENT_TIMESTAMP
  WHERE id=?`,
		p.Code, p.Name, p.Category, p.Unit, p.UnitPrice,
		p.PriceType, p.PricePercentage, p.PriceRefProductID, p.PriceMinimum,
		p.PriceCoefficient, p.CoefficientBasis, p.RequiredSurcharges,
		p.Active, p.ID)
	return err
}

func (r *ProductRepo) SetActive(id string, active bool) error {
	_, err := r.db.Exec(`UPDATE products SET active=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, active, id)
	return err
}

// Addons lists a set's conditional extras in display order.
func (r *ProductRepo) Addons(productID string) ([]domain.SetAddon, error) {
	var out []domain.SetAddon
	err := r.db.Select(&out, `
  SELECT id, product_id, name, price, trigger_kind, trigger_value, sort_order
  FROM set_addons
  WHERE product_id = ?
  ORDER BY sort_order, id`, productID)
	return out, err
}

func (r *ProductRepo) UpsertAddon(a domain.SetAddon) error {
	_, err := r.db.Exec(`
  INSERT INTO set_addons(id, product_id, name, price, trigger_kind, trigger_value, sort_order)
  VALUES(?,?,?,?,?,?,?)
  ON CONFLICT(id) DO UPDATE SET
    name=excluded.name, price=excluded.price, trigger_kind=excluded.trigger_kind,
    trigger_value=excluded.trigger_value, sort_order=excluded.sort_order`,
		a.ID, a.ProductID, a.Name, a.Price, a.TriggerKind, a.TriggerValue, a.SortOrder)
	return err
}

func (r *ProductRepo) DeleteAddon(id string) error {
	_, err := r.db.Exec(`DELETE FROM set_addons WHERE id=?`, id)
	return err
}
