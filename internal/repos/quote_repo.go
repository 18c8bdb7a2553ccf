package repos

import (
	"fmt"

	"poolquote/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type QuoteRepo struct{ db *sqlx.DB }

func NewQuoteRepo(db *sqlx.DB) *QuoteRepo { return &QuoteRepo{db: db} }

const quoteCols = `
  id, quote_number, configuration_id, customer_name, customer_email,
  customer_phone, pool_config_json, subtotal, discount_percent,
  discount_amount, total_price, status, valid_until,
  created_at, COALESCE(updated_at,'') AS updated_at`

const itemCols = `
  id, quote_id, product_id, name, category, quantity, unit,
  unit_price, total_price, sort_order`

// Create inserts a quote header with its initial items in one
// transaction, so a reader never sees a quote without its lines.
func (r *QuoteRepo) Create(q domain.Quote, items []domain.QuoteItem) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
  INSERT INTO quotes(id, quote_number, configuration_id, customer_name,
    customer_email, customer_phone, pool_config_json, subtotal,
    discount_percent, discount_amount, total_price, status, valid_until)
  VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		q.ID, q.QuoteNumber, q.ConfigurationID, q.CustomerName,
		q.CustomerEmail, q.CustomerPhone, q.PoolConfig, q.Subtotal,
		q.DiscountPercent, q.DiscountAmount, q.TotalPrice, q.Status, q.ValidUntil); err != nil {
		return err
	}
	if err := insertItems(tx, q.ID, items); err != nil {
		return err
	}
	return tx.Commit()
}

func insertItems(tx *sqlx.Tx, quoteID string, items []domain.QuoteItem) error {
	for i, it := range items {
		id := it.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := tx.Exec(`
  INSERT INTO quote_items(id, quote_id, product_id, name, category,
    quantity, unit, unit_price, total_price, sort_order)
  VALUES(?,?,?,?,?,?,?,?,?,?)`,
			id, quoteID, it.ProductID, it.Name, it.Category,
			it.Quantity, it.Unit, it.UnitPrice, it.TotalPrice, i); err != nil {
			return err
		}
	}
	return nil
}

func (r *QuoteRepo) Get(id string) (domain.Quote, error) {
	var q domain.Quote
	err := r.db.Get(&q, `SELECT `+quoteCols+` FROM quotes WHERE id = ?`, id)
	return q, err
}

func (r *QuoteRepo) Items(quoteID string) ([]domain.QuoteItem, error) {
	var out []domain.QuoteItem
	err := r.db.Select(&out, `
  SELECT `+itemCols+`
  FROM quote_items
  WHERE quote_id = ?
  ORDER BY sort_order, id`, quoteID)
	return out, err
}

func (r *QuoteRepo) ListLatest(limit int) ([]domain.Quote, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.Quote
	err := r.db.Select(&out, `
  SELECT `+quoteCols+`
  FROM quotes
  ORDER BY datetime(created_at) DESC
  LIMIT ?`, limit)
	return out, err
}

func (r *QuoteRepo) UpdateHeader(q domain.Quote) error {
	_, err := r.db.Exec(`
  UPDATE quotes SET customer_name=?, customer_email=?, customer_phone=?,
    subtotal=?, discount_percent=?, discount_amount=?, total_price=?,
    valid_until=?, updated_at=CURRENT_TIMESTAMP
  WHERE id=?`,
		q.CustomerName, q.CustomerEmail, q.CustomerPhone,
		q.Subtotal, q.DiscountPercent, q.DiscountAmount, q.TotalPrice,
		q.ValidUntil, q.ID)
	return err
}

func (r *QuoteRepo) UpdateStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE quotes SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, status, id)
	return err
}

// ReplaceItems rewrites a quote's item set and totals atomically.
// Item writes are always replace-all, never incremental, so concurrent
// readers see either the old or the new set, nothing in between.
func (r *QuoteRepo) ReplaceItems(quoteID string, items []domain.QuoteItem, subtotal, total float64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := replaceItemsTx(tx, quoteID, items, subtotal, total); err != nil {
		return err
	}
	return tx.Commit()
}

func replaceItemsTx(tx *sqlx.Tx, quoteID string, items []domain.QuoteItem, subtotal, total float64) error {
	if _, err := tx.Exec(`DELETE FROM quote_items WHERE quote_id = ?`, quoteID); err != nil {
		return err
	}
	if err := insertItems(tx, quoteID, items); err != nil {
		return err
	}
	_, err := tx.Exec(`UPDATE quotes SET subtotal=?, total_price=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		subtotal, total, quoteID)
	return err
}

// NextQuoteNumber issues the next business-facing number for a year,
// e.g. NAB-2026-0007. Highest suffix + 1, not a row count, so the
// sequence keeps advancing past deleted or imported quotes. Concurrent
// creates can still draw the same number; the UNIQUE constraint
// rejects the loser and QuoteService retries with a fresh one.
func (r *QuoteRepo) NextQuoteNumber(year int) (string, error) {
	prefix := fmt.Sprintf("NAB-%d-", year)
	var n int
	if err := r.db.Get(&n, `
  SELECT COALESCE(MAX(CAST(substr(quote_number, ?) AS INTEGER)), 0)
  FROM quotes
  WHERE quote_number LIKE ?`, len(prefix)+1, prefix+"%"); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, n+1), nil
}

// ---------- Versions ----------

// InsertVersion appends a snapshot with the next monotonically
// increasing version number. Prior versions are never touched.
func (r *QuoteRepo) InsertVersion(quoteID, snapshot, note string) (domain.QuoteVersion, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return domain.QuoteVersion{}, err
	}
	defer func() { _ = tx.Rollback() }()

	v, err := insertVersionTx(tx, quoteID, snapshot, note)
	if err != nil {
		return domain.QuoteVersion{}, err
	}
	return v, tx.Commit()
}

func insertVersionTx(tx *sqlx.Tx, quoteID, snapshot, note string) (domain.QuoteVersion, error) {
	var next int
	if err := tx.Get(&next, `
  SELECT COALESCE(MAX(version_number),0)+1 FROM quote_versions WHERE quote_id=?`, quoteID); err != nil {
		return domain.QuoteVersion{}, err
	}
	v := domain.QuoteVersion{
		ID:            uuid.NewString(),
		QuoteID:       quoteID,
		VersionNumber: next,
		Snapshot:      snapshot,
		Note:          note,
	}
	_, err := tx.Exec(`
  INSERT INTO quote_versions(id, quote_id, version_number, snapshot_json, note)
  VALUES(?,?,?,?,?)`, v.ID, v.QuoteID, v.VersionNumber, v.Snapshot, v.Note)
	return v, err
}

func (r *QuoteRepo) Versions(quoteID string) ([]domain.QuoteVersion, error) {
	var out []domain.QuoteVersion
	err := r.db.Select(&out, `
  SELECT id, quote_id, version_number, snapshot_json, note, created_at
  FROM quote_versions
  WHERE quote_id = ?
  ORDER BY version_number DESC`, quoteID)
	return out, err
}

func (r *QuoteRepo) GetVersion(id string) (domain.QuoteVersion, error) {
	var v domain.QuoteVersion
	err := r.db.Get(&v, `
  SELECT id, quote_id, version_number, snapshot_json, note, created_at
  FROM quote_versions WHERE id = ?`, id)
	return v, err
}

// RestoreTx replaces the current quote state with a restored one,
// writing the automatic pre-restore backup in the same transaction so
// the current state can never be lost without a snapshot of it.
func (r *QuoteRepo) RestoreTx(backupSnapshot, backupNote string, q domain.Quote, items []domain.QuoteItem) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := insertVersionTx(tx, q.ID, backupSnapshot, backupNote); err != nil {
		return err
	}
	if _, err := tx.Exec(`
  UPDATE quotes SET customer_name=?, customer_email=?, customer_phone=?,
    pool_config_json=?, subtotal=?, discount_percent=?, discount_amount=?,
    total_price=?, status=?, valid_until=?, updated_at=CURRENT_TIMESTAMP
  WHERE id=?`,
		q.CustomerName, q.CustomerEmail, q.CustomerPhone,
		q.PoolConfig, q.Subtotal, q.DiscountPercent, q.DiscountAmount,
		q.TotalPrice, q.Status, q.ValidUntil, q.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM quote_items WHERE quote_id = ?`, q.ID); err != nil {
		return err
	}
	if err := insertItems(tx, q.ID, items); err != nil {
		return err
	}
	return tx.Commit()
}

// ---------- Variants ----------

func (r *QuoteRepo) CreateVariant(v domain.QuoteVariant) error {
	_, err := r.db.Exec(`
  INSERT INTO quote_variants(id, quote_id, name, subtotal, discount_percent,
    discount_amount, total_price, sort_order)
  VALUES(?,?,?,?,?,?,?,?)`,
		v.ID, v.QuoteID, v.Name, v.Subtotal, v.DiscountPercent,
		v.DiscountAmount, v.TotalPrice, v.SortOrder)
	return err
}

func (r *QuoteRepo) Variants(quoteID string) ([]domain.QuoteVariant, error) {
	var out []domain.QuoteVariant
	err := r.db.Select(&out, `
  SELECT id, quote_id, name, subtotal, discount_percent, discount_amount,
    total_price, sort_order
  FROM quote_variants
  WHERE quote_id = ?
  ORDER BY sort_order, id`, quoteID)
	return out, err
}

func (r *QuoteRepo) GetVariant(id string) (domain.QuoteVariant, error) {
	var v domain.QuoteVariant
	err := r.db.Get(&v, `
  SELECT id, quote_id, name, subtotal, discount_percent, discount_amount,
    total_price, sort_order
  FROM quote_variants WHERE id = ?`, id)
	return v, err
}

func (r *QuoteRepo) DeleteVariant(id string) error {
	_, err := r.db.Exec(`DELETE FROM quote_variants WHERE id=?`, id)
	return err
}

func (r *QuoteRepo) AssignItemToVariant(itemID, variantID string) error {
	_, err := r.db.Exec(`
  INSERT INTO quote_item_variants(quote_item_id, quote_variant_id)
  VALUES(?,?)
  ON CONFLICT(quote_item_id, quote_variant_id) DO NOTHING`, itemID, variantID)
	return err
}

func (r *QuoteRepo) UnassignItemFromVariant(itemID, variantID string) error {
	_, err := r.db.Exec(`
  DELETE FROM quote_item_variants WHERE quote_item_id=? AND quote_variant_id=?`,
		itemID, variantID)
	return err
}

// VariantItemSubtotal sums only the items linked to the variant.
func (r *QuoteRepo) VariantItemSubtotal(variantID string) (float64, error) {
	var sum float64
	err := r.db.Get(&sum, `
  SELECT COALESCE(SUM(qi.total_price),0)
  FROM quote_item_variants qiv
  JOIN quote_items qi ON qi.id = qiv.quote_item_id
  WHERE qiv.quote_variant_id = ?`, variantID)
	return sum, err
}

func (r *QuoteRepo) UpdateVariantTotals(v domain.QuoteVariant) error {
	_, err := r.db.Exec(`
  UPDATE quote_variants SET subtotal=?, discount_percent=?, discount_amount=?,
    total_price=?
  WHERE id=?`,
		v.Subtotal, v.DiscountPercent, v.DiscountAmount, v.TotalPrice, v.ID)
	return err
}
