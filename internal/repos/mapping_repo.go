package repos

import (
	"poolquote/internal/domain"

	"github.com/jmoiron/sqlx"
)

type MappingRuleRepo struct{ db *sqlx.DB }

func NewMappingRuleRepo(db *sqlx.DB) *MappingRuleRepo { return &MappingRuleRepo{db: db} }

const ruleCols = `id, field, value, shapes_json, product_id, quantity, sort_order, active`

// ListActiveByField returns candidate rules for one configurator
// choice, ordered so the generator's first-match pick is deterministic.
func (r *MappingRuleRepo) ListActiveByField(field, value string) ([]domain.MappingRule, error) {
	var out []domain.MappingRule
	err := r.db.Select(&out, `
  SELECT `+ruleCols+`
  FROM mapping_rules
  WHERE field = ? AND value = ? AND active = 1
  ORDER BY sort_order, id`, field, value)
	return out, err
}

func (r *MappingRuleRepo) ListAll() ([]domain.MappingRule, error) {
	var out []domain.MappingRule
	err := r.db.Select(&out, `
  SELECT `+ruleCols+`
  FROM mapping_rules
  ORDER BY field, value, sort_order, id`)
	return out, err
}

func (r *MappingRuleRepo) Create(m domain.MappingRule) error {
	_, err := r.db.Exec(`
  INSERT INTO mapping_rules(id, field, value, shapes_json, product_id, quantity, sort_order, active)
  VALUES(?,?,?,?,?,?,?,?)`,
		m.ID, m.Field, m.Value, m.Shapes, m.ProductID, m.Quantity, m.SortOrder, m.Active)
	return err
}

func (r *MappingRuleRepo) Update(m domain.MappingRule) error {
	_, err := r.db.Exec(`
  UPDATE mapping_rules SET field=?, value=?, shapes_json=?, product_id=?,
    quantity=?, sort_order=?, active=?
  WHERE id=?`,
		m.Field, m.Value, m.Shapes, m.ProductID, m.Quantity, m.SortOrder, m.Active, m.ID)
	return err
}

func (r *MappingRuleRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM mapping_rules WHERE id=?`, id)
	return err
}

// CountUnassigned counts active rules with no product. The dashboard
// shows this so admins notice incomplete mappings; generation just
// skips them.
func (r *MappingRuleRepo) CountUnassigned() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM mapping_rules WHERE active = 1 AND product_id = ''`)
	return n, err
}
