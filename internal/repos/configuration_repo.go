package repos

import (
	"poolquote/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ConfigurationRepo struct{ db *sqlx.DB }

func NewConfigurationRepo(db *sqlx.DB) *ConfigurationRepo { return &ConfigurationRepo{db: db} }

const configCols = `
  id, shape, type, width, length, diameter, depth, color, stairs, thickness,
  technology, lighting, counterflow, water_treatment, heating, roofing,
  customer_name, customer_email, customer_phone,
  pipedrive_status, pipedrive_error, created_at`

func (r *ConfigurationRepo) Create(c domain.Configuration) error {
	_, err := r.db.Exec(`
  INSERT INTO configurations(id, shape, type, width, length, diameter, depth,
    color, stairs, thickness, technology, lighting, counterflow,
    water_treatment, heating, roofing,
    customer_name, customer_email, customer_phone, pipedrive_status)
  VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		c.ID, c.Shape, c.Type, c.Width, c.Length, c.Diameter, c.Depth,
		c.Color, c.Stairs, c.Thickness, c.Technology, c.Lighting, c.Counterflow,
		c.WaterTreatment, c.Heating, c.Roofing,
		c.CustomerName, c.CustomerEmail, c.CustomerPhone, domain.SyncPending)
	return err
}

func (r *ConfigurationRepo) Get(id string) (domain.Configuration, error) {
	var c domain.Configuration
	err := r.db.Get(&c, `SELECT `+configCols+` FROM configurations WHERE id = ?`, id)
	return c, err
}

func (r *ConfigurationRepo) ListLatest(limit int) ([]domain.Configuration, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.Configuration
	err := r.db.Select(&out, `
  SELECT `+configCols+`
  FROM configurations
  ORDER BY datetime(created_at) DESC
  LIMIT ?`, limit)
	return out, err
}

// UpdateSyncStatus records the CRM push outcome. Pool and contact
// facts stay immutable; only the sync state moves.
func (r *ConfigurationRepo) UpdateSyncStatus(id, status, errText string) error {
	_, err := r.db.Exec(`
  UPDATE configurations SET pipedrive_status=?, pipedrive_error=? WHERE id=?`,
		status, errText, id)
	return err
}
