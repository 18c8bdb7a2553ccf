package domain

// Configurator field names. Accessory resolution walks these in this
// exact order; quotes must always list the pool first, then stairs and
// technology, then the remaining accessories.
const (
	FieldStairs         = "stairs"
	FieldTechnology     = "technology"
	FieldLighting       = "lighting"
	FieldCounterflow    = "counterflow"
	FieldWaterTreatment = "water_treatment"
	FieldHeating        = "heating"
	FieldRoofing        = "roofing"
)

// AccessoryFields is the resolution order for mapping-rule-driven items.
var AccessoryFields = []string{
	FieldStairs,
	FieldTechnology,
	FieldLighting,
	FieldCounterflow,
	FieldWaterTreatment,
	FieldHeating,
	FieldRoofing,
}

// CRM sync states for a configuration.
const (
	SyncPending = "pending"
	SyncSuccess = "success"
	SyncError   = "error"
)

// Configuration is a customer's wizard submission (or a manually
// entered equivalent). Contact and pool facts are immutable after
// creation; only the CRM sync status mutates.
type Configuration struct {
	ID             string  `db:"id"`
	Shape          string  `db:"shape"` // circle | rectangle | rectangle_sharp
	Type           string  `db:"type"`  // skimmer | prelivovy
	Width          float64 `db:"width"`
	Length         float64 `db:"length"`
	Diameter       float64 `db:"diameter"`
	Depth          float64 `db:"depth"`
	Color          string  `db:"color"`
	Stairs         string  `db:"stairs"`
	Thickness      string  `db:"thickness"` // "" (standard) | 8mm
	Technology     string  `db:"technology"`
	Lighting       string  `db:"lighting"`
	Counterflow    string  `db:"counterflow"`
	WaterTreatment string  `db:"water_treatment"`
	Heating        string  `db:"heating"`
	Roofing        string  `db:"roofing"`
	CustomerName   string  `db:"customer_name"`
	CustomerEmail  string  `db:"customer_email"`
	CustomerPhone  string  `db:"customer_phone"`
	PipedriveStatus string `db:"pipedrive_status"` // pending | success | error
	PipedriveError  string `db:"pipedrive_error"`
	CreatedAt       string `db:"created_at"`
}

// FieldValue returns the configurator value for a mapping-rule field.
func (c Configuration) FieldValue(field string) string {
	switch field {
	case FieldStairs:
		return c.Stairs
	case FieldTechnology:
		return c.Technology
	case FieldLighting:
		return c.Lighting
	case FieldCounterflow:
		return c.Counterflow
	case FieldWaterTreatment:
		return c.WaterTreatment
	case FieldHeating:
		return c.Heating
	case FieldRoofing:
		return c.Roofing
	}
	return ""
}
