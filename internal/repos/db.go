package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed a baseline catalog if DB is empty (idempotent on restart)
	if err := seedCatalogIfEmpty(db); err != nil {
		return nil, err
	}
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Product catalog
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  unit TEXT NOT NULL DEFAULT 'ks',
  unit_price NUMERIC NOT NULL DEFAULT 0 CHECK (unit_price >= 0),
  price_type TEXT NOT NULL DEFAULT 'fixed'
    CHECK (price_type IN ('fixed','percentage','surface_coefficient')),
  price_percentage NUMERIC NOT NULL DEFAULT 0,
  price_ref_product_id TEXT NOT NULL DEFAULT '',
  price_minimum NUMERIC NOT NULL DEFAULT 0,
  price_coefficient NUMERIC NOT NULL DEFAULT 0,
  coefficient_basis TEXT NOT NULL DEFAULT 'surface'
    CHECK (coefficient_basis IN ('surface','perimeter')),
  required_surcharges_json TEXT NOT NULL DEFAULT '',
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_name     ON products(LOWER(name));

-- Conditional extras bundled with one specific set product
CREATE TABLE IF NOT EXISTS set_addons(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL DEFAULT 0,
  trigger_kind TEXT NOT NULL DEFAULT '',
  trigger_value TEXT NOT NULL DEFAULT '',
  sort_order INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_set_addons_product ON set_addons(product_id);

-- Configurator choice -> product mappings
CREATE TABLE IF NOT EXISTS mapping_rules(
  id TEXT PRIMARY KEY,
  field TEXT NOT NULL,
  value TEXT NOT NULL,
  shapes_json TEXT NOT NULL DEFAULT '',
  product_id TEXT NOT NULL DEFAULT '',
  quantity NUMERIC NOT NULL DEFAULT 1,
  sort_order INTEGER NOT NULL DEFAULT 0,
  active INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_mapping_rules_field ON mapping_rules(field, value);

-- Customer wizard submissions
CREATE TABLE IF NOT EXISTS configurations(
  id TEXT PRIMARY KEY,
  shape TEXT NOT NULL,
  type TEXT NOT NULL DEFAULT 'skimmer',
  width NUMERIC NOT NULL DEFAULT 0,
  length NUMERIC NOT NULL DEFAULT 0,
  diameter NUMERIC NOT NULL DEFAULT 0,
  depth NUMERIC NOT NULL DEFAULT 0,
  color TEXT NOT NULL DEFAULT '',
  stairs TEXT NOT NULL DEFAULT '',
  thickness TEXT NOT NULL DEFAULT '',
  technology TEXT NOT NULL DEFAULT '',
  lighting TEXT NOT NULL DEFAULT '',
  counterflow TEXT NOT NULL DEFAULT '',
  water_treatment TEXT NOT NULL DEFAULT '',
  heating TEXT NOT NULL DEFAULT '',
  roofing TEXT NOT NULL DEFAULT '',
  customer_name TEXT NOT NULL DEFAULT '',
  customer_email TEXT NOT NULL DEFAULT '',
  customer_phone TEXT NOT NULL DEFAULT '',
  pipedrive_status TEXT NOT NULL DEFAULT 'pending'
    CHECK (pipedrive_status IN ('pending','success','error')),
  pipedrive_error TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_configurations_created ON configurations(created_at);

-- Quotes
CREATE TABLE IF NOT EXISTS quotes(
  id TEXT PRIMARY KEY,
  quote_number TEXT NOT NULL UNIQUE,
  configuration_id TEXT NOT NULL DEFAULT '',
  customer_name TEXT NOT NULL DEFAULT '',
  customer_email TEXT NOT NULL DEFAULT '',
  customer_phone TEXT NOT NULL DEFAULT '',
  pool_config_json TEXT NOT NULL DEFAULT '',
  subtotal NUMERIC NOT NULL DEFAULT 0,
  discount_percent NUMERIC NOT NULL DEFAULT 0,
  discount_amount NUMERIC NOT NULL DEFAULT 0,
  total_price NUMERIC NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'draft'
    CHECK (status IN ('draft','sent','accepted','rejected')),
  valid_until TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_quotes_created ON quotes(created_at);
CREATE INDEX IF NOT EXISTS idx_quotes_status  ON quotes(status);

CREATE TABLE IF NOT EXISTS quote_items(
  id TEXT PRIMARY KEY,
  quote_id TEXT NOT NULL REFERENCES quotes(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT '',
  quantity NUMERIC NOT NULL DEFAULT 1,
  unit TEXT NOT NULL DEFAULT 'ks',
  unit_price NUMERIC NOT NULL DEFAULT 0,
  total_price NUMERIC NOT NULL DEFAULT 0,
  sort_order INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_quote_items_quote ON quote_items(quote_id);

CREATE TABLE IF NOT EXISTS quote_variants(
  id TEXT PRIMARY KEY,
  quote_id TEXT NOT NULL REFERENCES quotes(id) ON DELETE CASCADE,
  name TEXT NOT NULL CHECK (name IN ('ekonomicka','optimalni','premiova')),
  subtotal NUMERIC NOT NULL DEFAULT 0,
  discount_percent NUMERIC NOT NULL DEFAULT 0,
  discount_amount NUMERIC NOT NULL DEFAULT 0,
  total_price NUMERIC NOT NULL DEFAULT 0,
  sort_order INTEGER NOT NULL DEFAULT 0,
  UNIQUE(quote_id, name)
);

CREATE TABLE IF NOT EXISTS quote_item_variants(
  quote_item_id TEXT NOT NULL REFERENCES quote_items(id) ON DELETE CASCADE,
  quote_variant_id TEXT NOT NULL REFERENCES quote_variants(id) ON DELETE CASCADE,
  PRIMARY KEY (quote_item_id, quote_variant_id)
);

-- Append-only snapshots for restore
CREATE TABLE IF NOT EXISTS quote_versions(
  id TEXT PRIMARY KEY,
  quote_id TEXT NOT NULL REFERENCES quotes(id) ON DELETE CASCADE,
  version_number INTEGER NOT NULL,
  snapshot_json TEXT NOT NULL,
  note TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(quote_id, version_number)
);

-- Contracts and factory tickets
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  quote_id TEXT NOT NULL UNIQUE REFERENCES quotes(id),
  customer_name TEXT NOT NULL DEFAULT '',
  total NUMERIC NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'new'
    CHECK (status IN ('new','in_progress','done','canceled')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS production_orders(
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  ticket_number TEXT NOT NULL,
  checklist_json TEXT NOT NULL DEFAULT '[]',
  status TEXT NOT NULL DEFAULT 'queued'
    CHECK (status IN ('queued','building','finished')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_production_orders_order ON production_orders(order_id);

-- Back-office users & sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('ADMIN','SALES')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedCatalogIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting baseline catalog (skeletons, sets, accessories, mapping rules)")

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	// Skeletons are priced per m² of wetted surface; sets are fixed
	// bundles replacing the skeleton for exact stock dimensions.
	tx.MustExec(`INSERT INTO products(id,code,name,category,unit,unit_price,price_type,price_coefficient,coefficient_basis) VALUES
	  ('skelet-obdelnik','SKELET-OBD','Bazénový skelet obdélník','skelety','m2',0,'surface_coefficient',1450,'surface'),
	  ('skelet-kruh','SKELET-KRUH','Bazénový skelet kruh','skelety','m2',0,'surface_coefficient',1520,'surface')`)

	tx.MustExec(`INSERT INTO products(id,code,name,category,unit,unit_price,price_type) VALUES
	  ('set-6-3','SET-6-3','SET 6×3×1,5 m se skimmerem','sety','ks',129900,'fixed'),
	  ('set-7-3','SET-7-3','SET 7×3×1,5 m se skimmerem','sety','ks',144900,'fixed')`)

	tx.MustExec(`INSERT INTO set_addons(id,product_id,name,price,trigger_kind,trigger_value,sort_order) VALUES
	  ('sa-63-d12','set-6-3','Hloubka 1,2 m',-4500,'depth','1.2',1),
	  ('sa-63-d15','set-6-3','Hloubka 1,5 m',0,'depth','1.5',2),
	  ('sa-63-ostre','set-6-3','Ostré rohy',6900,'sharp_corners','',3),
	  ('sa-63-sch-sirka','set-6-3','Schody přes šířku',12500,'stairs','pres_sirku',4),
	  ('sa-63-sch-troj','set-6-3','Trojúhelníkové schody',9800,'stairs','trojuhelnikove',5),
	  ('sa-63-kotveni','set-6-3','Kotvení do svahu',7400,'','',6)`)

	// Accessory products. The 8mm surcharge is per m²; the rim finish is
	// a legacy running-meter item; chemistry startup is a percentage of
	// the water-treatment unit.
	tx.MustExec(`INSERT INTO products(id,code,name,category,unit,unit_price,price_type,price_percentage,price_ref_product_id,price_minimum,price_coefficient,coefficient_basis) VALUES
	  ('pripl-8mm','PRIPL-8MM','Příplatek stěna 8 mm','skelety','m2',0,'surface_coefficient',0,'',0,180,'surface'),
	  ('lem-bazen','LEM-BM','Bazénový lem','prislusenstvi','bm',0,'surface_coefficient',0,'',0,390,'perimeter'),
	  ('schody-sirka','SCH-SIRKA','Schody přes šířku bazénu','prislusenstvi','ks',14900,'fixed',0,'',0,0,'surface'),
	  ('schody-troj','SCH-TROJ','Trojúhelníkové schody','prislusenstvi','ks',11900,'fixed',0,'',0,0,'surface'),
	  ('schody-rom','SCH-ROM','Románské schody','prislusenstvi','ks',16900,'fixed',0,'',0,0,'surface'),
	  ('tech-sachta','TECH-SACHTA','Technologická šachta','technologie','ks',38900,'fixed',0,'',0,0,'surface'),
	  ('tech-stena','TECH-STENA','Technologie ve stěně','technologie','ks',27900,'fixed',0,'',0,0,'surface'),
	  ('svetlo-led','SVETLO-LED','LED světlo s trafem','prislusenstvi','ks',5900,'fixed',0,'',0,0,'surface'),
	  ('protiproud','PROTIPROUD','Protiproud 66 m³/h','prislusenstvi','ks',32900,'fixed',0,'',0,0,'surface'),
	  ('upravna-sul','UPRAVNA-SUL','Solná úpravna vody','technologie','ks',24900,'fixed',0,'',0,0,'surface'),
	  ('chemie-start','CHEMIE-START','Startovací chemie','sluzby','ks',0,'percentage',8,'upravna-sul',1500,0,'surface'),
	  ('top-cerpadlo','TOP-CERP','Tepelné čerpadlo 9 kW','technologie','ks',54900,'fixed',0,'',0,0,'surface'),
	  ('zastreseni-nizke','ZASTR-NIZKE','Zastřešení nízké','prislusenstvi','ks',89900,'fixed',0,'',0,0,'surface'),
	  ('doprava-montaz','DOPRAVA','Doprava a montáž','doprava','ks',0,'percentage',5,'skelet-obdelnik',4900,0,'surface')`)

	tx.MustExec(`INSERT INTO mapping_rules(id,field,value,shapes_json,product_id,quantity,sort_order) VALUES
	  ('mr-shape-obd','shape','rectangle','','skelet-obdelnik',1,0),
	  ('mr-shape-obd-ostre','shape','rectangle_sharp','','skelet-obdelnik',1,0),
	  ('mr-shape-kruh','shape','circle','','skelet-kruh',1,0),
	  ('mr-thick-8','thickness','8mm','["rectangle","rectangle_sharp"]','pripl-8mm',1,0),
	  ('mr-stairs-sirka','stairs','pres_sirku','["rectangle","rectangle_sharp"]','schody-sirka',1,0),
	  ('mr-stairs-troj','stairs','trojuhelnikove','["rectangle","rectangle_sharp"]','schody-troj',1,0),
	  ('mr-stairs-rom','stairs','romanske','','schody-rom',1,0),
	  ('mr-tech-sachta','technology','shaft','','tech-sachta',1,0),
	  ('mr-tech-stena','technology','wall','','tech-stena',1,0),
	  ('mr-light-led','lighting','led','','svetlo-led',1,0),
	  ('mr-light-led2','lighting','led_2x','','svetlo-led',2,1),
	  ('mr-counterflow','counterflow','yes','','protiproud',1,0),
	  ('mr-water-sul','water_treatment','salt','','upravna-sul',1,0),
	  ('mr-heat-cerp','heating','heat_pump','','top-cerpadlo',1,0),
	  ('mr-roof-nizke','roofing','low','','zastreseni-nizke',1,0),
	  ('mr-roof-vysoke','roofing','high','','',1,0)`)

	return tx.Commit()
}

// seedUsers ensures one ADMIN and one SALES account exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-admin", "admin@poolquote.test", "Admin", "ADMIN", "Passw0rd!"),
		mk("u-obchod", "obchod@poolquote.test", "Obchod", "SALES", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
