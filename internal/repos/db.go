package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// :memory: databases are per connection
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed the demo catalog if DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Filter definitions
CREATE TABLE IF NOT EXISTS filter_definitions(
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  page_limit INTEGER NOT NULL DEFAULT 12 CHECK (page_limit > 0),
  fields_json TEXT NOT NULL DEFAULT '[]'
);

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  parent_id INTEGER NOT NULL DEFAULT 0,
  filter_definition_id INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_categories_parent ON categories(parent_id);

-- Products (cars and accessory parts share one table, class_id discriminates)
CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY,
  class_id TEXT NOT NULL CHECK (class_id IN ('CAR','AP')),
  object_type TEXT NOT NULL DEFAULT '',
  parent_id INTEGER NOT NULL DEFAULT 0,
  name TEXT NOT NULL,
  manufacturer TEXT NOT NULL DEFAULT '',
  colors_json TEXT NOT NULL DEFAULT '[]',
  car_class TEXT NOT NULL DEFAULT '',
  category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  price NUMERIC NOT NULL DEFAULT 0 CHECK (price >= 0),
  image_path TEXT NOT NULL DEFAULT '',
  published INTEGER NOT NULL DEFAULT 1,
  accessory_ids_json TEXT NOT NULL DEFAULT '[]',
  compatible_ids_json TEXT NOT NULL DEFAULT '[]',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);

-- Relational product index, one partition per tenant
CREATE TABLE IF NOT EXISTS product_index(
  tenant TEXT NOT NULL,
  id INTEGER NOT NULL,
  class_id TEXT NOT NULL,
  is_virtual INTEGER NOT NULL DEFAULT 0,
  published INTEGER NOT NULL DEFAULT 1,
  name TEXT NOT NULL,
  manufacturer_name TEXT NOT NULL DEFAULT '',
  color TEXT NOT NULL DEFAULT '',
  car_class TEXT NOT NULL DEFAULT '',
  category_ids TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL DEFAULT 0,
  PRIMARY KEY(tenant, id)
);
CREATE INDEX IF NOT EXISTS idx_product_index_name ON product_index(tenant, LOWER(name));

-- Segment tracking for personalization
CREATE TABLE IF NOT EXISTS visitor_segments(
  visitor_id TEXT NOT NULL,
  segment TEXT NOT NULL,
  hits INTEGER NOT NULL DEFAULT 0,
  updated_at TEXT,
  PRIMARY KEY(visitor_id, segment)
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo filter definitions/categories/products")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO filter_definitions(id,name,page_limit,fields_json) VALUES
	  (1,'Cars',6,'[{"type":"category","field":"categoryIds","label":"Category"},{"type":"select","field":"manufacturer","label":"Manufacturer"},{"type":"multiselect","field":"color","label":"Color"},{"type":"select","field":"carClass","label":"Class"},{"type":"range","field":"price","label":"Price"}]'),
	  (2,'Accessories',9,'[{"type":"category","field":"categoryIds","label":"Category"},{"type":"select","field":"manufacturer","label":"Manufacturer"},{"type":"range","field":"price","label":"Price"}]'),
	  (3,'Search',12,'[{"type":"category","field":"categoryIds","label":"Category"},{"type":"multiselect","field":"color","label":"Color"},{"type":"range","field":"price","label":"Price"}]')`)

	tx.MustExec(`INSERT INTO categories(id,name,parent_id,filter_definition_id) VALUES
	  (1,'Cars',0,1),
	  (2,'Sports Cars',1,1),
	  (3,'Limousines',1,0),
	  (4,'Accessories',0,2),
	  (5,'Wheels',4,2)`)

	tx.MustExec(`INSERT INTO products(id,class_id,object_type,parent_id,name,manufacturer,colors_json,car_class,category_id,price,image_path,published,accessory_ids_json,compatible_ids_json) VALUES
	  (100,'CAR','virtual-car',0,'Jaguar E-Type','Jaguar','[]','Sports Car',2,0,'',1,'[]','[]'),
	  (101,'CAR','actual-car',100,'Jaguar E-Type','Jaguar','["red"]','Sports Car',2,89000,'products/101/main.jpg',1,'[200,201]','[]'),
	  (102,'CAR','actual-car',100,'Jaguar E-Type','Jaguar','["green","black"]','Sports Car',2,92000,'products/102/main.jpg',1,'[200]','[]'),
	  (103,'CAR','actual-car',0,'Mercedes 300 SL','Mercedes-Benz','["silver"]','Sports Car',2,1250000,'products/103/main.jpg',1,'[]','[]'),
	  (104,'CAR','actual-car',0,'Cadillac Fleetwood','Cadillac','["black"]','Limousine',3,45000,'products/104/main.jpg',1,'[202]','[]'),
	  (105,'CAR','actual-car',0,'Bentley Mulsanne','Bentley','["blue"]','Limousine',3,150000,'products/105/main.jpg',0,'[]','[]'),
	  (200,'AP','',0,'Chrome Hubcap','Jaguar','[]','',5,120,'products/200/main.jpg',1,'[]','[101,102,103]'),
	  (201,'AP','',0,'Leather Steering Wheel','Nardi','[]','',4,640,'products/201/main.jpg',1,'[]','[101]'),
	  (202,'AP','',0,'Whitewall Tyre','Firestone','[]','',5,210,'products/202/main.jpg',1,'[]','[104]')`)

	return tx.Commit()
}
