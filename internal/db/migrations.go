// internal/db/migrations.go
package db

import "fmt"

const authSchema = `
CREATE TABLE IF NOT EXISTS users (
    id                  TEXT PRIMARY KEY,
    email               TEXT UNIQUE NOT NULL,
    encrypted_password  TEXT NOT NULL,
    first_name          TEXT,
    last_name           TEXT,
    role                TEXT DEFAULT 'seller',
    last_sign_in_at     TEXT,
    created_at          TEXT DEFAULT (datetime('now')),
    updated_at          TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

CREATE TABLE IF NOT EXISTS sessions (
    id          TEXT PRIMARY KEY,
    user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at  TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);

CREATE TABLE IF NOT EXISTS refresh_tokens (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    token       TEXT UNIQUE NOT NULL,
    user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    session_id  TEXT REFERENCES sessions(id) ON DELETE CASCADE,
    revoked     INTEGER DEFAULT 0,
    created_at  TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_refresh_tokens_token ON refresh_tokens(token);
`

const integrationSchema = `
CREATE TABLE IF NOT EXISTS meli_auth_states (
    state          TEXT PRIMARY KEY,
    user_id        TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    code_verifier  TEXT NOT NULL,
    created_at     TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_meli_auth_states_user_id ON meli_auth_states(user_id);

CREATE TABLE IF NOT EXISTS marketplace_credentials (
    user_id              TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    provider             TEXT NOT NULL,
    access_token         TEXT NOT NULL,
    refresh_token        TEXT NOT NULL,
    external_account_id  TEXT,
    expires_at           TEXT NOT NULL,
    created_at           TEXT DEFAULT (datetime('now')),
    updated_at           TEXT DEFAULT (datetime('now')),
    PRIMARY KEY (user_id, provider)
);
`

const catalogSchema = `
CREATE TABLE IF NOT EXISTS products (
    id          TEXT PRIMARY KEY,
    user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name        TEXT NOT NULL,
    sku         TEXT,
    description TEXT,
    category    TEXT,
    cost        REAL,
    price       REAL,
    stock       INTEGER DEFAULT 0,
    image_url   TEXT,
    created_at  TEXT DEFAULT (datetime('now')),
    updated_at  TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_products_user_id ON products(user_id);

CREATE TABLE IF NOT EXISTS marketplace_listings (
    id           TEXT PRIMARY KEY,
    user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    product_id   TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
    marketplace  TEXT NOT NULL,
    title        TEXT NOT NULL,
    description  TEXT,
    price        REAL NOT NULL,
    status       TEXT NOT NULL DEFAULT 'draft',
    external_id  TEXT,
    url          TEXT,
    created_at   TEXT DEFAULT (datetime('now')),
    updated_at   TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_marketplace_listings_user_id ON marketplace_listings(user_id);
CREATE INDEX IF NOT EXISTS idx_marketplace_listings_product_id ON marketplace_listings(product_id);

CREATE TABLE IF NOT EXISTS sales (
    id                      TEXT PRIMARY KEY,
    user_id                 TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    product_id              TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
    marketplace_listing_id  TEXT REFERENCES marketplace_listings(id) ON DELETE SET NULL,
    marketplace             TEXT NOT NULL,
    quantity                INTEGER NOT NULL,
    price                   REAL NOT NULL,
    fee                     REAL DEFAULT 0,
    profit                  REAL DEFAULT 0,
    total                   REAL NOT NULL,
    sale_date               TEXT NOT NULL,
    created_at              TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_sales_user_id ON sales(user_id);
CREATE INDEX IF NOT EXISTS idx_sales_sale_date ON sales(sale_date);

CREATE TABLE IF NOT EXISTS generated_descriptions (
    id           TEXT PRIMARY KEY,
    user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    product_id   TEXT REFERENCES products(id) ON DELETE SET NULL,
    marketplace  TEXT NOT NULL,
    style        TEXT,
    title        TEXT NOT NULL,
    description  TEXT NOT NULL,
    tags         TEXT,
    created_at   TEXT DEFAULT (datetime('now')),
    updated_at   TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_generated_descriptions_user_id ON generated_descriptions(user_id);
`

const settingsSchema = `
CREATE TABLE IF NOT EXISTS system_settings (
    key         TEXT PRIMARY KEY,
    value       TEXT NOT NULL,
    updated_at  TEXT DEFAULT (datetime('now'))
);
`

func (db *DB) RunMigrations() error {
	_, err := db.Exec(authSchema)
	if err != nil {
		return fmt.Errorf("failed to run auth migrations: %w", err)
	}

	_, err = db.Exec(integrationSchema)
	if err != nil {
		return fmt.Errorf("failed to run integration migrations: %w", err)
	}

	_, err = db.Exec(catalogSchema)
	if err != nil {
		return fmt.Errorf("failed to run catalog migrations: %w", err)
	}

	_, err = db.Exec(settingsSchema)
	if err != nil {
		return fmt.Errorf("failed to run settings migrations: %w", err)
	}

	return nil
}
