package database

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Versions must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS organizations (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS departments (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	organization_id INTEGER NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
	name            TEXT NOT NULL,
	created_at      DATETIME NOT NULL,
	updated_at      DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	username        TEXT NOT NULL,
	email           TEXT NOT NULL UNIQUE,
	hashed_password TEXT NOT NULL,
	role            TEXT NOT NULL DEFAULT 'BASIC',
	active          INTEGER NOT NULL DEFAULT 1,
	organization_id INTEGER REFERENCES organizations(id) ON DELETE SET NULL,
	department_id   INTEGER REFERENCES departments(id) ON DELETE SET NULL,
	reset_token     TEXT,
	reset_token_exp DATETIME,
	last_active_at  DATETIME,
	created_at      DATETIME NOT NULL,
	updated_at      DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title      TEXT NOT NULL,
	message    TEXT NOT NULL,
	type       TEXT NOT NULL DEFAULT 'INFO',
	status     TEXT NOT NULL DEFAULT 'UNREAD',
	system     INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS permissions (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id  INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	module   TEXT NOT NULL,
	can_view INTEGER NOT NULL DEFAULT 0,
	UNIQUE (user_id, module)
);

CREATE TABLE IF NOT EXISTS inventory_items (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	sku          TEXT NOT NULL UNIQUE,
	name         TEXT NOT NULL,
	category     TEXT NOT NULL DEFAULT '',
	quantity     INTEGER NOT NULL DEFAULT 0,
	unit         TEXT NOT NULL DEFAULT 'pcs',
	min_quantity INTEGER NOT NULL DEFAULT 0,
	unit_price   REAL NOT NULL DEFAULT 0,
	created_at   DATETIME NOT NULL,
	updated_at   DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS purchase_orders (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	order_number TEXT NOT NULL UNIQUE,
	supplier     TEXT NOT NULL,
	item_id      INTEGER REFERENCES inventory_items(id) ON DELETE SET NULL,
	quantity     INTEGER NOT NULL DEFAULT 0,
	unit_cost    REAL NOT NULL DEFAULT 0,
	status       TEXT NOT NULL DEFAULT 'DRAFT',
	requested_by INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at   DATETIME NOT NULL,
	updated_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id);
CREATE INDEX IF NOT EXISTS idx_notifications_user_status ON notifications(user_id, status);
CREATE INDEX IF NOT EXISTS idx_notifications_created ON notifications(created_at);
CREATE INDEX IF NOT EXISTS idx_permissions_user ON permissions(user_id);
CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);
CREATE INDEX IF NOT EXISTS idx_purchase_orders_status ON purchase_orders(status);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
