package db

import "database/sql"

const schema = `
CREATE TABLE IF NOT EXISTS vendors (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	phone TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS bookings (
	id SERIAL PRIMARY KEY,
	vendor_id INTEGER NOT NULL REFERENCES vendors(id),
	user_id INTEGER,
	customer_name TEXT NOT NULL DEFAULT '',
	customer_phone TEXT NOT NULL DEFAULT '',
	customer_email TEXT NOT NULL DEFAULT '',
	service_type TEXT NOT NULL,
	book_type TEXT NOT NULL,
	subscription_type TEXT,
	vehicle_category TEXT NOT NULL,
	vehicle_number TEXT NOT NULL,
	booking_date TEXT NOT NULL,
	booking_time TEXT NOT NULL,
	parked_date TEXT,
	parked_time TEXT,
	exit_date TEXT,
	exit_time TEXT,
	status TEXT NOT NULL,
	otp TEXT,
	amount INTEGER,
	gst INTEGER,
	handling_fee INTEGER,
	total INTEGER,
	duration_label TEXT,
	payment_status TEXT,
	stripe_session_id TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_bookings_vendor ON bookings (vendor_id);
CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings (status);

CREATE TABLE IF NOT EXISTS charges (
	id SERIAL PRIMARY KEY,
	vendor_id INTEGER NOT NULL REFERENCES vendors(id),
	category TEXT NOT NULL,
	tier_kind TEXT NOT NULL,
	amount NUMERIC(10,2) NOT NULL,
	covered_hours INTEGER NOT NULL DEFAULT 0,
	UNIQUE (vendor_id, category, tier_kind)
);

CREATE TABLE IF NOT EXISTS fee_config (
	id INTEGER PRIMARY KEY DEFAULT 1,
	gst_percent NUMERIC(5,2) NOT NULL DEFAULT 18,
	handling_fee NUMERIC(10,2) NOT NULL DEFAULT 0
);

INSERT INTO fee_config (id) VALUES (1) ON CONFLICT (id) DO NOTHING;
`

// EnsureSchema creates the tables on first run. Statements are idempotent.
func EnsureSchema(conn *sql.DB) error {
	_, err := conn.Exec(schema)
	return err
}
