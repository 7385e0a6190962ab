package repository

import (
	"database/sql"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"parkvendor/internal/db"
)

type VendorRepository interface {
	GetByEmail(email string) (*db.Vendor, error)
	Create(name, email, phone, password string) error
}

type vendorRepository struct {
	db *sql.DB
}

func NewVendorRepository(db *sql.DB) VendorRepository {
	return &vendorRepository{db: db}
}

func (r *vendorRepository) GetByEmail(email string) (*db.Vendor, error) {
	var v db.Vendor
	err := r.db.QueryRow(
		`SELECT id, name, email, phone, password_hash FROM vendors WHERE email = $1`, email).
		Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *vendorRepository) Create(name, email, phone, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(
		`INSERT INTO vendors (name, email, phone, password_hash, created_at) VALUES ($1, $2, $3, $4, NOW())`,
		name, email, phone, hashed)
	return err
}
