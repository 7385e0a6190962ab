package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"parkvendor/internal/repository"
)

type VendorAuthService interface {
	Login(email, password string) (string, error)
	Register(name, email, phone, password string) error
}

type vendorAuthService struct {
	repo      repository.VendorRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewVendorAuthService(repo repository.VendorRepository, jwtSecret string) VendorAuthService {
	return &vendorAuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: 12 * time.Hour}
}

func (s *vendorAuthService) Login(email, password string) (string, error) {
	vendor, err := s.repo.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if vendor == nil {
		return "", errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(vendor.PasswordHash), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	claims := jwt.MapClaims{
		"vendor_id": vendor.ID,
		"email":     vendor.Email,
		"exp":       time.Now().Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *vendorAuthService) Register(name, email, phone, password string) error {
	if email == "" || password == "" {
		return errors.New("email and password cannot be empty")
	}
	return s.repo.Create(name, email, phone, password)
}
