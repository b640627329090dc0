package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alejogim/sistema-de-reserva/internal/utils"
)

// SeedOptions controls the data inserted on first start.
type SeedOptions struct {
	AdminUsername  string
	AdminPassword  string
	AdminEmail     string
	BcryptCost     int
	SampleServices bool
}

type sampleService struct {
	name        string
	description string
	priceCents  int64
	durationMin int
}

var sampleServices = []sampleService{
	{"Corte de Cabello", "Corte de cabello profesional", 5000, 30},
	{"Manicura", "Manicura completa", 3500, 45},
	{"Masaje Relajante", "Masaje relajante de cuerpo completo", 8000, 60},
}

// Seed creates the default admin when the admins table is empty and, when
// requested, a few sample services when the catalogue is empty. It reports
// whether the admin was created.
func Seed(ctx context.Context, db *sql.DB, opts SeedOptions) (adminCreated bool, err error) {
	var admins int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&admins); err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if admins == 0 {
		hash, err := utils.HashPassword(opts.AdminPassword, opts.BcryptCost)
		if err != nil {
			return false, fmt.Errorf("hash default admin password: %w", err)
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO admins (username, password_hash, email) VALUES (?, ?, ?)`,
			opts.AdminUsername, hash, opts.AdminEmail); err != nil {
			return false, fmt.Errorf("insert default admin: %w", err)
		}
		adminCreated = true
	}

	if !opts.SampleServices {
		return adminCreated, nil
	}
	var services int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM services`).Scan(&services); err != nil {
		return adminCreated, fmt.Errorf("count services: %w", err)
	}
	if services > 0 {
		return adminCreated, nil
	}
	for _, s := range sampleServices {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO services (name, description, price_cents, duration_min) VALUES (?, ?, ?, ?)`,
			s.name, s.description, s.priceCents, s.durationMin); err != nil {
			return adminCreated, fmt.Errorf("insert sample service %q: %w", s.name, err)
		}
	}
	return adminCreated, nil
}
