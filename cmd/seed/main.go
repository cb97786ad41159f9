package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"institute-backend/internal/config"
	"institute-backend/internal/domain/model"
	pg "institute-backend/internal/infra/db/postgres"
)

// Bootstraps the schema and a first admin account so a fresh deployment can
// log in. Safe to re-run: existing tables and users are left alone.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	adminEmail := flag.String("admin-email", "admin@institute.local", "email for the bootstrap admin")
	adminPassword := flag.String("admin-password", "", "password for the bootstrap admin (required on first run)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		log.Fatalf("apply schema: %v", err)
	}
	fmt.Println("schema applied")

	userRepo := pg.NewUserRepo(pool)
	if _, err := userRepo.FindByEmail(ctx, nil, *adminEmail); err == nil {
		fmt.Printf("admin %s already present. No changes.\n", *adminEmail)
		return
	}

	if *adminPassword == "" {
		log.Fatal("-admin-password is required to create the bootstrap admin")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(*adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, phone, role, created_at)
		VALUES ($1, $2, $3, $4, '', $5, NOW());`,
		uuid.NewString(), "Administrator", *adminEmail, string(hash), model.RoleAdmin)
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}
	fmt.Printf("seeded admin: %s\n", *adminEmail)
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id                      TEXT PRIMARY KEY,
	name                    TEXT NOT NULL,
	email                   TEXT NOT NULL UNIQUE,
	password_hash           TEXT NOT NULL,
	phone                   TEXT NOT NULL DEFAULT '',
	role                    TEXT NOT NULL DEFAULT 'member',
	current_subscription_id TEXT,
	created_at              TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS subscriptions (
	id                  TEXT PRIMARY KEY,
	user_id             TEXT NOT NULL REFERENCES users(id),
	plan                TEXT NOT NULL,
	status              TEXT NOT NULL,
	start_date          TIMESTAMPTZ NOT NULL,
	expiry_date         TIMESTAMPTZ NOT NULL,
	razorpay_order_id   TEXT NOT NULL,
	razorpay_payment_id TEXT NOT NULL,
	razorpay_signature  TEXT NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_subscriptions_user_created ON subscriptions (user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_subscriptions_status_expiry ON subscriptions (status, expiry_date);

CREATE TABLE IF NOT EXISTS payments (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id),
	order_id   TEXT NOT NULL,
	payment_id TEXT NOT NULL,
	signature  TEXT NOT NULL,
	amount     BIGINT NOT NULL,
	currency   TEXT NOT NULL DEFAULT 'INR',
	status     TEXT NOT NULL,
	plan       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (order_id, payment_id)
);
CREATE INDEX IF NOT EXISTS idx_payments_user_created ON payments (user_id, created_at DESC);
`
