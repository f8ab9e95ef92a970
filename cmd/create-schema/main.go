package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/SimaldoneValentin/Fondo-Escudo/internal/config"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/database"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	statements := []struct {
		name string
		sql  string
	}{
		{"users table", `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    email VARCHAR(255) NOT NULL,
    first_name VARCHAR(100) NOT NULL,
    last_name VARCHAR(100) NOT NULL DEFAULT '',
    dni VARCHAR(20),
    gender VARCHAR(20) NOT NULL DEFAULT '',
    phone VARCHAR(30),
    password_hash TEXT NOT NULL DEFAULT '',
    google_id VARCHAR(64),
    picture_url TEXT,
    registered_with VARCHAR(10) NOT NULL DEFAULT 'email',
    plan VARCHAR(10) NOT NULL DEFAULT 'base',
    plan_label VARCHAR(50) NOT NULL DEFAULT 'Plan Normal',
    pending_plan VARCHAR(10),
    pending_plan_scheduled_for TIMESTAMPTZ,
    pending_plan_requested_at TIMESTAMPTZ,
    last_login_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
		{"users email index", `
CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email)`},
		{"users dni index", `
CREATE UNIQUE INDEX IF NOT EXISTS users_dni_key ON users (dni) WHERE dni IS NOT NULL`},
		{"users due change index", `
CREATE INDEX IF NOT EXISTS users_pending_plan_due_idx
    ON users (pending_plan_scheduled_for) WHERE pending_plan IS NOT NULL`},
		{"payments table", `
CREATE TABLE IF NOT EXISTS payments (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users (id),
    plan VARCHAR(10) NOT NULL,
    plan_label VARCHAR(50) NOT NULL DEFAULT '',
    amount NUMERIC(12, 2) NOT NULL,
    method VARCHAR(20) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    receipt_url TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
		{"payments user index", `
CREATE INDEX IF NOT EXISTS payments_user_created_idx ON payments (user_id, created_at DESC)`},
		{"support tickets table", `
CREATE TABLE IF NOT EXISTS support_tickets (
    id UUID PRIMARY KEY,
    code VARCHAR(20) NOT NULL UNIQUE,
    type VARCHAR(20) NOT NULL,
    subject VARCHAR(255) NOT NULL,
    message TEXT NOT NULL,
    user_id UUID NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
		{"tickets user index", `
CREATE INDEX IF NOT EXISTS support_tickets_user_created_idx
    ON support_tickets (user_id, created_at DESC)`},
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt.sql); err != nil {
			log.Fatalf("Failed to create %s: %v", stmt.name, err)
		}
		log.Printf("✓ %s", stmt.name)
	}

	log.Println("Schema ready")
}
