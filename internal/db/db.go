package db

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

var Conn *pgxpool.Pool

// Init connects to Postgres. DATABASE_URL takes precedence over the
// individual DB_* variables when set.
func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s",
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_HOST"),
			os.Getenv("DB_PORT"),
			os.Getenv("DB_NAME"),
		)
	}

	var err error
	Conn, err = pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}

	if err = Conn.Ping(context.Background()); err != nil {
		log.Fatalf("Unable to ping database: %v\n", err)
	}

	log.Println("Connected to Postgres successfully")

	// Core identity tables
	ensureUsersTable()
	ensureProfileTables()

	// Artist discovery tables
	ensureRatesAndPortfolioTables()

	// Project lifecycle tables
	ensureProjectsSchema()
	ensureQuotesTable()
	ensureAgreementsTable()
	ensurePaymentsTable()

	// Messaging and notification tables
	ensureMessagesTable()
	ensureNotificationsTable()
}

// ensureUsersTable creates users if missing and guarantees the is_active column
func ensureUsersTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            role TEXT NOT NULL CHECK (role IN ('client','artist','admin')),
            is_active BOOLEAN DEFAULT TRUE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`)
	if err != nil {
		log.Printf("failed to create users table: %v", err)
		return
	}

	var exists bool
	err = Conn.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM information_schema.columns
            WHERE table_schema = 'public' AND table_name = 'users' AND column_name = 'is_active'
        )`).Scan(&exists)
	if err != nil {
		log.Printf("schema check failed: %v", err)
		return
	}
	if exists {
		return
	}
	_, err = Conn.Exec(ctx, `ALTER TABLE users ADD COLUMN IF NOT EXISTS is_active BOOLEAN DEFAULT TRUE`)
	if err != nil {
		log.Printf("failed to add is_active column: %v", err)
		return
	}
	_, _ = Conn.Exec(ctx, `UPDATE users SET is_active = TRUE WHERE is_active IS NULL`)
}

// ensureProfileTables creates the client and artist profile tables
func ensureProfileTables() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS client_profiles (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            user_id UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
            full_name TEXT NOT NULL,
            email TEXT NOT NULL,
            state TEXT,
            country TEXT,
            phone TEXT,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`)
	if err != nil {
		log.Printf("failed to create client_profiles table: %v", err)
	}

	_, err = Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS artist_profiles (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            user_id UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
            full_name TEXT NOT NULL,
            email TEXT NOT NULL,
            state TEXT,
            country TEXT,
            experience TEXT,
            specialties TEXT[] DEFAULT '{}',
            custom_specialty TEXT,
            languages TEXT,
            phone TEXT,
            availability TEXT DEFAULT 'available' CHECK (availability IN ('available','busy','unavailable')),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`)
	if err != nil {
		log.Printf("failed to create artist_profiles table: %v", err)
	}
}

// ensureRatesAndPortfolioTables creates artist_rates and artist_portfolio
func ensureRatesAndPortfolioTables() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS artist_rates (
            artist_id UUID NOT NULL REFERENCES artist_profiles(id) ON DELETE CASCADE,
            specialty TEXT NOT NULL,
            rate_type TEXT NOT NULL,
            min_price NUMERIC NOT NULL DEFAULT 0,
            max_price NUMERIC NOT NULL DEFAULT 0,
            PRIMARY KEY (artist_id, specialty, rate_type)
        )`)
	if err != nil {
		log.Printf("failed to create artist_rates table: %v", err)
	}

	_, err = Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS artist_portfolio (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            artist_id UUID NOT NULL REFERENCES artist_profiles(id) ON DELETE CASCADE,
            title TEXT NOT NULL,
            description TEXT,
            image_url TEXT,
            category TEXT,
            year INTEGER,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_portfolio_artist ON artist_portfolio(artist_id)`)
	if err != nil {
		log.Printf("failed to create artist_portfolio table: %v", err)
	}
}

// ensureProjectsSchema creates projects and keeps the status constraint in
// sync with the transitions the handlers perform
func ensureProjectsSchema() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS projects (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            client_id UUID NOT NULL REFERENCES client_profiles(id) ON DELETE CASCADE,
            title TEXT NOT NULL,
            description TEXT,
            category TEXT,
            budget_min NUMERIC,
            budget_max NUMERIC,
            deadline DATE,
            status TEXT NOT NULL DEFAULT 'open',
            selected_artist_id UUID NULL REFERENCES artist_profiles(id),
            selected_quote_id UUID NULL,
            reference_links TEXT[] DEFAULT '{}',
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_projects_client ON projects(client_id);
        CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status)`)
	if err != nil {
		log.Printf("failed to create projects table: %v", err)
		return
	}

	_, _ = Conn.Exec(ctx, `ALTER TABLE projects DROP CONSTRAINT IF EXISTS projects_status_check`)
	_, err = Conn.Exec(ctx, `
        ALTER TABLE projects
        ADD CONSTRAINT projects_status_check
        CHECK (status IN ('open', 'assigned', 'in_progress', 'completed'))`)
	if err != nil {
		log.Printf("failed to update projects status constraint: %v", err)
	}
}

// ensureQuotesTable creates project_quotes
func ensureQuotesTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS project_quotes (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
            artist_id UUID NOT NULL REFERENCES artist_profiles(id) ON DELETE CASCADE,
            amount NUMERIC NOT NULL,
            timeline_days INTEGER NOT NULL DEFAULT 0,
            notes TEXT,
            services JSONB DEFAULT '[]',
            pdf_url TEXT,
            status TEXT NOT NULL DEFAULT 'submitted' CHECK (status IN ('submitted','selected')),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            UNIQUE (project_id, artist_id)
        );
        CREATE INDEX IF NOT EXISTS idx_quotes_project ON project_quotes(project_id)`)
	if err != nil {
		log.Printf("failed to create project_quotes table: %v", err)
	}
}

// ensureAgreementsTable creates project_agreements; one agreement per project
func ensureAgreementsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS project_agreements (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            project_id UUID NOT NULL UNIQUE REFERENCES projects(id) ON DELETE CASCADE,
            client_id UUID NOT NULL REFERENCES client_profiles(id),
            artist_id UUID NOT NULL REFERENCES artist_profiles(id),
            terms_text TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','client_accepted','artist_accepted','signed')),
            client_accepted_at TIMESTAMP WITH TIME ZONE NULL,
            artist_accepted_at TIMESTAMP WITH TIME ZONE NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`)
	if err != nil {
		log.Printf("failed to create project_agreements table: %v", err)
	}
}

// ensurePaymentsTable creates project_payments keyed by (project_id, order_id)
func ensurePaymentsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS project_payments (
            project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
            client_id UUID NOT NULL REFERENCES client_profiles(id),
            amount NUMERIC NOT NULL,
            amount_inr BIGINT NOT NULL DEFAULT 0,
            provider TEXT NOT NULL DEFAULT 'razorpay',
            status TEXT NOT NULL DEFAULT 'created' CHECK (status IN ('created','paid')),
            order_id TEXT NOT NULL,
            payment_id TEXT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            PRIMARY KEY (project_id, order_id)
        );
        CREATE INDEX IF NOT EXISTS idx_payments_client ON project_payments(client_id)`)
	if err != nil {
		log.Printf("failed to create project_payments table: %v", err)
	}
}

// ensureMessagesTable creates project_messages for in-app threads
func ensureMessagesTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS project_messages (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
            sender_user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            sender_role TEXT NOT NULL CHECK (sender_role IN ('client','artist')),
            recipient_user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            message TEXT NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            read_at TIMESTAMP WITH TIME ZONE NULL
        );
        CREATE INDEX IF NOT EXISTS idx_messages_project_created ON project_messages(project_id, created_at);
        CREATE INDEX IF NOT EXISTS idx_messages_recipient_unread ON project_messages(recipient_user_id) WHERE read_at IS NULL`)
	if err != nil {
		log.Printf("failed to create project_messages table: %v", err)
	}
}

// ensureNotificationsTable creates notifications for delivery records and in-app alerts
func ensureNotificationsTable() {
	ctx := context.Background()
	var exists bool
	_ = Conn.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM information_schema.tables
            WHERE table_schema = 'public' AND table_name = 'notifications'
        )`).Scan(&exists)
	if exists {
		return
	}
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS notifications (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            channel TEXT NOT NULL CHECK (channel IN ('email','whatsapp','inapp')),
            destination TEXT,
            title TEXT,
            body TEXT NOT NULL,
            reference UUID NULL,
            status TEXT NOT NULL DEFAULT 'sent',
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            read_at TIMESTAMP WITH TIME ZONE NULL
        );
        CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications(user_id, created_at);
        CREATE INDEX IF NOT EXISTS idx_notifications_user_unread ON notifications(user_id) WHERE read_at IS NULL;
    `)
	if err != nil {
		log.Printf("failed to create notifications table: %v", err)
	}
}
