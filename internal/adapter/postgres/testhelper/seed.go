package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/solarsync/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// SeedUser creates a user with the given role and returns its id.
func SeedUser(t *testing.T, pool *pgxpool.Pool, role domain.Role) uuid.UUID {
	t.Helper()

	id := uuid.New()
	suffix := uniqueSuffix()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, email, name, role) VALUES ($1, $2, $3, $4)`,
		id, string(role)+"-"+suffix+"@example.com", "Test "+suffix, string(role),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}
	return id
}

// Parties is a client/installer pair owning seeded rows.
type Parties struct {
	ClientID    uuid.UUID
	InstallerID uuid.UUID
}

// SeedParties creates a client and an installer.
func SeedParties(t *testing.T, pool *pgxpool.Pool) Parties {
	t.Helper()
	return Parties{
		ClientID:    SeedUser(t, pool, domain.RoleClient),
		InstallerID: SeedUser(t, pool, domain.RoleInstaller),
	}
}

// SeedProject creates a project in status "lead" for the parties.
func SeedProject(t *testing.T, pool *pgxpool.Pool, p Parties) domain.Project {
	t.Helper()

	ts := now()
	installer := p.InstallerID
	project := domain.Project{
		ID:          uuid.New(),
		ClientID:    p.ClientID,
		InstallerID: &installer,
		Name:        "Roof array " + uniqueSuffix(),
		Address:     "1 Sun St",
		Status:      domain.ProjectStatusLead,
		CapacityKW:  decimal.RequireFromString("8.40"),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO projects (id, client_id, installer_id, name, address, status, capacity_kw, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		project.ID, project.ClientID, project.InstallerID, project.Name, project.Address,
		string(project.Status), project.CapacityKW, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedProject: %v", err)
	}
	return project
}

// SeedQuote creates a sent quote for the project.
func SeedQuote(t *testing.T, pool *pgxpool.Pool, project domain.Project, status domain.QuoteStatus) domain.Quote {
	t.Helper()

	ts := now()
	quote := domain.Quote{
		ID:           uuid.New(),
		ProjectID:    project.ID,
		ClientID:     project.ClientID,
		InstallerID:  *project.InstallerID,
		Status:       status,
		Total:        decimal.RequireFromString("18250.00"),
		Currency:     "USD",
		SystemSizeKW: project.CapacityKW,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO quotes (id, project_id, client_id, installer_id, status, total, currency, system_size_kw, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		quote.ID, quote.ProjectID, quote.ClientID, quote.InstallerID, string(quote.Status),
		quote.Total, quote.Currency, quote.SystemSizeKW, quote.CreatedAt, quote.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedQuote: %v", err)
	}
	return quote
}

// SeedContract creates a contract for the project; signed controls signed_at.
func SeedContract(t *testing.T, pool *pgxpool.Pool, project domain.Project, amount string, signed bool) uuid.UUID {
	t.Helper()

	id := uuid.New()
	var signedAt *time.Time
	if signed {
		ts := now()
		signedAt = &ts
	}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO contracts (id, project_id, client_id, installer_id, amount, signed_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, project.ID, project.ClientID, *project.InstallerID, decimal.RequireFromString(amount), signedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedContract: %v", err)
	}
	return id
}

// SeedMilestone creates a payment milestone due at due.
func SeedMilestone(t *testing.T, pool *pgxpool.Pool, project domain.Project, amount string, due time.Time, status domain.MilestoneStatus) domain.Milestone {
	t.Helper()

	m := domain.Milestone{
		ID:          uuid.New(),
		ProjectID:   project.ID,
		ClientID:    project.ClientID,
		InstallerID: *project.InstallerID,
		Title:       "Milestone " + uniqueSuffix(),
		Amount:      decimal.RequireFromString(amount),
		Currency:    "USD",
		DueDate:     due.UTC().Truncate(24 * time.Hour),
		Status:      status,
		CreatedAt:   now(),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO payment_milestones (id, project_id, client_id, installer_id, title, amount, currency, due_date, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.ProjectID, m.ClientID, m.InstallerID, m.Title, m.Amount, m.Currency,
		m.DueDate, string(m.Status), m.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedMilestone: %v", err)
	}
	return m
}

// SeedPayment creates a payment for the milestone with the given provider
// and internal status.
func SeedPayment(t *testing.T, pool *pgxpool.Pool, m domain.Milestone, providerStatus string, status domain.PaymentStatus) domain.Payment {
	t.Helper()

	ts := now()
	p := domain.Payment{
		ID:               uuid.New(),
		MilestoneID:      m.ID,
		ProjectID:        m.ProjectID,
		ClientID:         m.ClientID,
		InstallerID:      m.InstallerID,
		ProviderIntentID: "pi_" + uniqueSuffix(),
		ProviderStatus:   providerStatus,
		Status:           status,
		Amount:           m.Amount,
		Currency:         m.Currency,
		CreatedAt:        ts,
		UpdatedAt:        ts,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO payments (id, milestone_id, project_id, client_id, installer_id, provider_intent_id,
		                       provider_status, status, amount, currency, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.MilestoneID, p.ProjectID, p.ClientID, p.InstallerID, p.ProviderIntentID,
		p.ProviderStatus, string(p.Status), p.Amount, p.Currency, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPayment: %v", err)
	}
	return p
}

// SeedWebhook creates a provider webhook log entry received at createdAt.
func SeedWebhook(t *testing.T, pool *pgxpool.Pool, processed bool, createdAt time.Time) domain.WebhookLogEntry {
	t.Helper()

	w := domain.WebhookLogEntry{
		ID:        uuid.New(),
		Provider:  "stripe",
		EventType: "payment_intent.succeeded",
		Processed: processed,
		CreatedAt: createdAt.UTC().Truncate(time.Microsecond),
	}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO provider_webhook_log (id, provider, event_type, processed, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		w.ID, w.Provider, w.EventType, w.Processed, w.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedWebhook: %v", err)
	}
	return w
}

// SeedDispute creates a dispute against the payment.
func SeedDispute(t *testing.T, pool *pgxpool.Pool, p domain.Payment, status domain.DisputeStatus) domain.Dispute {
	t.Helper()

	d := domain.Dispute{
		ID:          uuid.New(),
		PaymentID:   p.ID,
		ClientID:    p.ClientID,
		InstallerID: p.InstallerID,
		Reason:      "fraudulent",
		Status:      status,
		Amount:      p.Amount,
		CreatedAt:   now(),
	}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO disputes (id, payment_id, client_id, installer_id, reason, status, amount, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.PaymentID, d.ClientID, d.InstallerID, d.Reason, string(d.Status), d.Amount, d.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDispute: %v", err)
	}
	return d
}

// SeedActivity creates an activity entry for the project's parties.
func SeedActivity(t *testing.T, pool *pgxpool.Pool, project domain.Project, message string, createdAt time.Time) domain.ActivityEntry {
	t.Helper()

	client, installer, projectID := project.ClientID, *project.InstallerID, project.ID
	a := domain.ActivityEntry{
		ID:          uuid.New(),
		ClientID:    &client,
		InstallerID: &installer,
		ProjectID:   &projectID,
		Kind:        "note",
		Message:     message,
		CreatedAt:   createdAt.UTC().Truncate(time.Microsecond),
	}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO activity_log (id, client_id, installer_id, project_id, kind, message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.ClientID, a.InstallerID, a.ProjectID, a.Kind, a.Message, a.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedActivity: %v", err)
	}
	return a
}
