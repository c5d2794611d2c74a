package domain

// Role represents who a dashboard is rendered for.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleClient    Role = "client"
	RoleInstaller Role = "installer"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleClient, RoleInstaller:
		return true
	}
	return false
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// PaymentStatus is the application's own payment state.
type PaymentStatus string

const (
	PaymentStatusPending        PaymentStatus = "pending"
	PaymentStatusProcessing     PaymentStatus = "processing"
	PaymentStatusRequiresAction PaymentStatus = "requires_action"
	PaymentStatusCompleted      PaymentStatus = "completed"
	PaymentStatusFailed         PaymentStatus = "failed"
	PaymentStatusCanceled       PaymentStatus = "canceled"
)

func (s PaymentStatus) String() string { return string(s) }

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusRequiresAction,
		PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCanceled:
		return true
	}
	return false
}

// IsFinal reports whether no further provider transition is expected.
func (s PaymentStatus) IsFinal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed || s == PaymentStatusCanceled
}

// Provider-reported payment intent statuses.
const (
	ProviderStatusRequiresPaymentMethod = "requires_payment_method"
	ProviderStatusRequiresConfirmation  = "requires_confirmation"
	ProviderStatusRequiresAction        = "requires_action"
	ProviderStatusProcessing            = "processing"
	ProviderStatusRequiresCapture       = "requires_capture"
	ProviderStatusCanceled              = "canceled"
	ProviderStatusSucceeded             = "succeeded"
)

// MilestoneStatus is the state of a payment milestone on a project.
type MilestoneStatus string

const (
	MilestoneStatusPending  MilestoneStatus = "pending"
	MilestoneStatusPaid     MilestoneStatus = "paid"
	MilestoneStatusCanceled MilestoneStatus = "canceled"
)

func (s MilestoneStatus) String() string { return string(s) }

// ProjectStatus is the lifecycle stage of an installation project.
type ProjectStatus string

const (
	ProjectStatusLead       ProjectStatus = "lead"
	ProjectStatusQuoted     ProjectStatus = "quoted"
	ProjectStatusContracted ProjectStatus = "contracted"
	ProjectStatusInstalling ProjectStatus = "installing"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCanceled   ProjectStatus = "canceled"
)

func (s ProjectStatus) String() string { return string(s) }

// IsActive reports whether the project is between contract and completion.
func (s ProjectStatus) IsActive() bool {
	return s == ProjectStatusContracted || s == ProjectStatusInstalling
}

// QuoteStatus is the state of an installer's quote.
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
	QuoteStatusExpired  QuoteStatus = "expired"
)

func (s QuoteStatus) String() string { return string(s) }

// DisputeStatus is the state of a provider dispute.
type DisputeStatus string

const (
	DisputeStatusOpen   DisputeStatus = "open"
	DisputeStatusWon    DisputeStatus = "won"
	DisputeStatusLost   DisputeStatus = "lost"
	DisputeStatusClosed DisputeStatus = "closed"
)

// Severity ranks alerts.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) String() string { return string(s) }

func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// AlertType identifies the source query of an alert.
type AlertType string

const (
	AlertTypeOverdueMilestone   AlertType = "overdue_milestone"
	AlertTypeUnprocessedWebhook AlertType = "unprocessed_webhook"
	AlertTypeOpenDispute        AlertType = "open_dispute"
)
