package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/heartmarshall/solarsync/internal/domain"
)

func alertID(t domain.AlertType, id fmt.Stringer) string {
	return string(t) + ":" + id.String()
}

// overdueMilestoneAlerts reports pending milestones past their due date:
// high, critical once overdue for OverdueCriticalAfter.
func (s *Service) overdueMilestoneAlerts(ctx context.Context, scope domain.Scope) ([]domain.Alert, error) {
	now := s.now()
	milestones, err := s.repos.Milestones.ListOverdue(ctx, scope, now)
	if err != nil {
		return nil, err
	}

	alerts := make([]domain.Alert, 0, len(milestones))
	for _, m := range milestones {
		overdue := now.Sub(m.DueDate)
		severity := domain.SeverityHigh
		if overdue >= s.cfg.OverdueCriticalAfter {
			severity = domain.SeverityCritical
		}
		alerts = append(alerts, domain.Alert{
			ID:       alertID(domain.AlertTypeOverdueMilestone, m.ID),
			Type:     domain.AlertTypeOverdueMilestone,
			Severity: severity,
			Message: fmt.Sprintf("Milestone %q (%s %s) is %d days overdue",
				m.Title, m.Amount.StringFixed(2), m.Currency, daysOverdue(overdue)),
			Timestamp:       m.DueDate,
			RelatedEntityID: m.ID,
		})
	}
	return alerts, nil
}

func daysOverdue(d time.Duration) int {
	days := int(d / (24 * time.Hour))
	return max(days, 1)
}

// unprocessedWebhookAlerts reports provider webhook log entries not yet
// processed: medium, high once older than WebhookStaleAfter. The log is
// not attributable to a client or installer, so only admins see these.
func (s *Service) unprocessedWebhookAlerts(ctx context.Context, scope domain.Scope) ([]domain.Alert, error) {
	if !scope.Role.IsAdmin() {
		return nil, nil
	}
	now := s.now()
	entries, err := s.repos.Webhooks.ListUnprocessed(ctx, s.cfg.WebhookAlertLimit)
	if err != nil {
		return nil, err
	}

	alerts := make([]domain.Alert, 0, len(entries))
	for _, e := range entries {
		severity := domain.SeverityMedium
		if now.Sub(e.CreatedAt) >= s.cfg.WebhookStaleAfter {
			severity = domain.SeverityHigh
		}
		alerts = append(alerts, domain.Alert{
			ID:              alertID(domain.AlertTypeUnprocessedWebhook, e.ID),
			Type:            domain.AlertTypeUnprocessedWebhook,
			Severity:        severity,
			Message:         fmt.Sprintf("Unprocessed %s webhook %s", e.Provider, e.EventType),
			Timestamp:       e.CreatedAt,
			RelatedEntityID: e.ID,
		})
	}
	return alerts, nil
}

// openDisputeAlerts reports every open dispute as critical.
func (s *Service) openDisputeAlerts(ctx context.Context, scope domain.Scope) ([]domain.Alert, error) {
	disputes, err := s.repos.Disputes.ListOpen(ctx, scope)
	if err != nil {
		return nil, err
	}

	alerts := make([]domain.Alert, 0, len(disputes))
	for _, d := range disputes {
		alerts = append(alerts, domain.Alert{
			ID:              alertID(domain.AlertTypeOpenDispute, d.ID),
			Type:            domain.AlertTypeOpenDispute,
			Severity:        domain.SeverityCritical,
			Message:         fmt.Sprintf("Open dispute over %s: %s", d.Amount.StringFixed(2), d.Reason),
			Timestamp:       d.CreatedAt,
			RelatedEntityID: d.PaymentID,
		})
	}
	return alerts, nil
}
