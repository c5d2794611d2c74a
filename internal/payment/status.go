// Package payment translates payment-provider state into internal state.
package payment

import (
	"slices"
	"strings"

	"github.com/heartmarshall/solarsync/internal/domain"
)

// FallbackStatus is returned for any provider status not in the table.
const FallbackStatus = domain.PaymentStatusProcessing

// providerStatuses is the single mapping table used everywhere a provider
// status enters the system. A provider cancel is an internal cancel, not a
// failure.
var providerStatuses = map[string]domain.PaymentStatus{
	domain.ProviderStatusRequiresPaymentMethod: domain.PaymentStatusPending,
	domain.ProviderStatusRequiresConfirmation:  domain.PaymentStatusPending,
	domain.ProviderStatusRequiresAction:        domain.PaymentStatusRequiresAction,
	domain.ProviderStatusProcessing:            domain.PaymentStatusProcessing,
	domain.ProviderStatusRequiresCapture:       domain.PaymentStatusProcessing,
	domain.ProviderStatusSucceeded:             domain.PaymentStatusCompleted,
	domain.ProviderStatusCanceled:              domain.PaymentStatusCanceled,
}

// Lookup maps a provider status and reports whether it was recognized.
// Unrecognized input yields FallbackStatus and false.
func Lookup(providerStatus string) (domain.PaymentStatus, bool) {
	s, ok := providerStatuses[strings.ToLower(strings.TrimSpace(providerStatus))]
	if !ok {
		return FallbackStatus, false
	}
	return s, true
}

// MapProviderStatus is total over all strings and performs no I/O.
func MapProviderStatus(providerStatus string) domain.PaymentStatus {
	s, _ := Lookup(providerStatus)
	return s
}

// KnownProviderStatuses returns the recognized provider statuses in
// lexical order.
func KnownProviderStatuses() []string {
	out := make([]string, 0, len(providerStatuses))
	for k := range providerStatuses {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
