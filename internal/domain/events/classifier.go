package events

import (
	"strings"

	"github.com/revlytics/revlytics/internal/types"
)

// ClassificationRule maps a semantic category to the substring markers that select it.
// Rules are evaluated in order and the first matching rule wins, so rule order encodes
// precedence.
type ClassificationRule struct {
	Category types.EventCategory
	Markers  []string
}

// DefaultClassificationRules returns the built-in rule table. LifecycleEnd is listed
// first: a cancellation-looking label always ends the subscription even when it also
// resembles a creation or payment label ("Assinatura Cancelada" hits "cancelad"
// before any creation marker gets a chance).
//
// Markers are substrings, lower-cased, and intentionally stemmed so that English and
// Portuguese label variants from the source feed match without an exhaustive synonym
// list. Creation markers are kept narrow on purpose: a bare "assinatura" marker would
// steal renewal labels like "Assinatura Renovada" from the payment rules below it.
func DefaultClassificationRules() []ClassificationRule {
	return []ClassificationRule{
		{
			Category: types.EventCategoryLifecycleEnd,
			Markers: []string{
				"cancel",     // cancelled, cancellation
				"cancelad",   // cancelada, cancelado
				"chargeback", // chargeback
				"estorno",    // estorno (refund)
				"refund",     // refunded
				"reembolso",  // reembolso
				"expirad",    // expirada, expirado
				"expire",     // expired
				"suspend",    // suspended
				"unsubscrib", // unsubscribed
			},
		},
		{
			Category: types.EventCategoryLifecycleStart,
			Markers: []string{
				"nova assinatura",  // nova assinatura
				"new subscription", // new subscription
				"criad",            // assinatura criada
				"created",          // subscription created
				"start",            // subscription started
				"aprovad",          // compra aprovada
				"approved",         // purchase approved
				"compra",           // compra (purchase)
				"purchase",         // purchase
				"trial",            // trial started
			},
		},
		{
			Category: types.EventCategoryRecurringPayment,
			Markers: []string{
				"renov",      // renovada, renovacao
				"renew",      // renewed, renewal
				"recorrente", // cobranca recorrente
				"recurr",     // recurring
				"cobran",     // cobranca
				"pagamento",  // pagamento
				"payment",    // payment
				"charge",     // charged
				"pago",       // pago
				"paid",       // paid
			},
		},
	}
}

// Classifier resolves free-text event-type labels to semantic categories using
// prioritized substring matching
type Classifier struct {
	rules []ClassificationRule
}

// NewClassifier creates a classifier with the given rule table. Pass
// DefaultClassificationRules() unless label variants require a custom table.
func NewClassifier(rules []ClassificationRule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify maps a raw event-type label to its semantic category. The second return
// is false when no marker matches; unknown labels are not an error, they are simply
// inert for state-transition purposes.
func (c *Classifier) Classify(eventType string) (types.EventCategory, bool) {
	label := strings.ToLower(strings.TrimSpace(eventType))
	if label == "" {
		return "", false
	}

	for _, rule := range c.rules {
		for _, marker := range rule.Markers {
			if strings.Contains(label, marker) {
				return rule.Category, true
			}
		}
	}

	return "", false
}
