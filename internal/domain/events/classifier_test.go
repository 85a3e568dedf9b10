package events

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/revlytics/revlytics/internal/types"
)

func TestClassifier_Classify(t *testing.T) {
	classifier := NewClassifier(DefaultClassificationRules())

	tests := []struct {
		name       string
		eventType  string
		category   types.EventCategory
		classified bool
	}{
		{
			name:       "english_cancellation",
			eventType:  "subscription cancelled",
			category:   types.EventCategoryLifecycleEnd,
			classified: true,
		},
		{
			name:       "portuguese_cancellation",
			eventType:  "Assinatura Cancelada",
			category:   types.EventCategoryLifecycleEnd,
			classified: true,
		},
		{
			name:       "chargeback",
			eventType:  "Chargeback recebido",
			category:   types.EventCategoryLifecycleEnd,
			classified: true,
		},
		{
			name:       "refund_portuguese",
			eventType:  "reembolso efetuado",
			category:   types.EventCategoryLifecycleEnd,
			classified: true,
		},
		{
			name:       "subscription_started",
			eventType:  "subscription_started",
			category:   types.EventCategoryLifecycleStart,
			classified: true,
		},
		{
			name:       "purchase_approved_portuguese",
			eventType:  "Compra Aprovada",
			category:   types.EventCategoryLifecycleStart,
			classified: true,
		},
		{
			name:       "new_subscription_portuguese",
			eventType:  "Nova Assinatura",
			category:   types.EventCategoryLifecycleStart,
			classified: true,
		},
		{
			name:       "renewal_portuguese",
			eventType:  "Assinatura Renovada",
			category:   types.EventCategoryRecurringPayment,
			classified: true,
		},
		{
			name:       "recurring_charge",
			eventType:  "recurring charge",
			category:   types.EventCategoryRecurringPayment,
			classified: true,
		},
		{
			name:       "payment_portuguese",
			eventType:  "Pagamento efetuado",
			category:   types.EventCategoryRecurringPayment,
			classified: true,
		},
		{
			name:       "unknown_label",
			eventType:  "profile updated",
			classified: false,
		},
		{
			name:       "empty_label",
			eventType:  "",
			classified: false,
		},
		{
			name:       "whitespace_only",
			eventType:  "   ",
			classified: false,
		},
		{
			name:       "mixed_case_with_padding",
			eventType:  "  SUBSCRIPTION_STARTED  ",
			category:   types.EventCategoryLifecycleStart,
			classified: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, ok := classifier.Classify(tt.eventType)
			assert.Equal(t, tt.classified, ok)
			if tt.classified {
				assert.Equal(t, tt.category, category)
			}
		})
	}
}

// A label matching both end and start markers must classify as end: cancellation
// always wins.
func TestClassifier_EndPrecedence(t *testing.T) {
	classifier := NewClassifier(DefaultClassificationRules())

	ambiguous := []string{
		"Assinatura Cancelada",
		"purchase refunded",
		"trial expired",
		"subscription payment cancelled",
	}

	for _, label := range ambiguous {
		category, ok := classifier.Classify(label)
		assert.True(t, ok, label)
		assert.Equal(t, types.EventCategoryLifecycleEnd, category, label)
	}
}

func TestClassifier_CustomRules(t *testing.T) {
	classifier := NewClassifier([]ClassificationRule{
		{Category: types.EventCategoryLifecycleEnd, Markers: []string{"churn"}},
	})

	category, ok := classifier.Classify("customer churned")
	assert.True(t, ok)
	assert.Equal(t, types.EventCategoryLifecycleEnd, category)

	// Default markers are not in play on a custom table
	_, ok = classifier.Classify("subscription cancelled")
	assert.False(t, ok)
}
