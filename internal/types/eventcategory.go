package types

// EventCategory is the closed set of semantic categories a lifecycle event label can
// resolve to. It is always derived from the free-text label at read time and never
// persisted.
type EventCategory string

const (
	// EventCategoryLifecycleEnd marks cancellations, refunds, chargebacks and
	// expirations. It takes precedence over the other categories when a label
	// matches markers for more than one of them.
	EventCategoryLifecycleEnd EventCategory = "lifecycle_end"

	// EventCategoryLifecycleStart marks subscription creations and approved
	// first purchases.
	EventCategoryLifecycleStart EventCategory = "lifecycle_start"

	// EventCategoryRecurringPayment marks renewals and recurring charges.
	EventCategoryRecurringPayment EventCategory = "recurring_payment"
)
