package domain

// PaymentStatus tags the outcome of a payment confirmation attempt.
type PaymentStatus string

const (
	PaymentSucceeded      PaymentStatus = "succeeded"
	PaymentFailed         PaymentStatus = "failed"
	PaymentRequiresAction PaymentStatus = "requires_action"
)

// PaymentResult is the tagged outcome a provider reports after driving its
// confirmation flow. FailureReason is set only for failed attempts,
// ActionSecret only when further client action is required.
type PaymentResult struct {
	Status        PaymentStatus
	FailureReason string
	ActionSecret  string
}
