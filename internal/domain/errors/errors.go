package errors

import "errors"

// Kind classifies domain errors so callers can react to a family of failures.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindIntegrity
	KindNotFound
	KindAccess
	KindSettlement
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindIntegrity:
		return "integrity"
	case KindNotFound:
		return "not_found"
	case KindAccess:
		return "access"
	case KindSettlement:
		return "settlement"
	default:
		return "unknown"
	}
}

type domainError struct {
	kind Kind
	msg  string
}

func (e *domainError) Error() string { return e.msg }

func newError(kind Kind, msg string) error {
	return &domainError{kind: kind, msg: msg}
}

var (
	ErrNotFound     = newError(KindNotFound, "not found")
	ErrAccessDenied = newError(KindAccess, "access denied")

	ErrInvalidCredentials     = newError(KindValidation, "invalid credentials")
	ErrInvalidQuantity        = newError(KindValidation, "invalid quantity")
	ErrNothingOrdered         = newError(KindValidation, "nothing ordered")
	ErrProductUnavailable     = newError(KindValidation, "product unavailable")
	ErrDeliveryDayNotEligible = newError(KindValidation, "batch not eligible for delivery day")
	ErrInvalidAmount          = newError(KindValidation, "invalid amount")
	ErrInvalidPaymentMode     = newError(KindValidation, "invalid payment mode")
	ErrInvalidCapacity        = newError(KindValidation, "capacity must be positive")
	ErrInvalidDate            = newError(KindValidation, "invalid date")
	ErrInvalidName            = newError(KindValidation, "name must be provided")
	ErrWatermarkNotAdvanced   = newError(KindValidation, "invoice date must be after the last invoice date")
	ErrInvalidMessage         = newError(KindValidation, "subject and message must be provided")
	ErrNoRecipients           = newError(KindValidation, "no recipients")

	ErrBatchNotOrderable = newError(KindConflict, "batch is not orderable")
	ErrCapacityExceeded  = newError(KindConflict, "batch capacity exceeded")
	ErrDuplicateOrder    = newError(KindConflict, "order already exists for batch")
	ErrCutoffPassed      = newError(KindConflict, "order cutoff passed")
	ErrOrderSettled      = newError(KindConflict, "order already settled")

	ErrAlreadyExists = newError(KindIntegrity, "already exists")
	ErrBatchInUse    = newError(KindIntegrity, "batch has orders")

	ErrSettlementFailed       = newError(KindSettlement, "settlement failed")
	ErrNotificationIncomplete = newError(KindSettlement, "notification incomplete")
)

// KindOf returns the kind of the first domain error found in err's chain.
func KindOf(err error) Kind {
	var de *domainError
	if errors.As(err, &de) {
		return de.kind
	}
	return KindUnknown
}

// IsConflict reports business and integrity conflicts detected inside a transaction.
func IsConflict(err error) bool {
	k := KindOf(err)
	return k == KindConflict || k == KindIntegrity
}
