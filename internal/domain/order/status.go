package order

import (
	"errors"
	"fmt"
	"strings"
)

// Status values are stored as their display labels, exactly as the storefront
// has always written them.
type Status string

const (
	StatusPending    Status = "قيد الانتظار"
	StatusProcessing Status = "جاري التجهيز"
	StatusShipped    Status = "تم الشحن"
	StatusDelivered  Status = "تم التوصيل"
	StatusCancelled  Status = "ملغي"
)

var (
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrTransitionNotAllowed = errors.New("order status transition not allowed")
)

var statusNames = map[Status]string{
	StatusPending:    "PENDING",
	StatusProcessing: "PROCESSING",
	StatusShipped:    "SHIPPED",
	StatusDelivered:  "DELIVERED",
	StatusCancelled:  "CANCELLED",
}

// Statuses lists every status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}
}

func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// Name returns the stable identifier (PENDING, SHIPPED, ...) for the status.
func (s Status) Name() string {
	return statusNames[s]
}

// Terminal reports whether no further progress is expected.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// ParseStatus accepts either a name (case-insensitive) or the exact label.
func ParseStatus(s string) (Status, error) {
	if st := Status(s); st.Valid() {
		return st, nil
	}
	upper := strings.ToUpper(strings.TrimSpace(s))
	for st, name := range statusNames {
		if name == upper {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// TransitionPolicy decides whether an order may move from one status to another.
type TransitionPolicy interface {
	Allow(from, to Status) bool
}

type permissive struct{}

func (permissive) Allow(from, to Status) bool { return true }

// Permissive lets an admin set any status at any time. This is the default.
var Permissive TransitionPolicy = permissive{}

// validTransitions defines allowed state transitions under Strict
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {}, // terminal state
	StatusCancelled:  {}, // terminal state
}

type strict struct{}

func (strict) Allow(from, to Status) bool {
	if from == to {
		return true
	}
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Strict enforces PENDING → PROCESSING → SHIPPED → DELIVERED with CANCELLED
// reachable from any non-terminal status.
var Strict TransitionPolicy = strict{}
