package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/clothing-store/internal/domain/cart"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrEmptyOrder           = errors.New("order must have at least one item")
	ErrMissingCustomerName  = errors.New("customer name is required")
	ErrMissingCustomerPhone = errors.New("customer phone is required")
	ErrMissingAddress       = errors.New("customer address is required")
)

// CustomerDetails is what the checkout form collects.
type CustomerDetails struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (d CustomerDetails) Validate() error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return ErrMissingCustomerName
	case strings.TrimSpace(d.Phone) == "":
		return ErrMissingCustomerPhone
	case strings.TrimSpace(d.Address) == "":
		return ErrMissingAddress
	}
	return nil
}

type Order struct {
	ID              string          `json:"id"`
	CustomerName    string          `json:"customerName"`
	CustomerPhone   string          `json:"customerPhone"`
	CustomerAddress string          `json:"customerAddress"`
	Items           []cart.Item     `json:"items"`
	Total           decimal.Decimal `json:"total"`
	Status          Status          `json:"status"`
	Date            time.Time       `json:"date"`
}

// NewID returns a fresh order identifier
func NewID() string {
	return uuid.New().String()
}

// New builds a PENDING order from a copy of items. The total is computed here
// and never recomputed.
func New(id string, details CustomerDetails, items cart.Cart, now time.Time) (Order, error) {
	if len(items) == 0 {
		return Order{}, ErrEmptyOrder
	}
	if err := details.Validate(); err != nil {
		return Order{}, err
	}

	lines := items.Clone()
	return Order{
		ID:              id,
		CustomerName:    strings.TrimSpace(details.Name),
		CustomerPhone:   strings.TrimSpace(details.Phone),
		CustomerAddress: strings.TrimSpace(details.Address),
		Items:           lines,
		Total:           lines.Total(),
		Status:          StatusPending,
		Date:            now.UTC(),
	}, nil
}

// Clone returns a copy that shares no item storage with o.
func (o Order) Clone() Order {
	o.Items = cart.Cart(o.Items).Clone()
	return o
}

// Quantity returns the units ordered for productID
func (o Order) Quantity(productID string) int {
	for _, item := range o.Items {
		if item.ID == productID {
			return item.Quantity
		}
	}
	return 0
}

// CanTransitionTo checks if the order can move to target under policy
func (o Order) CanTransitionTo(target Status, policy TransitionPolicy) bool {
	if policy == nil {
		policy = Permissive
	}
	return policy.Allow(o.Status, target)
}

// History is the order list, newest first.
type History []Order

func (h History) Clone() History {
	out := make(History, len(h))
	for i, o := range h {
		out[i] = o.Clone()
	}
	return out
}

func (h History) indexOf(id string) int {
	for i, o := range h {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func (h History) Find(id string) (Order, bool) {
	if i := h.indexOf(id); i >= 0 {
		return h[i].Clone(), true
	}
	return Order{}, false
}

// Prepend puts o at the head of the history.
func (h History) Prepend(o Order) History {
	out := make(History, 0, len(h)+1)
	out = append(out, o)
	return append(out, h...)
}

// SetStatus replaces the status of the matching order. found is false when no
// order has that id; err is set when policy rejects the change.
func (h History) SetStatus(id string, status Status, policy TransitionPolicy) (out History, found bool, err error) {
	if !status.Valid() {
		return h, false, ErrInvalidStatus
	}
	i := h.indexOf(id)
	if i < 0 {
		return h, false, nil
	}
	if !h[i].CanTransitionTo(status, policy) {
		return h, true, fmt.Errorf("%w: %s to %s", ErrTransitionNotAllowed, h[i].Status.Name(), status.Name())
	}
	out = make(History, len(h))
	copy(out, h)
	out[i].Status = status
	return out, true, nil
}
