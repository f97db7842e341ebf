package worksync

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// transitions lists, for each status, the statuses an admin may move a request to.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusDenied},
	StatusApproved: {StatusOrdered},
	StatusOrdered:  {StatusDelivered},
}

// ValidTransition reports whether a request may move from one status to another.
// A pair outside the table, including from == to, is not a transition.
func ValidTransition(from, to Status) bool {
	return slices.Contains(transitions[from], to)
}

// CheckTransition returns ErrInvalidTransition when ValidTransition does not hold.
func CheckTransition(from, to Status) error {
	if !ValidTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// NextStatuses returns the statuses reachable from s in one step.
func NextStatuses(s Status) []Status {
	return slices.Clone(transitions[s])
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s Status) bool {
	return s == StatusDenied || s == StatusDelivered
}

// NewRequest returns r ready to be submitted: placeholder id dropped, status pending,
// and every admin-owned field cleared.
func NewRequest(r Request) Request {
	r.ID = 0
	r.Status = StatusPending
	r.Cost = 0
	r.OrderID = nil
	r.OrderedAmount = nil
	r.Admin = nil
	r.AdminName = ""
	r.CreatedAt = ""
	r.UpdatedAt = ""
	if r.RequestType == "" {
		r.RequestType = RequestTypeSupply
	}
	return r
}

// FindProduct looks a product up by title.
func FindProduct(products []Product, title string) (Product, bool) {
	for _, p := range products {
		if p.Title == title {
			return p, true
		}
	}
	return Product{}, false
}

// LineCost is price times amount.
func LineCost(price float64, amount int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(amount)))
}

// PreviewCost derives the cost shown before the server answers. Unknown items cost 0.
func PreviewCost(products []Product, itemName string, orderedAmount int) decimal.Decimal {
	p, ok := FindProduct(products, itemName)
	if !ok {
		return decimal.Zero
	}
	return LineCost(p.Price, orderedAmount)
}

// Transition validates a status change on r and prepares the update to send. Entering
// delivered bills the ordered quantity, so the update carries amount = orderedAmount.
func Transition(r Request, to Status, products []Product) (RequestUpdate, error) {
	if err := CheckTransition(r.Status, to); err != nil {
		return RequestUpdate{}, err
	}
	r.Status = to
	if to == StatusOrdered || to == StatusDelivered {
		r.Cost = PreviewCost(products, r.ItemName, r.OrderedQuantity()).InexactFloat64()
	}
	update := RequestUpdate{ServerRequest: RequestToServer(r)}
	if to == StatusDelivered {
		amount := r.OrderedQuantity()
		update.Amount = &amount
	}
	return update, nil
}

// SuggestionStatus is pending for an empty timestamp and completed otherwise.
func SuggestionStatus(completedAt string) Status {
	if completedAt == "" {
		return StatusPending
	}
	return StatusCompleted
}

// FilterSuggestions keeps the suggestions whose derived status equals status, in order.
func FilterSuggestions(suggestions []Suggestion, status Status) []Suggestion {
	out := make([]Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if s.Status() == status {
			out = append(out, s)
		}
	}
	return out
}

// FilterRequests keeps the requests with the given status, in order.
func FilterRequests(requests []Request, status Status) []Request {
	out := make([]Request, 0, len(requests))
	for _, r := range requests {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

// RemoveFirst drops the first element matching fn and reports whether one was found.
func RemoveFirst[T any](list []T, fn func(T) bool) ([]T, bool) {
	i := slices.IndexFunc(list, fn)
	if i < 0 {
		return list, false
	}
	return slices.Delete(slices.Clone(list), i, i+1), true
}

// RemoveRequest drops the first request with the given id.
func RemoveRequest(list []Request, id int64) ([]Request, bool) {
	return RemoveFirst(list, func(r Request) bool { return r.ID == id })
}

func RemoveSuggestion(list []Suggestion, id int64) ([]Suggestion, bool) {
	return RemoveFirst(list, func(s Suggestion) bool { return s.ID == id })
}

func RemoveProduct(list []Product, id int64) ([]Product, bool) {
	return RemoveFirst(list, func(p Product) bool { return p.ID == id })
}
