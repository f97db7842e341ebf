package worksync

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidTransition(t *testing.T) {
	cases := []struct {
		from  Status
		to    Status
		valid bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusDenied, true},
		{StatusApproved, StatusOrdered, true},
		{StatusOrdered, StatusDelivered, true},
		{StatusPending, StatusPending, false},
		{StatusDenied, StatusDenied, false},
		{StatusDelivered, StatusDelivered, false},
		{StatusPending, StatusOrdered, false},
		{StatusPending, StatusDelivered, false},
		{StatusApproved, StatusDenied, false},
		{StatusApproved, StatusPending, false},
		{StatusOrdered, StatusApproved, false},
		{StatusDenied, StatusApproved, false},
		{StatusDenied, StatusPending, false},
		{StatusDelivered, StatusOrdered, false},
		{StatusDelivered, StatusPending, false},
		{StatusPending, StatusCompleted, false},
		{StatusCompleted, StatusCompleted, false},
		{Status("bogus"), StatusApproved, false},
	}

	for _, tt := range cases {
		assert.Equalf(t, tt.valid, ValidTransition(tt.from, tt.to), "ValidTransition(%q, %q)", tt.from, tt.to)
	}
}

func TestValidTransition_RejectsEverythingOutsideTable(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusPending, StatusApproved}:  true,
		{StatusPending, StatusDenied}:    true,
		{StatusApproved, StatusOrdered}:  true,
		{StatusOrdered, StatusDelivered}: true,
	}
	for _, from := range Statuses {
		for _, to := range Statuses {
			err := CheckTransition(from, to)
			if allowed[[2]Status{from, to}] {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", from, to)
			}
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, IsTerminal(StatusDenied))
	assert.True(t, IsTerminal(StatusDelivered))
	assert.False(t, IsTerminal(StatusPending))
	assert.Empty(t, NextStatuses(StatusDenied))
	assert.Empty(t, NextStatuses(StatusDelivered))
	assert.Equal(t, []Status{StatusApproved, StatusDenied}, NextStatuses(StatusPending))
}

func TestPreviewCost(t *testing.T) {
	products := []Product{
		{ID: 1, Title: "Printer Paper", Price: 12.00, Stock: 40},
		{ID: 2, Title: "Stapler", Price: 7.5, Stock: 3},
	}

	assert.Equal(t, "60", PreviewCost(products, "Printer Paper", 5).String())
	assert.Equal(t, "22.5", PreviewCost(products, "Stapler", 3).String())
	assert.True(t, PreviewCost(products, "Toner", 5).IsZero())
	assert.True(t, PreviewCost(nil, "Printer Paper", 5).IsZero())
	assert.True(t, PreviewCost(products, "Printer Paper", 0).IsZero())
}

func TestNewRequest(t *testing.T) {
	ordered := 3
	admin := int64(9)
	draft := Request{
		ID:              1712345678,
		Request:         "Need paper",
		RequestType:     RequestTypeSupply,
		ItemName:        "Printer Paper",
		RequestedAmount: 10,
		Status:          StatusApproved,
		Cost:            55,
		OrderedAmount:   &ordered,
		Admin:           &admin,
		AdminName:       "Boss",
	}

	created := RequestToServer(NewRequest(draft))

	assert.Equal(t, int64(0), created.ID)
	assert.Equal(t, StatusPending, created.Status)
	assert.Zero(t, created.Cost)
	assert.Nil(t, created.OrderedAmount)
	assert.Nil(t, created.Admin)
	assert.Empty(t, created.AdminName)
	assert.Equal(t, "Need paper", created.Request)
	assert.Equal(t, "Printer Paper", created.ItemName)
	assert.Equal(t, 10, created.RequestedAmount)

	body, err := json.Marshal(created)
	require.NoError(t, err)
	var wire map[string]any
	require.NoError(t, json.Unmarshal(body, &wire))
	assert.Equal(t, "pending", wire["status"])
	assert.EqualValues(t, 0, wire["cost"])
	assert.NotContains(t, wire, "ordered_amount")
}

func TestNewRequest_DefaultsType(t *testing.T) {
	assert.Equal(t, RequestTypeSupply, NewRequest(Request{}).RequestType)
	assert.Equal(t, RequestTypeMaintenance, NewRequest(Request{RequestType: RequestTypeMaintenance}).RequestType)
}

func TestTransition_DeliveredCarriesOrderedAmount(t *testing.T) {
	ordered := 5
	r := Request{
		ID:              42,
		Status:          StatusOrdered,
		ItemName:        "Printer Paper",
		RequestedAmount: 10,
		OrderedAmount:   &ordered,
	}
	products := []Product{{Title: "Printer Paper", Price: 12.00}}

	update, err := Transition(r, StatusDelivered, products)
	require.NoError(t, err)

	require.NotNil(t, update.Amount)
	assert.Equal(t, 5, *update.Amount)
	assert.Equal(t, 60.0, update.Cost)
	assert.Equal(t, StatusDelivered, update.Status)

	body, err := json.Marshal(update)
	require.NoError(t, err)
	var wire map[string]any
	require.NoError(t, json.Unmarshal(body, &wire))
	assert.EqualValues(t, 5, wire["amount"])
	assert.EqualValues(t, 60, wire["cost"])
	assert.Equal(t, "delivered", wire["status"])
}

func TestTransition_Rejected(t *testing.T) {
	_, err := Transition(Request{Status: StatusDenied}, StatusApproved, nil)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	_, err = Transition(Request{Status: StatusPending}, StatusDelivered, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransition_SameStatusRejected(t *testing.T) {
	ordered := 5
	for _, st := range Statuses {
		update, err := Transition(Request{Status: st, OrderedAmount: &ordered}, st, nil)
		assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", st, st)
		assert.Nil(t, update.Amount, st)
	}
}

func TestTransition_ApproveHasNoAmount(t *testing.T) {
	update, err := Transition(Request{Status: StatusPending}, StatusApproved, nil)
	require.NoError(t, err)
	assert.Nil(t, update.Amount)
	assert.Zero(t, update.Cost)
}

func TestSuggestionStatus(t *testing.T) {
	assert.Equal(t, StatusPending, SuggestionStatus(""))
	assert.Equal(t, StatusCompleted, SuggestionStatus("2025-03-16"))
	assert.Equal(t, StatusPending, SuggestionToClient(ServerSuggestion{}).Status())
}

func TestFilterSuggestions(t *testing.T) {
	list := []Suggestion{
		{ID: 1, CompletedAt: ""},
		{ID: 2, CompletedAt: "2025-03-16"},
	}

	pending := FilterSuggestions(list, StatusPending)
	require.Len(t, pending, 1)
	assert.Equal(t, list[0], pending[0])

	completed := FilterSuggestions(list, StatusCompleted)
	require.Len(t, completed, 1)
	assert.Equal(t, int64(2), completed[0].ID)
}

func TestRemoveRequest_FirstOccurrenceOnly(t *testing.T) {
	list := []Request{{ID: 7}, {ID: 42}, {ID: 8}, {ID: 42}}

	out, ok := RemoveRequest(list, 42)
	require.True(t, ok)
	assert.Equal(t, []int64{7, 8, 42}, ids(out))
	assert.Len(t, list, 4, "input must not be modified")

	same, ok := RemoveRequest(out, 99)
	assert.False(t, ok)
	assert.Equal(t, out, same)
}

func TestProductValidate(t *testing.T) {
	assert.NoError(t, Product{Price: 0, Stock: 0}.Validate())
	assert.ErrorIs(t, Product{Price: -1}.Validate(), ErrNegativePrice)
	assert.ErrorIs(t, Product{Stock: -1}.Validate(), ErrNegativeStock)
	assert.True(t, Product{Stock: 9}.LowStock())
	assert.False(t, Product{Stock: 10}.LowStock())
}

func ids(rs []Request) []int64 {
	out := make([]int64, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}
