package worksync

import (
	"encoding/json"
	"errors"
)

// ServerRequest is the wire shape of a request as exchanged with the backend API.
type ServerRequest struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"user_id"`
	UserName        string      `json:"user_name"`
	IsAnonymous     bool        `json:"is_anonymous"`
	Request         string      `json:"request"`
	RequestType     RequestType `json:"request_type,omitempty"`
	Status          Status      `json:"status,omitempty"`
	OrderID         *int64      `json:"order_id,omitempty"`
	ItemName        string      `json:"item_name"`
	RequestedAmount int         `json:"requested_amount"`
	OrderedAmount   *int        `json:"ordered_amount,omitempty"`
	Cost            float64     `json:"cost"`
	Admin           *int64      `json:"admin,omitempty"`
	AdminName       string      `json:"admin_name"`
	Comments        string      `json:"comments"`
	CreatedAt       string      `json:"created_at,omitempty"`
	UpdatedAt       string      `json:"updated_at,omitempty"`

	Extra Extra `json:"-"`
}

type serverRequestFields ServerRequest

func (r *ServerRequest) UnmarshalJSON(data []byte) error {
	var f serverRequestFields
	extra, err := decodeWithExtra(data, &f)
	if err != nil {
		return err
	}
	*r = ServerRequest(f)
	r.Extra = extra
	return nil
}

func (r ServerRequest) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(serverRequestFields(r), r.Extra)
}

// RequestUpdate is the PUT /request body: the request plus an optional stock amount that
// finalizes cost when the request is delivered.
type RequestUpdate struct {
	ServerRequest
	Amount *int
}

func (u RequestUpdate) MarshalJSON() ([]byte, error) {
	extra := u.ServerRequest.Extra.clone()
	if u.Amount != nil {
		raw, err := json.Marshal(*u.Amount)
		if err != nil {
			return nil, err
		}
		if extra == nil {
			extra = make(Extra)
		}
		extra["amount"] = raw
	}
	return encodeWithExtra(serverRequestFields(u.ServerRequest), extra)
}

// Request is the client working shape of a request.
type Request struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"userId"`
	UserName        string      `json:"userName"`
	IsAnonymous     bool        `json:"isAnonymous"`
	Request         string      `json:"request"`
	RequestType     RequestType `json:"requestType"`
	Status          Status      `json:"status"`
	OrderID         *int64      `json:"orderId,omitempty"`
	ItemName        string      `json:"itemName"`
	RequestedAmount int         `json:"requestedAmount"`
	OrderedAmount   *int        `json:"orderedAmount,omitempty"`
	Cost            float64     `json:"cost"`
	Admin           *int64      `json:"admin,omitempty"`
	AdminName       string      `json:"adminName"`
	Comments        string      `json:"comments"`
	CreatedAt       string      `json:"createdAt,omitempty"`
	UpdatedAt       string      `json:"updatedAt,omitempty"`

	Extra Extra `json:"-"`
}

type requestFields Request

func (r *Request) UnmarshalJSON(data []byte) error {
	var f requestFields
	extra, err := decodeWithExtra(data, &f)
	if err != nil {
		return err
	}
	*r = Request(f)
	r.Extra = extra
	return nil
}

func (r Request) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(requestFields(r), r.Extra)
}

// OrderedQuantity returns the ordered amount or 0 when no admin has set it yet.
func (r Request) OrderedQuantity() int {
	if r.OrderedAmount == nil {
		return 0
	}
	return *r.OrderedAmount
}

// ServerSuggestion is the wire shape of a suggestion. CompletedAt is null while the
// suggestion is open.
type ServerSuggestion struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"user_id"`
	UserName    string  `json:"user_name"`
	IsAnonymous bool    `json:"is_anonymous"`
	Suggestion  string  `json:"suggestion"`
	Comments    string  `json:"comments"`
	CreatedAt   string  `json:"created_at,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
	CompletedAt *string `json:"completed_at"`

	Extra Extra `json:"-"`
}

type serverSuggestionFields ServerSuggestion

func (s *ServerSuggestion) UnmarshalJSON(data []byte) error {
	var f serverSuggestionFields
	extra, err := decodeWithExtra(data, &f)
	if err != nil {
		return err
	}
	*s = ServerSuggestion(f)
	s.Extra = extra
	return nil
}

func (s ServerSuggestion) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(serverSuggestionFields(s), s.Extra)
}

// Suggestion is the client working shape of a suggestion. An empty CompletedAt means open.
type Suggestion struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"userId"`
	UserName    string `json:"userName"`
	IsAnonymous bool   `json:"isAnonymous"`
	Suggestion  string `json:"suggestion"`
	Comments    string `json:"comments"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
	CompletedAt string `json:"completedAt"`

	Extra Extra `json:"-"`
}

type suggestionFields Suggestion

func (s *Suggestion) UnmarshalJSON(data []byte) error {
	var f suggestionFields
	extra, err := decodeWithExtra(data, &f)
	if err != nil {
		return err
	}
	*s = Suggestion(f)
	s.Extra = extra
	return nil
}

func (s Suggestion) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(suggestionFields(s), s.Extra)
}

// Status derives the suggestion state from its completion timestamp.
func (s Suggestion) Status() Status {
	return SuggestionStatus(s.CompletedAt)
}

var (
	ErrNegativePrice = errors.New("price must not be negative")
	ErrNegativeStock = errors.New("stock must not be negative")
)

// LowStockThreshold marks products that should be flagged for restocking in listings.
const LowStockThreshold = 10

// Product is an orderable catalog entry. It has the same shape on the wire and in the client.
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Thumbnail   string  `json:"thumbnail"`
}

func (p Product) Validate() error {
	if p.Price < 0 {
		return ErrNegativePrice
	}
	if p.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}

func (p Product) LowStock() bool {
	return p.Stock < LowStockThreshold
}
