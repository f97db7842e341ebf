package worksync

// RequestToClient renames every wire field to its client counterpart. Unknown wire fields
// travel along in Extra.
func RequestToClient(r ServerRequest) Request {
	return Request{
		ID:              r.ID,
		UserID:          r.UserID,
		UserName:        r.UserName,
		IsAnonymous:     r.IsAnonymous,
		Request:         r.Request,
		RequestType:     r.RequestType,
		Status:          r.Status,
		OrderID:         copyPtr(r.OrderID),
		ItemName:        r.ItemName,
		RequestedAmount: r.RequestedAmount,
		OrderedAmount:   copyPtr(r.OrderedAmount),
		Cost:            r.Cost,
		Admin:           copyPtr(r.Admin),
		AdminName:       r.AdminName,
		Comments:        r.Comments,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Extra:           r.Extra.clone(),
	}
}

// RequestToServer is the inverse of RequestToClient.
func RequestToServer(r Request) ServerRequest {
	return ServerRequest{
		ID:              r.ID,
		UserID:          r.UserID,
		UserName:        r.UserName,
		IsAnonymous:     r.IsAnonymous,
		Request:         r.Request,
		RequestType:     r.RequestType,
		Status:          r.Status,
		OrderID:         copyPtr(r.OrderID),
		ItemName:        r.ItemName,
		RequestedAmount: r.RequestedAmount,
		OrderedAmount:   copyPtr(r.OrderedAmount),
		Cost:            r.Cost,
		Admin:           copyPtr(r.Admin),
		AdminName:       r.AdminName,
		Comments:        r.Comments,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Extra:           r.Extra.clone(),
	}
}

// RequestsToClient maps a list in order. Duplicate ids are kept.
func RequestsToClient(rs []ServerRequest) []Request {
	return mapSlice(rs, RequestToClient)
}

func RequestsToServer(rs []Request) []ServerRequest {
	return mapSlice(rs, RequestToServer)
}

// SuggestionToClient maps a null completion timestamp to the empty string.
func SuggestionToClient(s ServerSuggestion) Suggestion {
	completedAt := ""
	if s.CompletedAt != nil {
		completedAt = *s.CompletedAt
	}
	return Suggestion{
		ID:          s.ID,
		UserID:      s.UserID,
		UserName:    s.UserName,
		IsAnonymous: s.IsAnonymous,
		Suggestion:  s.Suggestion,
		Comments:    s.Comments,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		CompletedAt: completedAt,
		Extra:       s.Extra.clone(),
	}
}

// SuggestionToServer sends an empty completion timestamp as null, never as "".
func SuggestionToServer(s Suggestion) ServerSuggestion {
	var completedAt *string
	if s.CompletedAt != "" {
		v := s.CompletedAt
		completedAt = &v
	}
	return ServerSuggestion{
		ID:          s.ID,
		UserID:      s.UserID,
		UserName:    s.UserName,
		IsAnonymous: s.IsAnonymous,
		Suggestion:  s.Suggestion,
		Comments:    s.Comments,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		CompletedAt: completedAt,
		Extra:       s.Extra.clone(),
	}
}

func SuggestionsToClient(ss []ServerSuggestion) []Suggestion {
	return mapSlice(ss, SuggestionToClient)
}

func SuggestionsToServer(ss []Suggestion) []ServerSuggestion {
	return mapSlice(ss, SuggestionToServer)
}

func mapSlice[S, T any](in []S, fn func(S) T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
