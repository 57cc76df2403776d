package schema

// MaxPerPage is the largest page size the list operation accepts.
const MaxPerPage = 100

// Direction is a sort direction for index listing.
type Direction string

const (
	DirectionAsc  Direction = "asc"
	DirectionDesc Direction = "desc"
)

// ListInput is the raw pagination/sort parameter set. Every field is
// independently optional; JSON null and an absent field both arrive as nil.
type ListInput struct {
	Page      *int
	PerPage   *int
	Order     *string
	Direction *string
}

// ListQuery is a normalized pagination/sort query. nil fields are omitted
// from the outgoing request, never forwarded as explicit nulls.
type ListQuery struct {
	Page      *int
	PerPage   *int
	Order     *string
	Direction *Direction
}

// ParseListQuery validates pagination and sort parameters independently so a
// failure names the single offending field.
func ParseListQuery(in ListInput) (ListQuery, error) {
	var q ListQuery

	if in.Page != nil {
		if *in.Page < 1 {
			return ListQuery{}, errf("page", "must be a positive integer, got %d", *in.Page)
		}
		q.Page = in.Page
	}
	if in.PerPage != nil {
		if *in.PerPage < 1 || *in.PerPage > MaxPerPage {
			return ListQuery{}, errf("per_page", "must be between 1 and %d, got %d", MaxPerPage, *in.PerPage)
		}
		q.PerPage = in.PerPage
	}
	if in.Order != nil && *in.Order != "" {
		q.Order = in.Order
	}
	if in.Direction != nil {
		switch d := Direction(*in.Direction); d {
		case DirectionAsc, DirectionDesc:
			q.Direction = &d
		default:
			return ListQuery{}, errf("direction", "must be asc or desc, got %q", *in.Direction)
		}
	}
	return q, nil
}

// IsZero reports whether the query carries no parameters at all, letting the
// request builder skip the query string entirely.
func (q ListQuery) IsZero() bool {
	return q.Page == nil && q.PerPage == nil && q.Order == nil && q.Direction == nil
}
