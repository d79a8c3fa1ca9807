package spotify

import (
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/go-portfolio-server/internal/errors"
)

const (
	TermShort  = "short_term"
	TermMedium = "medium_term"
	TermLong   = "long_term"

	defaultTopLimit = 10
)

// TopQuery selects a page of the owner's top tracks or artists.
// Term is the time window: roughly four weeks, six months or several years.
type TopQuery struct {
	Term   string `validate:"oneof=short_term medium_term long_term"`
	Limit  int    `validate:"min=1,max=50"`
	Offset int    `validate:"min=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Normalize fills zero values with Spotify's defaults and validates the result
func (q TopQuery) Normalize() (TopQuery, error) {
	if q.Term == "" {
		q.Term = TermMedium
	}
	if q.Limit == 0 {
		q.Limit = defaultTopLimit
	}
	if err := validate.Struct(q); err != nil {
		return q, errors.Wrapf(errors.ErrInvalidRequest, "top items query %v", err)
	}
	return q, nil
}

func (q TopQuery) values() url.Values {
	v := url.Values{}
	v.Set("time_range", q.Term)
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("offset", strconv.Itoa(q.Offset))
	return v
}

// TermLabel is the human wording of a term for page headings
func TermLabel(term string) string {
	switch term {
	case TermShort:
		return "Last 4 weeks"
	case TermLong:
		return "All time"
	default:
		return "Last 6 months"
	}
}
