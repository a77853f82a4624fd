// Package linkedin turns the people search form into backend requests and relays raw
// search calls to the backend.
package linkedin

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/znz-systems/linkboard/internal/models"
)

const (
	DefaultMaxResults = 40
	DefaultCount      = 50
)

// Option is a checkbox choice on the search form.
type Option struct {
	Value string
	Label string
}

var Languages = []Option{
	{"en", "English"}, {"es", "Spanish"}, {"fr", "French"}, {"de", "German"},
	{"it", "Italian"}, {"pt", "Portuguese"}, {"ru", "Russian"}, {"zh", "Chinese"},
	{"ja", "Japanese"}, {"ko", "Korean"}, {"ar", "Arabic"}, {"hi", "Hindi"},
}

var Distances = []Option{
	{"1", "1st connections"}, {"2", "2nd connections"}, {"3", "3rd+ connections"},
}

var OpenTo = []string{"proBono", "boardMember"}

// listFields are the comma separated text inputs, in the order they are sent.
var listFields = []string{
	"industry", "location", "company", "past_company", "school",
	"service", "connections_of", "followers_of", "open_to",
}

// Form is the submitted search form.
type Form struct {
	Keywords        string
	Lists           map[string][]string
	ProfileLanguage []string `validate:"dive,oneof=en es fr de it pt ru zh ja ko ar hi"`
	NetworkDistance []int    `validate:"dive,oneof=1 2 3"`
	MaxResults      int      `validate:"min=1,max=1000"`
	Count           int      `validate:"min=1,max=100"`
	IncludeDetails  bool
}

// NewForm returns an empty form with default limits.
func NewForm() Form {
	return Form{
		Lists:      map[string][]string{},
		MaxResults: DefaultMaxResults,
		Count:      DefaultCount,
	}
}

// ParseForm reads a submitted form. Text lists are split on commas with blanks
// dropped; checkbox groups may repeat their key or send a comma list.
func ParseForm(v url.Values) Form {
	f := NewForm()
	f.Keywords = v.Get("keywords")
	for _, field := range listFields {
		if items := splitList(v[field]); len(items) > 0 {
			f.Lists[field] = items
		}
	}
	f.ProfileLanguage = splitList(v["profile_language"])
	for _, d := range splitList(v["network_distance"]) {
		n, err := strconv.Atoi(d)
		if err != nil {
			n = -1
		}
		f.NetworkDistance = append(f.NetworkDistance, n)
	}
	f.MaxResults = intOr(v.Get("max_results"), DefaultMaxResults)
	f.Count = intOr(v.Get("count"), DefaultCount)
	f.IncludeDetails = v.Get("include_details") == "true" || v.Get("include_details") == "on"
	return f
}

func splitList(values []string) []string {
	var out []string
	for _, raw := range values {
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// intOr parses s, falling back to def for blanks, garbage and zero.
func intOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n == 0 {
		return def
	}
	return n
}

// Text returns a list field joined for redisplay in its input.
func (f Form) Text(field string) string {
	return strings.Join(f.Lists[field], ", ")
}

func (f Form) HasLanguage(code string) bool {
	for _, l := range f.ProfileLanguage {
		if l == code {
			return true
		}
	}
	return false
}

func (f Form) HasDistance(d string) bool {
	for _, n := range f.NetworkDistance {
		if strconv.Itoa(n) == d {
			return true
		}
	}
	return false
}

func (f Form) HasOpenTo(option string) bool {
	for _, o := range f.Lists["open_to"] {
		if o == option {
			return true
		}
	}
	return false
}

// Request maps the form to the backend search body. Only non-empty filters are set.
func (f Form) Request() models.PeopleSearchRequest {
	filters := map[string]string{}
	if kw := strings.TrimSpace(f.Keywords); kw != "" {
		filters["keywords"] = kw
	}
	for _, field := range listFields {
		if items := f.Lists[field]; len(items) > 0 {
			filters[field] = strings.Join(items, ",")
		}
	}
	if len(f.ProfileLanguage) > 0 {
		filters["profile_language"] = strings.Join(f.ProfileLanguage, ",")
	}
	if len(f.NetworkDistance) > 0 {
		ds := make([]string, len(f.NetworkDistance))
		for i, d := range f.NetworkDistance {
			ds[i] = strconv.Itoa(d)
		}
		filters["network_distance"] = strings.Join(ds, ",")
	}
	return models.PeopleSearchRequest{
		Filters:        filters,
		MaxResults:     f.MaxResults,
		Count:          f.Count,
		IncludeDetails: f.IncludeDetails,
	}
}

var validate = validator.New()

var fieldNames = map[string]string{
	"MaxResults":      "max_results",
	"Count":           "count",
	"ProfileLanguage": "profile_language",
	"NetworkDistance": "network_distance",
}

// Validate checks limits and choice values and returns one readable error.
func (f Form) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var msgs []string
	for _, e := range verrs {
		name := e.StructField()
		if i := strings.IndexByte(name, '['); i >= 0 {
			name = name[:i]
		}
		field := fieldNames[name]
		if field == "" {
			field = strings.ToLower(name)
		}
		switch e.Tag() {
		case "min":
			msgs = append(msgs, field+" must be at least "+e.Param())
		case "max":
			msgs = append(msgs, field+" must be at most "+e.Param())
		case "oneof":
			msgs = append(msgs, field+" must be one of "+e.Param())
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return errors.New(strings.Join(msgs, ", "))
}

// DistanceLabel renders a result's network distance.
func DistanceLabel(distance string) string {
	switch distance {
	case "DISTANCE_1":
		return "1st"
	case "DISTANCE_2":
		return "2nd"
	case "DISTANCE_3":
		return "3rd+"
	default:
		return distance
	}
}
