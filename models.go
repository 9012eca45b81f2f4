package klaviyo

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/lexfrei/go-klaviyo/apierror"
)

// Profile attribute names understood by the API.
const (
	AttrID           = "$id"
	AttrEmail        = "$email"
	AttrFirstName    = "$first_name"
	AttrLastName     = "$last_name"
	AttrOrganization = "$organization"
	AttrTitle        = "$title"
	AttrAddress1     = "$address1"
	AttrAddress2     = "$address2"
	AttrCity         = "$city"
	AttrRegion       = "$region"
	AttrZip          = "$zip"
	AttrCountry      = "$country"
	AttrTimezone     = "$timezone"
	AttrPhoneNumber  = "$phone_number"
	AttrIOSTokens    = "$ios_tokens"
)

// TrackOnceKey marks an event that is recorded at most once per profile.
const TrackOnceKey = "__track_once__"

// Profile is a person, identified by at least one of ID, Email,
// PhoneNumber or IOSTokens.
type Profile struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	Organization string
	Title        string
	Address1     string
	Address2     string
	City         string
	Region       string
	Zip          string
	Country      string
	Timezone     string
	PhoneNumber  string
	IOSTokens    []string

	// Custom holds non-special attributes. Keys starting with "$" are rejected
	// by Validate.
	Custom map[string]any
}

// ProfileFromMap builds a Profile from raw attributes, sorting "$"-prefixed
// special names into fields and everything else into Custom.
func ProfileFromMap(attrs map[string]any) (*Profile, error) {
	p := &Profile{}
	for key, value := range attrs {
		if key == AttrIOSTokens {
			tokens, err := stringSlice(value)
			if err != nil {
				return nil, err
			}
			p.IOSTokens = tokens
			continue
		}

		if field := p.specialField(key); field != nil {
			s, ok := value.(string)
			if !ok {
				return nil, apierror.Configurationf("profile attribute %s must be a string", key)
			}
			*field = s
			continue
		}

		if p.Custom == nil {
			p.Custom = make(map[string]any)
		}
		p.Custom[key] = value
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

func stringSlice(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, apierror.Configurationf("profile attribute %s must be a list of strings", AttrIOSTokens)
			}
			out = append(out, s)
		}
		return out, nil
	}

	return nil, apierror.Configurationf("profile attribute %s must be a list of strings", AttrIOSTokens)
}

func (p *Profile) specialField(key string) *string {
	switch key {
	case AttrID:
		return &p.ID
	case AttrEmail:
		return &p.Email
	case AttrFirstName:
		return &p.FirstName
	case AttrLastName:
		return &p.LastName
	case AttrOrganization:
		return &p.Organization
	case AttrTitle:
		return &p.Title
	case AttrAddress1:
		return &p.Address1
	case AttrAddress2:
		return &p.Address2
	case AttrCity:
		return &p.City
	case AttrRegion:
		return &p.Region
	case AttrZip:
		return &p.Zip
	case AttrCountry:
		return &p.Country
	case AttrTimezone:
		return &p.Timezone
	case AttrPhoneNumber:
		return &p.PhoneNumber
	}
	return nil
}

// Validate checks that p can be identified.
func (p *Profile) Validate() error {
	if p == nil {
		return apierror.Configurationf("profile is required")
	}
	if p.ID == "" && p.Email == "" && p.PhoneNumber == "" && len(p.IOSTokens) == 0 {
		return apierror.Configurationf("profile requires one of %s, %s, %s, %s for identification",
			AttrEmail, AttrID, AttrPhoneNumber, AttrIOSTokens)
	}
	for key := range p.Custom {
		if strings.HasPrefix(key, "$") {
			return apierror.Configurationf("custom attribute %q must not start with $", key)
		}
	}
	return nil
}

// ToParams returns the set special attributes in their canonical order
// followed by the custom attributes sorted by key.
func (p *Profile) ToParams() Params {
	var out Params

	fields := []struct {
		key   string
		value string
	}{
		{AttrID, p.ID},
		{AttrEmail, p.Email},
		{AttrFirstName, p.FirstName},
		{AttrLastName, p.LastName},
		{AttrOrganization, p.Organization},
		{AttrTitle, p.Title},
		{AttrAddress1, p.Address1},
		{AttrAddress2, p.Address2},
		{AttrCity, p.City},
		{AttrRegion, p.Region},
		{AttrZip, p.Zip},
		{AttrCountry, p.Country},
		{AttrTimezone, p.Timezone},
		{AttrPhoneNumber, p.PhoneNumber},
	}
	for _, f := range fields {
		if f.value != "" {
			out.Set(f.key, f.value)
		}
	}
	if len(p.IOSTokens) > 0 {
		out.Set(AttrIOSTokens, p.IOSTokens)
	}

	for _, key := range slices.Sorted(maps.Keys(p.Custom)) {
		out.Set(key, p.Custom[key])
	}

	return out
}

// Event is a tracked customer action.
type Event struct {
	// Name is the metric name, e.g. "Placed Order".
	Name string

	// Customer identifies who performed the action.
	Customer *Profile

	// Properties describe the action.
	Properties map[string]any

	// Time is when the action happened. Zero means now, as decided by the server.
	Time time.Time
}

// Validate checks that e has a name and an identifiable customer.
func (e *Event) Validate() error {
	if e == nil {
		return apierror.Configurationf("event is required")
	}
	if e.Name == "" {
		return apierror.Configurationf("event name is required")
	}
	return e.Customer.Validate()
}

// ToParams returns the event payload of a track request.
func (e *Event) ToParams() Params {
	properties := e.Properties
	if properties == nil {
		properties = map[string]any{}
	}

	out := NewParams(
		"event", e.Name,
		"customer_properties", e.Customer.ToParams(),
		"properties", properties,
	)
	if !e.Time.IsZero() {
		out.Set("time", e.Time.Unix())
	}

	return out
}
