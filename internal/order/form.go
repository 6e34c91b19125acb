package order

import (
	"encoding/json"
	"strings"
)

const (
	LocationUrban    = "urban"
	LocationRegional = "regional"
)

// Location is the delivery address variant. Only two shapes exist; swapping
// one for the other replaces every location-specific field at once, so stale
// cross-type values cannot survive a switch.
type Location interface {
	locationType() string
	validate() error
	addressLines() []string
}

// UrbanAddress is a city delivery address. District and Khoroo are required;
// the rest render as an em-dash placeholder when empty.
type UrbanAddress struct {
	District string
	Khoroo   string
	Building string
	Street   string
	Door     string
	Detail   string
}

func (a UrbanAddress) locationType() string { return LocationUrban }

func (a UrbanAddress) validate() error {
	if strings.TrimSpace(a.District) == "" || strings.TrimSpace(a.Khoroo) == "" {
		return ErrIncompleteUrban
	}
	return nil
}

func (a UrbanAddress) addressLines() []string {
	return []string{
		"Urban",
		"- District: " + orDash(a.District),
		"- Khoroo: " + orDash(a.Khoroo),
		"- Building: " + orDash(a.Building),
		"- Street: " + orDash(a.Street),
		"- Door: " + orDash(a.Door),
		"- Detail: " + orDash(a.Detail),
	}
}

// RegionalAddress is a countryside delivery address. Aimag and Sum are
// required.
type RegionalAddress struct {
	Aimag  string
	Sum    string
	Detail string
}

func (a RegionalAddress) locationType() string { return LocationRegional }

func (a RegionalAddress) validate() error {
	if strings.TrimSpace(a.Aimag) == "" || strings.TrimSpace(a.Sum) == "" {
		return ErrIncompleteRegional
	}
	return nil
}

func (a RegionalAddress) addressLines() []string {
	return []string{
		"Regional",
		"- Aimag: " + orDash(a.Aimag),
		"- Sum: " + orDash(a.Sum),
		"- Detail: " + orDash(a.Detail),
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

// ContactForm is the checkout contact block. Location is nil until the
// shopper picks urban or regional.
type ContactForm struct {
	Name     string
	Phone    string
	Location Location
}

// Validate applies the submission rules in order and returns the first
// failure: contact, then location choice, then the chosen address shape.
func (f ContactForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.Phone) == "" {
		return ErrMissingContact
	}
	if f.Location == nil {
		return ErrMissingLocation
	}
	return f.Location.validate()
}

// wireContact is the flat JSON shape the notification transport expects.
type wireContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	LocationType string `json:"locationType"`
	District     string `json:"district,omitempty"`
	Khoroo       string `json:"khoroo,omitempty"`
	Building     string `json:"building,omitempty"`
	Street       string `json:"street,omitempty"`
	Door         string `json:"door,omitempty"`
	Detail       string `json:"detail,omitempty"`
	Aimag        string `json:"aimag,omitempty"`
	Sum          string `json:"sum,omitempty"`
}

func (f ContactForm) MarshalJSON() ([]byte, error) {
	w := wireContact{Name: f.Name, Phone: f.Phone}
	switch l := f.Location.(type) {
	case UrbanAddress:
		w.LocationType = LocationUrban
		w.District, w.Khoroo = l.District, l.Khoroo
		w.Building, w.Street, w.Door, w.Detail = l.Building, l.Street, l.Door, l.Detail
	case RegionalAddress:
		w.LocationType = LocationRegional
		w.Aimag, w.Sum, w.Detail = l.Aimag, l.Sum, l.Detail
	}
	return json.Marshal(w)
}

func (f *ContactForm) UnmarshalJSON(b []byte) error {
	var w wireContact
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	f.Name, f.Phone = w.Name, w.Phone
	switch w.LocationType {
	case LocationUrban:
		f.Location = UrbanAddress{
			District: w.District, Khoroo: w.Khoroo,
			Building: w.Building, Street: w.Street, Door: w.Door, Detail: w.Detail,
		}
	case LocationRegional:
		f.Location = RegionalAddress{Aimag: w.Aimag, Sum: w.Sum, Detail: w.Detail}
	default:
		f.Location = nil
	}
	return nil
}
