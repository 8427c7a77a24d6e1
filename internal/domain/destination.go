package domain

import (
	"encoding/json"
	"time"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Attraction struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Destination is a place hotels can be attached to. Extra holds fields
// supplied by clients beyond the declared ones; they are stored and echoed back.
type Destination struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Country            string         `json:"country"`
	Description        string         `json:"description"`
	Coordinates        Coordinates    `json:"coordinates"`
	PopularAttractions []Attraction   `json:"popularAttractions"`
	BestTimeToVisit    string         `json:"bestTimeToVisit"`
	Currency           string         `json:"currency"`
	Language           string         `json:"language"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	Extra              map[string]any `json:"-"`
}

var destinationFields = jsonFields(Destination{})

func (d Destination) MarshalJSON() ([]byte, error) {
	type plain Destination
	if d.PopularAttractions == nil {
		d.PopularAttractions = []Attraction{}
	}
	b, err := json.Marshal(plain(d))
	if err != nil {
		return nil, err
	}
	return withExtra(b, d.Extra)
}

func (d *Destination) UnmarshalJSON(b []byte) error {
	type plain Destination
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	extra, err := extraFields(b, destinationFields)
	if err != nil {
		return err
	}
	*d = Destination(p)
	d.Extra = extra
	return nil
}

// DestinationRef is the projection of a Destination embedded in hotel
// responses. Description and Coordinates are only filled for single-hotel reads.
type DestinationRef struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Country     string       `json:"country"`
	Description string       `json:"description,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

func (d Destination) Ref() *DestinationRef {
	return &DestinationRef{ID: d.ID, Name: d.Name, Country: d.Country}
}

func (d Destination) DetailedRef() *DestinationRef {
	c := d.Coordinates
	return &DestinationRef{ID: d.ID, Name: d.Name, Country: d.Country, Description: d.Description, Coordinates: &c}
}

type CoordinatesInput struct {
	Latitude  *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"required,min=-180,max=180"`
}

// DestinationInput is the body of create and update requests. Required
// fields are plain values; optional ones are pointers or slices so an update
// can tell "absent" from "set to empty".
type DestinationInput struct {
	Name               string           `json:"name" validate:"required"`
	Country            string           `json:"country" validate:"required"`
	Description        string           `json:"description" validate:"required"`
	Coordinates        CoordinatesInput `json:"coordinates"`
	PopularAttractions []Attraction     `json:"popularAttractions"`
	BestTimeToVisit    *string          `json:"bestTimeToVisit"`
	Currency           *string          `json:"currency"`
	Language           *string          `json:"language"`
	Extra              map[string]any   `json:"-"`
}

var destinationInputFields = jsonFields(DestinationInput{})

func (in *DestinationInput) UnmarshalJSON(b []byte) error {
	type plain DestinationInput
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	extra, err := extraFields(b, destinationInputFields)
	if err != nil {
		return err
	}
	*in = DestinationInput(p)
	in.Extra = extra
	return nil
}

func (in DestinationInput) coordinates() *Coordinates {
	if in.Coordinates.Latitude == nil || in.Coordinates.Longitude == nil {
		return nil
	}
	return &Coordinates{Latitude: *in.Coordinates.Latitude, Longitude: *in.Coordinates.Longitude}
}

// NewDestination builds the record to insert, applying schema defaults.
// ID and timestamps are assigned by the store.
func (in DestinationInput) NewDestination() Destination {
	d := Destination{
		Name:               in.Name,
		Country:            in.Country,
		Description:        in.Description,
		PopularAttractions: cloneAttractions(in.PopularAttractions),
		BestTimeToVisit:    deref(in.BestTimeToVisit),
		Currency:           deref(in.Currency),
		Language:           deref(in.Language),
		Extra:              CloneExtra(in.Extra),
	}
	if d.PopularAttractions == nil {
		d.PopularAttractions = []Attraction{}
	}
	if c := in.coordinates(); c != nil {
		d.Coordinates = *c
	}
	return d
}

// DestinationPatch lists the fields an update overwrites; nil means keep.
type DestinationPatch struct {
	Name               *string
	Country            *string
	Description        *string
	Coordinates        *Coordinates
	PopularAttractions []Attraction
	BestTimeToVisit    *string
	Currency           *string
	Language           *string
	Extra              map[string]any
}

func (in DestinationInput) Patch() DestinationPatch {
	return DestinationPatch{
		Name:               &in.Name,
		Country:            &in.Country,
		Description:        &in.Description,
		Coordinates:        in.coordinates(),
		PopularAttractions: cloneAttractions(in.PopularAttractions),
		BestTimeToVisit:    in.BestTimeToVisit,
		Currency:           in.Currency,
		Language:           in.Language,
		Extra:              CloneExtra(in.Extra),
	}
}

// Apply merges p onto d. Stores that cannot express a partial update
// natively use it to keep the same semantics.
func (p DestinationPatch) Apply(d *Destination) {
	setIf(&d.Name, p.Name)
	setIf(&d.Country, p.Country)
	setIf(&d.Description, p.Description)
	if p.Coordinates != nil {
		d.Coordinates = *p.Coordinates
	}
	if p.PopularAttractions != nil {
		d.PopularAttractions = cloneAttractions(p.PopularAttractions)
	}
	setIf(&d.BestTimeToVisit, p.BestTimeToVisit)
	setIf(&d.Currency, p.Currency)
	setIf(&d.Language, p.Language)
	if len(p.Extra) > 0 {
		if d.Extra == nil {
			d.Extra = make(map[string]any, len(p.Extra))
		}
		for k, v := range CloneExtra(p.Extra) {
			d.Extra[k] = v
		}
	}
}

func cloneAttractions(in []Attraction) []Attraction {
	if in == nil {
		return nil
	}
	return append(make([]Attraction, 0, len(in)), in...)
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
