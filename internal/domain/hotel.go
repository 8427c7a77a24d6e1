package domain

import (
	"encoding/json"
	"time"
)

const (
	DefaultStarRating   = 3
	DefaultMaxOccupancy = 2
)

type RoomCategory struct {
	CategoryName  string   `json:"categoryName"`
	PricePerNight float64  `json:"pricePerNight"`
	Amenities     []string `json:"amenities"`
	MaxOccupancy  int      `json:"maxOccupancy"`
}

type Landmark struct {
	LandmarkName string  `json:"landmarkName"`
	DistanceInKm float64 `json:"distanceInKm"`
}

// NearbyAttraction keeps distance as free text ("5 min walk").
type NearbyAttraction struct {
	Name     string `json:"name"`
	Distance string `json:"distance"`
}

type ContactInfo struct {
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Email       string `json:"email,omitempty"`
	Website     string `json:"website,omitempty"`
}

// Hotel references its Destination by id only. The reference is checked
// when the hotel is written, never enforced by the store.
type Hotel struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	DestinationID     string             `json:"destinationId"`
	Address           string             `json:"address"`
	StarRating        int                `json:"starRating"`
	GuestRating       float64            `json:"guestRating"`
	PricePerNight     float64            `json:"pricePerNight"`
	ImageURL          string             `json:"imageUrl"`
	RoomCategories    []RoomCategory     `json:"roomCategories"`
	HotelAmenities    []string           `json:"hotelAmenities"`
	NearbyLandmarks   []Landmark         `json:"nearbyLandmarks"`
	NearbyAttractions []NearbyAttraction `json:"nearbyAttractions"`
	ContactInfo       ContactInfo        `json:"contactInfo"`
	ImageGallery      []string           `json:"imageGallery"`
	IsActive          bool               `json:"isActive"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
	Extra             map[string]any     `json:"-"`
}

// destination is emitted by HotelView, so clients cannot store it as an extra.
var hotelFields = withKeys(jsonFields(Hotel{}), "destination")

// Normalize replaces nil collections with empty ones so they encode as [].
func (h *Hotel) Normalize() {
	if h.RoomCategories == nil {
		h.RoomCategories = []RoomCategory{}
	}
	for i := range h.RoomCategories {
		if h.RoomCategories[i].Amenities == nil {
			h.RoomCategories[i].Amenities = []string{}
		}
	}
	if h.HotelAmenities == nil {
		h.HotelAmenities = []string{}
	}
	if h.NearbyLandmarks == nil {
		h.NearbyLandmarks = []Landmark{}
	}
	if h.NearbyAttractions == nil {
		h.NearbyAttractions = []NearbyAttraction{}
	}
	if h.ImageGallery == nil {
		h.ImageGallery = []string{}
	}
}

func (h Hotel) MarshalJSON() ([]byte, error) {
	type plain Hotel
	h.RoomCategories = append([]RoomCategory(nil), h.RoomCategories...)
	h.Normalize()
	b, err := json.Marshal(plain(h))
	if err != nil {
		return nil, err
	}
	return withExtra(b, h.Extra)
}

func (h *Hotel) UnmarshalJSON(b []byte) error {
	type plain Hotel
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	extra, err := extraFields(b, hotelFields)
	if err != nil {
		return err
	}
	*h = Hotel(p)
	h.Extra = extra
	return nil
}

// HotelView is a hotel with its destination reference resolved. Destination
// is nil when the referenced record no longer exists.
type HotelView struct {
	Hotel
	Destination *DestinationRef
}

func (v HotelView) MarshalJSON() ([]byte, error) {
	h := v.Hotel
	if _, ok := h.Extra["destination"]; ok {
		h.Extra = CloneExtra(h.Extra)
		delete(h.Extra, "destination")
	}
	b, err := h.MarshalJSON()
	if err != nil {
		return nil, err
	}
	ref, err := json.Marshal(v.Destination)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(b)+len(ref)+16)
	out = append(out, b[:len(b)-1]...)
	out = append(out, `,"destination":`...)
	out = append(out, ref...)
	return append(out, '}'), nil
}

type RoomCategoryInput struct {
	CategoryName  string   `json:"categoryName" validate:"required"`
	PricePerNight *float64 `json:"pricePerNight" validate:"required,min=0"`
	Amenities     []string `json:"amenities"`
	MaxOccupancy  *int     `json:"maxOccupancy" validate:"omitempty,min=1"`
}

// HotelInput is the body of create and update requests. StarRating is
// decoded as a number so a fractional value reaches validation instead of
// failing the decode.
type HotelInput struct {
	Name              string              `json:"name" validate:"required"`
	DestinationID     string              `json:"destinationId" validate:"required,objectid"`
	Address           string              `json:"address" validate:"required"`
	StarRating        *float64            `json:"starRating" validate:"omitempty,integral,min=1,max=5"`
	GuestRating       *float64            `json:"guestRating" validate:"omitempty,min=0,max=5"`
	PricePerNight     *float64            `json:"pricePerNight" validate:"required,min=0"`
	ImageURL          *string             `json:"imageUrl"`
	RoomCategories    []RoomCategoryInput `json:"roomCategories" validate:"omitempty,dive"`
	HotelAmenities    []string            `json:"hotelAmenities"`
	NearbyLandmarks   []Landmark          `json:"nearbyLandmarks"`
	NearbyAttractions []NearbyAttraction  `json:"nearbyAttractions"`
	ContactInfo       *ContactInfo        `json:"contactInfo"`
	ImageGallery      []string            `json:"imageGallery"`
	IsActive          *bool               `json:"isActive"`
	Extra             map[string]any      `json:"-"`
}

var hotelInputFields = withKeys(jsonFields(HotelInput{}), "destination")

func (in *HotelInput) UnmarshalJSON(b []byte) error {
	type plain HotelInput
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	extra, err := extraFields(b, hotelInputFields)
	if err != nil {
		return err
	}
	*in = HotelInput(p)
	in.Extra = extra
	return nil
}

func (in HotelInput) roomCategories() []RoomCategory {
	if in.RoomCategories == nil {
		return nil
	}
	out := make([]RoomCategory, 0, len(in.RoomCategories))
	for _, rc := range in.RoomCategories {
		c := RoomCategory{
			CategoryName:  rc.CategoryName,
			PricePerNight: deref(rc.PricePerNight),
			Amenities:     cloneStrings(rc.Amenities),
			MaxOccupancy:  DefaultMaxOccupancy,
		}
		if rc.MaxOccupancy != nil {
			c.MaxOccupancy = *rc.MaxOccupancy
		}
		if c.Amenities == nil {
			c.Amenities = []string{}
		}
		out = append(out, c)
	}
	return out
}

func (in HotelInput) starRating() *int {
	if in.StarRating == nil {
		return nil
	}
	s := int(*in.StarRating)
	return &s
}

// NewHotel builds the record to insert with schema defaults applied.
func (in HotelInput) NewHotel() Hotel {
	h := Hotel{
		Name:              in.Name,
		DestinationID:     in.DestinationID,
		Address:           in.Address,
		StarRating:        DefaultStarRating,
		GuestRating:       deref(in.GuestRating),
		PricePerNight:     deref(in.PricePerNight),
		ImageURL:          deref(in.ImageURL),
		RoomCategories:    in.roomCategories(),
		HotelAmenities:    cloneStrings(in.HotelAmenities),
		NearbyLandmarks:   append([]Landmark(nil), in.NearbyLandmarks...),
		NearbyAttractions: append([]NearbyAttraction(nil), in.NearbyAttractions...),
		ImageGallery:      cloneStrings(in.ImageGallery),
		IsActive:          true,
		Extra:             CloneExtra(in.Extra),
	}
	if s := in.starRating(); s != nil {
		h.StarRating = *s
	}
	if in.ContactInfo != nil {
		h.ContactInfo = *in.ContactInfo
	}
	if in.IsActive != nil {
		h.IsActive = *in.IsActive
	}
	h.Normalize()
	return h
}

// HotelPatch lists the fields an update overwrites; nil means keep.
type HotelPatch struct {
	Name              *string
	DestinationID     *string
	Address           *string
	StarRating        *int
	GuestRating       *float64
	PricePerNight     *float64
	ImageURL          *string
	RoomCategories    []RoomCategory
	HotelAmenities    []string
	NearbyLandmarks   []Landmark
	NearbyAttractions []NearbyAttraction
	ContactInfo       *ContactInfo
	ImageGallery      []string
	IsActive          *bool
	Extra             map[string]any
}

func (in HotelInput) Patch() HotelPatch {
	p := HotelPatch{
		Name:              &in.Name,
		Address:           &in.Address,
		StarRating:        in.starRating(),
		GuestRating:       in.GuestRating,
		PricePerNight:     in.PricePerNight,
		ImageURL:          in.ImageURL,
		RoomCategories:    in.roomCategories(),
		HotelAmenities:    cloneStrings(in.HotelAmenities),
		NearbyLandmarks:   in.NearbyLandmarks,
		NearbyAttractions: in.NearbyAttractions,
		ContactInfo:       in.ContactInfo,
		ImageGallery:      cloneStrings(in.ImageGallery),
		IsActive:          in.IsActive,
		Extra:             CloneExtra(in.Extra),
	}
	if in.DestinationID != "" {
		p.DestinationID = &in.DestinationID
	}
	return p
}

func (p HotelPatch) Apply(h *Hotel) {
	setIf(&h.Name, p.Name)
	setIf(&h.DestinationID, p.DestinationID)
	setIf(&h.Address, p.Address)
	setIf(&h.StarRating, p.StarRating)
	setIf(&h.GuestRating, p.GuestRating)
	setIf(&h.PricePerNight, p.PricePerNight)
	setIf(&h.ImageURL, p.ImageURL)
	if p.RoomCategories != nil {
		h.RoomCategories = append([]RoomCategory(nil), p.RoomCategories...)
	}
	if p.HotelAmenities != nil {
		h.HotelAmenities = cloneStrings(p.HotelAmenities)
	}
	if p.NearbyLandmarks != nil {
		h.NearbyLandmarks = append([]Landmark(nil), p.NearbyLandmarks...)
	}
	if p.NearbyAttractions != nil {
		h.NearbyAttractions = append([]NearbyAttraction(nil), p.NearbyAttractions...)
	}
	setIf(&h.ContactInfo, p.ContactInfo)
	if p.ImageGallery != nil {
		h.ImageGallery = cloneStrings(p.ImageGallery)
	}
	setIf(&h.IsActive, p.IsActive)
	if len(p.Extra) > 0 {
		if h.Extra == nil {
			h.Extra = make(map[string]any, len(p.Extra))
		}
		for k, v := range CloneExtra(p.Extra) {
			h.Extra[k] = v
		}
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append(make([]string, 0, len(in)), in...)
}
