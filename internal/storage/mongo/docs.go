package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel_booking/internal/domain"
)

type coordinatesDoc struct {
	Latitude  float64 `bson:"latitude"`
	Longitude float64 `bson:"longitude"`
}

type attractionDoc struct {
	Name        string `bson:"name"`
	Description string `bson:"description"`
}

// Extra is inlined: additional client fields live at the top level of the
// document, next to the declared ones.
type destinationDoc struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	Name               string             `bson:"name"`
	Country            string             `bson:"country"`
	Description        string             `bson:"description"`
	Coordinates        coordinatesDoc     `bson:"coordinates"`
	PopularAttractions []attractionDoc    `bson:"popularAttractions"`
	BestTimeToVisit    string             `bson:"bestTimeToVisit"`
	Currency           string             `bson:"currency"`
	Language           string             `bson:"language"`
	CreatedAt          time.Time          `bson:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt"`
	Extra              bson.M             `bson:",inline"`
}

type roomCategoryDoc struct {
	CategoryName  string   `bson:"categoryName"`
	PricePerNight float64  `bson:"pricePerNight"`
	Amenities     []string `bson:"amenities"`
	MaxOccupancy  int      `bson:"maxOccupancy"`
}

type landmarkDoc struct {
	LandmarkName string  `bson:"landmarkName"`
	DistanceInKm float64 `bson:"distanceInKm"`
}

type nearbyAttractionDoc struct {
	Name     string `bson:"name"`
	Distance string `bson:"distance"`
}

type contactInfoDoc struct {
	PhoneNumber string `bson:"phoneNumber,omitempty"`
	Email       string `bson:"email,omitempty"`
	Website     string `bson:"website,omitempty"`
}

type hotelDoc struct {
	ID                primitive.ObjectID    `bson:"_id,omitempty"`
	Name              string                `bson:"name"`
	DestinationID     primitive.ObjectID    `bson:"destinationId"`
	Address           string                `bson:"address"`
	StarRating        int                   `bson:"starRating"`
	GuestRating       float64               `bson:"guestRating"`
	PricePerNight     float64               `bson:"pricePerNight"`
	ImageURL          string                `bson:"imageUrl"`
	RoomCategories    []roomCategoryDoc     `bson:"roomCategories"`
	HotelAmenities    []string              `bson:"hotelAmenities"`
	NearbyLandmarks   []landmarkDoc         `bson:"nearbyLandmarks"`
	NearbyAttractions []nearbyAttractionDoc `bson:"nearbyAttractions"`
	ContactInfo       contactInfoDoc        `bson:"contactInfo"`
	ImageGallery      []string              `bson:"imageGallery"`
	IsActive          bool                  `bson:"isActive"`
	CreatedAt         time.Time             `bson:"createdAt"`
	UpdatedAt         time.Time             `bson:"updatedAt"`
	Extra             bson.M                `bson:",inline"`
}

/********** domain -> document **********/

func toCoordinates(c domain.Coordinates) coordinatesDoc {
	return coordinatesDoc{Latitude: c.Latitude, Longitude: c.Longitude}
}

func toAttractions(in []domain.Attraction) []attractionDoc {
	out := make([]attractionDoc, 0, len(in))
	for _, a := range in {
		out = append(out, attractionDoc{Name: a.Name, Description: a.Description})
	}
	return out
}

func toDestinationDoc(d domain.Destination) destinationDoc {
	return destinationDoc{
		Name:               d.Name,
		Country:            d.Country,
		Description:        d.Description,
		Coordinates:        toCoordinates(d.Coordinates),
		PopularAttractions: toAttractions(d.PopularAttractions),
		BestTimeToVisit:    d.BestTimeToVisit,
		Currency:           d.Currency,
		Language:           d.Language,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
		Extra:              bson.M(d.Extra),
	}
}

func toRoomCategories(in []domain.RoomCategory) []roomCategoryDoc {
	out := make([]roomCategoryDoc, 0, len(in))
	for _, rc := range in {
		am := rc.Amenities
		if am == nil {
			am = []string{}
		}
		out = append(out, roomCategoryDoc{
			CategoryName:  rc.CategoryName,
			PricePerNight: rc.PricePerNight,
			Amenities:     am,
			MaxOccupancy:  rc.MaxOccupancy,
		})
	}
	return out
}

func toLandmarks(in []domain.Landmark) []landmarkDoc {
	out := make([]landmarkDoc, 0, len(in))
	for _, l := range in {
		out = append(out, landmarkDoc{LandmarkName: l.LandmarkName, DistanceInKm: l.DistanceInKm})
	}
	return out
}

func toNearbyAttractions(in []domain.NearbyAttraction) []nearbyAttractionDoc {
	out := make([]nearbyAttractionDoc, 0, len(in))
	for _, a := range in {
		out = append(out, nearbyAttractionDoc{Name: a.Name, Distance: a.Distance})
	}
	return out
}

func toContactInfo(c domain.ContactInfo) contactInfoDoc {
	return contactInfoDoc{PhoneNumber: c.PhoneNumber, Email: c.Email, Website: c.Website}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func toHotelDoc(h domain.Hotel, destID primitive.ObjectID) hotelDoc {
	return hotelDoc{
		Name:              h.Name,
		DestinationID:     destID,
		Address:           h.Address,
		StarRating:        h.StarRating,
		GuestRating:       h.GuestRating,
		PricePerNight:     h.PricePerNight,
		ImageURL:          h.ImageURL,
		RoomCategories:    toRoomCategories(h.RoomCategories),
		HotelAmenities:    nonNil(h.HotelAmenities),
		NearbyLandmarks:   toLandmarks(h.NearbyLandmarks),
		NearbyAttractions: toNearbyAttractions(h.NearbyAttractions),
		ContactInfo:       toContactInfo(h.ContactInfo),
		ImageGallery:      nonNil(h.ImageGallery),
		IsActive:          h.IsActive,
		CreatedAt:         h.CreatedAt,
		UpdatedAt:         h.UpdatedAt,
		Extra:             bson.M(h.Extra),
	}
}

/********** document -> domain **********/

func (d destinationDoc) domain() domain.Destination {
	out := domain.Destination{
		ID:                 d.ID.Hex(),
		Name:               d.Name,
		Country:            d.Country,
		Description:        d.Description,
		Coordinates:        domain.Coordinates{Latitude: d.Coordinates.Latitude, Longitude: d.Coordinates.Longitude},
		PopularAttractions: make([]domain.Attraction, 0, len(d.PopularAttractions)),
		BestTimeToVisit:    d.BestTimeToVisit,
		Currency:           d.Currency,
		Language:           d.Language,
		CreatedAt:          d.CreatedAt.UTC(),
		UpdatedAt:          d.UpdatedAt.UTC(),
		Extra:              plainMap(d.Extra),
	}
	for _, a := range d.PopularAttractions {
		out.PopularAttractions = append(out.PopularAttractions, domain.Attraction{Name: a.Name, Description: a.Description})
	}
	return out
}

func (h hotelDoc) domain() domain.Hotel {
	out := domain.Hotel{
		ID:                h.ID.Hex(),
		Name:              h.Name,
		DestinationID:     h.DestinationID.Hex(),
		Address:           h.Address,
		StarRating:        h.StarRating,
		GuestRating:       h.GuestRating,
		PricePerNight:     h.PricePerNight,
		ImageURL:          h.ImageURL,
		RoomCategories:    make([]domain.RoomCategory, 0, len(h.RoomCategories)),
		HotelAmenities:    nonNil(h.HotelAmenities),
		NearbyLandmarks:   make([]domain.Landmark, 0, len(h.NearbyLandmarks)),
		NearbyAttractions: make([]domain.NearbyAttraction, 0, len(h.NearbyAttractions)),
		ContactInfo: domain.ContactInfo{
			PhoneNumber: h.ContactInfo.PhoneNumber,
			Email:       h.ContactInfo.Email,
			Website:     h.ContactInfo.Website,
		},
		ImageGallery: nonNil(h.ImageGallery),
		IsActive:     h.IsActive,
		CreatedAt:    h.CreatedAt.UTC(),
		UpdatedAt:    h.UpdatedAt.UTC(),
		Extra:        plainMap(h.Extra),
	}
	for _, rc := range h.RoomCategories {
		out.RoomCategories = append(out.RoomCategories, domain.RoomCategory{
			CategoryName:  rc.CategoryName,
			PricePerNight: rc.PricePerNight,
			Amenities:     nonNil(rc.Amenities),
			MaxOccupancy:  rc.MaxOccupancy,
		})
	}
	for _, l := range h.NearbyLandmarks {
		out.NearbyLandmarks = append(out.NearbyLandmarks, domain.Landmark{LandmarkName: l.LandmarkName, DistanceInKm: l.DistanceInKm})
	}
	for _, a := range h.NearbyAttractions {
		out.NearbyAttractions = append(out.NearbyAttractions, domain.NearbyAttraction{Name: a.Name, Distance: a.Distance})
	}
	return out
}

// plainMap converts decoded BSON values into plain Go maps and slices.
func plainMap(m bson.M) map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch t := v.(type) {
	case bson.M:
		return plainMap(t)
	case map[string]any:
		return plainMap(bson.M(t))
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = plainValue(e.Value)
		}
		return m
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	case []any:
		return plainValue(bson.A(t))
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	default:
		return v
	}
}
