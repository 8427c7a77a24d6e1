package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"travel_booking/internal/domain"
)

func hotelSort(by domain.HotelSort) bson.D {
	if by == domain.SortByRating {
		return bson.D{{Key: "starRating", Value: -1}, {Key: "guestRating", Value: -1}, {Key: "_id", Value: 1}}
	}
	return bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}
}

func (s *Store) ListHotels(ctx context.Context, q domain.HotelsQuery) ([]domain.Hotel, error) {
	filter := bson.M{}
	if q.DestinationID != nil {
		oid, err := primitive.ObjectIDFromHex(*q.DestinationID)
		if err != nil {
			// no stored reference can match a malformed id
			return []domain.Hotel{}, nil
		}
		filter["destinationId"] = oid
	}
	if q.ActiveOnly {
		filter["isActive"] = true
	}

	start := time.Now()
	cur, err := s.hotels.Find(ctx, filter, options.Find().SetSort(hotelSort(q.Sort)))
	if err != nil {
		return nil, observe(hotelsColl, "list", "", start, err)
	}
	var docs []hotelDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, observe(hotelsColl, "list", "", start, err)
	}
	out := make([]domain.Hotel, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.domain())
	}
	return out, observe(hotelsColl, "list", "", start, nil)
}

func (s *Store) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	oid, err := objectID(hotelsColl, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	start := time.Now()
	var doc hotelDoc
	err = s.hotels.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err = observe(hotelsColl, "get", id, start, err); err != nil {
		return domain.Hotel{}, err
	}
	return doc.domain(), nil
}

func (s *Store) InsertHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	destID, err := objectID(destinationsColl, h.DestinationID)
	if err != nil {
		return domain.Hotel{}, err
	}
	now := s.now()
	doc := toHotelDoc(h, destID)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt, doc.UpdatedAt = now, now

	start := time.Now()
	_, err = s.hotels.InsertOne(ctx, doc)
	if err = observe(hotelsColl, "insert", doc.ID.Hex(), start, err); err != nil {
		return domain.Hotel{}, err
	}
	return doc.domain(), nil
}

func hotelSet(p domain.HotelPatch, now time.Time) (bson.D, error) {
	set := bson.D{}
	for k, v := range p.Extra {
		set = append(set, bson.E{Key: k, Value: v})
	}
	add := func(key string, v any) { set = append(set, bson.E{Key: key, Value: v}) }
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.DestinationID != nil {
		oid, err := objectID(destinationsColl, *p.DestinationID)
		if err != nil {
			return nil, err
		}
		add("destinationId", oid)
	}
	if p.Address != nil {
		add("address", *p.Address)
	}
	if p.StarRating != nil {
		add("starRating", *p.StarRating)
	}
	if p.GuestRating != nil {
		add("guestRating", *p.GuestRating)
	}
	if p.PricePerNight != nil {
		add("pricePerNight", *p.PricePerNight)
	}
	if p.ImageURL != nil {
		add("imageUrl", *p.ImageURL)
	}
	if p.RoomCategories != nil {
		add("roomCategories", toRoomCategories(p.RoomCategories))
	}
	if p.HotelAmenities != nil {
		add("hotelAmenities", p.HotelAmenities)
	}
	if p.NearbyLandmarks != nil {
		add("nearbyLandmarks", toLandmarks(p.NearbyLandmarks))
	}
	if p.NearbyAttractions != nil {
		add("nearbyAttractions", toNearbyAttractions(p.NearbyAttractions))
	}
	if p.ContactInfo != nil {
		add("contactInfo", toContactInfo(*p.ContactInfo))
	}
	if p.ImageGallery != nil {
		add("imageGallery", p.ImageGallery)
	}
	if p.IsActive != nil {
		add("isActive", *p.IsActive)
	}
	add("updatedAt", now)
	return set, nil
}

func (s *Store) UpdateHotel(ctx context.Context, id string, p domain.HotelPatch) (domain.Hotel, error) {
	oid, err := objectID(hotelsColl, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	set, err := hotelSet(p, s.now())
	if err != nil {
		return domain.Hotel{}, err
	}
	start := time.Now()
	var doc hotelDoc
	err = s.hotels.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.D{{Key: "$set", Value: set}},
		afterUpdate(),
	).Decode(&doc)
	if err = observe(hotelsColl, "update", id, start, err); err != nil {
		return domain.Hotel{}, err
	}
	return doc.domain(), nil
}

func (s *Store) DeleteHotel(ctx context.Context, id string) (domain.Hotel, error) {
	oid, err := objectID(hotelsColl, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	start := time.Now()
	var doc hotelDoc
	err = s.hotels.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err = observe(hotelsColl, "delete", id, start, err); err != nil {
		return domain.Hotel{}, err
	}
	return doc.domain(), nil
}

func (s *Store) DeactivateHotels(ctx context.Context, ids []string) (int64, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return 0, nil
	}
	start := time.Now()
	res, err := s.hotels.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": oids}, "isActive": true},
		bson.D{{Key: "$set", Value: bson.D{{Key: "isActive", Value: false}, {Key: "updatedAt", Value: s.now()}}}},
	)
	if err = observe(hotelsColl, "deactivate", "", start, err); err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
