package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"travel_booking/internal/domain"
)

func (s *Store) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	start := time.Now()
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.destinations.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, observe(destinationsColl, "list", "", start, err)
	}
	var docs []destinationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, observe(destinationsColl, "list", "", start, err)
	}
	out := make([]domain.Destination, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.domain())
	}
	return out, observe(destinationsColl, "list", "", start, nil)
}

func (s *Store) GetDestination(ctx context.Context, id string) (domain.Destination, error) {
	oid, err := objectID(destinationsColl, id)
	if err != nil {
		return domain.Destination{}, err
	}
	start := time.Now()
	var doc destinationDoc
	err = s.destinations.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err = observe(destinationsColl, "get", id, start, err); err != nil {
		return domain.Destination{}, err
	}
	return doc.domain(), nil
}

func (s *Store) FindDestinations(ctx context.Context, ids []string) ([]domain.Destination, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []domain.Destination{}, nil
	}
	start := time.Now()
	cur, err := s.destinations.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, observe(destinationsColl, "find", "", start, err)
	}
	var docs []destinationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, observe(destinationsColl, "find", "", start, err)
	}
	out := make([]domain.Destination, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.domain())
	}
	return out, observe(destinationsColl, "find", "", start, nil)
}

func (s *Store) InsertDestination(ctx context.Context, d domain.Destination) (domain.Destination, error) {
	now := s.now()
	doc := toDestinationDoc(d)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt, doc.UpdatedAt = now, now

	start := time.Now()
	_, err := s.destinations.InsertOne(ctx, doc)
	if err = observe(destinationsColl, "insert", doc.ID.Hex(), start, err); err != nil {
		return domain.Destination{}, err
	}
	return doc.domain(), nil
}

// destinationSet translates a patch into a $set document. Fields absent from
// the patch are left untouched in storage.
func destinationSet(p domain.DestinationPatch, now time.Time) bson.D {
	set := bson.D{}
	for k, v := range p.Extra {
		set = append(set, bson.E{Key: k, Value: v})
	}
	add := func(key string, v any) { set = append(set, bson.E{Key: key, Value: v}) }
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Country != nil {
		add("country", *p.Country)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.Coordinates != nil {
		add("coordinates", toCoordinates(*p.Coordinates))
	}
	if p.PopularAttractions != nil {
		add("popularAttractions", toAttractions(p.PopularAttractions))
	}
	if p.BestTimeToVisit != nil {
		add("bestTimeToVisit", *p.BestTimeToVisit)
	}
	if p.Currency != nil {
		add("currency", *p.Currency)
	}
	if p.Language != nil {
		add("language", *p.Language)
	}
	add("updatedAt", now)
	return set
}

func (s *Store) UpdateDestination(ctx context.Context, id string, p domain.DestinationPatch) (domain.Destination, error) {
	oid, err := objectID(destinationsColl, id)
	if err != nil {
		return domain.Destination{}, err
	}
	start := time.Now()
	var doc destinationDoc
	err = s.destinations.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.D{{Key: "$set", Value: destinationSet(p, s.now())}},
		afterUpdate(),
	).Decode(&doc)
	if err = observe(destinationsColl, "update", id, start, err); err != nil {
		return domain.Destination{}, err
	}
	return doc.domain(), nil
}

func (s *Store) DeleteDestination(ctx context.Context, id string) (domain.Destination, error) {
	oid, err := objectID(destinationsColl, id)
	if err != nil {
		return domain.Destination{}, err
	}
	start := time.Now()
	var doc destinationDoc
	err = s.destinations.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err = observe(destinationsColl, "delete", id, start, err); err != nil {
		return domain.Destination{}, err
	}
	return doc.domain(), nil
}
