package mongo

import (
	"context"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rentalhub/rental-api/internal/core/domain"
)

// RecordStore is a thin table-oriented view over a MongoDB database: every
// read is an equality filter against a named collection.
type RecordStore struct {
	db *mongo.Database
}

func NewRecordStore(db *mongo.Database) *RecordStore {
	return &RecordStore{db: db}
}

// FindOne decodes the single document of table matching filter into out.
// It returns domain.ErrRecordNotFound when nothing matches and
// domain.ErrAmbiguousRecord when more than one document does.
func (s *RecordStore) FindOne(ctx context.Context, table string, filter bson.M, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := s.db.Collection(table).Find(ctx, filter, options.Find().SetLimit(2))
	if err != nil {
		return fmt.Errorf("find %s: %w", table, err)
	}

	var docs []bson.Raw
	if err := cur.All(ctx, &docs); err != nil {
		return fmt.Errorf("read %s: %w", table, err)
	}

	switch len(docs) {
	case 0:
		return domain.ErrRecordNotFound
	case 1:
		if err := bson.Unmarshal(docs[0], out); err != nil {
			return fmt.Errorf("decode %s: %w", table, err)
		}
		return nil
	default:
		return domain.ErrAmbiguousRecord
	}
}

// Find decodes every document of table matching filter into out, which must
// be a pointer to a slice.
func (s *RecordStore) Find(ctx context.Context, table string, filter bson.M, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if filter == nil {
		filter = bson.M{}
	}
	cur, err := s.db.Collection(table).Find(ctx, filter)
	if err != nil {
		return fmt.Errorf("find %s: %w", table, err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("read %s: %w", table, err)
	}
	return nil
}

// Insert stores doc in table and returns the generated id.
func (s *RecordStore) Insert(ctx context.Context, table string, doc any) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.db.Collection(table).InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	return idString(res.InsertedID), nil
}

// idFilter matches a document by id. Ids that look like ObjectIDs are
// matched as such; numeric ids (rows migrated from the old backend) as
// integers; anything else as a plain string.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}
	}
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return bson.M{"_id": n}
	}
	return bson.M{"_id": id}
}

func idString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return t.Hex()
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func stringField(doc bson.M, key string) string {
	s, _ := doc[key].(string)
	return s
}

// plain converts driver container types so loosely typed fields can be
// handed to domain helpers and JSON encoders.
func plain(v any) any {
	switch t := v.(type) {
	case primitive.A:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plain(item)
		}
		return out
	case bson.M:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = plain(item)
		}
		return out
	case primitive.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = plain(e.Value)
		}
		return out
	default:
		return v
	}
}
