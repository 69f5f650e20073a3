// internal/dataset/mongo.go
package dataset

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"placement-analytics/internal/common/logger"
	"placement-analytics/internal/models"
)

// Mongo collection names as created by the recruitment platform.
const (
	mongoDrives       = "drives"
	mongoApplications = "applieddrives"
	mongoCandidates   = "candidates"
	mongoInstitutes   = "institutes"
	mongoCompanies    = "companies"
)

// MongoStore reads the platform's own document collections. Object ids
// decode into the models' string ids as hex. A document that does not
// decode is skipped.
type MongoStore struct {
	db     *mongo.Database
	logger logger.Logger
}

func NewMongoStore(db *mongo.Database, log logger.Logger) *MongoStore {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &MongoStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "dataset-store", "store": "mongo"}),
	}
}

func (s *MongoStore) Name() string { return "mongo" }

func (s *MongoStore) Drives(ctx context.Context, filter DriveFilter) ([]models.Drive, error) {
	query := bson.M{}
	if filter.CompanyID != "" {
		query["company"] = idValue(filter.CompanyID)
	}
	if filter.InstituteID != "" {
		query["institute"] = idValue(filter.InstituteID)
	}
	if filter.DriveID != "" {
		query["_id"] = idValue(filter.DriveID)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return find[models.Drive](ctx, s, mongoDrives, query, opts)
}

func (s *MongoStore) Applications(ctx context.Context, driveIDs []string) ([]models.Application, error) {
	if len(driveIDs) == 0 {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return find[models.Application](ctx, s, mongoApplications, bson.M{"drive": bson.M{"$in": idValues(driveIDs)}}, opts)
}

func (s *MongoStore) Candidates(ctx context.Context, ids []string) ([]models.Candidate, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return find[models.Candidate](ctx, s, mongoCandidates, bson.M{"_id": bson.M{"$in": idValues(ids)}})
}

func (s *MongoStore) Institutes(ctx context.Context, ids []string) ([]models.Institute, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	opts := options.Find().SetProjection(bson.M{"name": 1, "candidates": 1, "pendingCandidates": 1})
	return find[models.Institute](ctx, s, mongoInstitutes, bson.M{"_id": bson.M{"$in": idValues(ids)}}, opts)
}

func (s *MongoStore) Companies(ctx context.Context, ids []string) ([]models.Company, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	opts := options.Find().SetProjection(bson.M{"name": 1})
	return find[models.Company](ctx, s, mongoCompanies, bson.M{"_id": bson.M{"$in": idValues(ids)}}, opts)
}

// find decodes the matching documents one at a time. Decode failures are
// logged and skipped; cursor failures fail the read.
func find[T any](ctx context.Context, s *MongoStore, collection string, query bson.M, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, query, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []T
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			s.logger.Warn("skipping undecodable document", map[string]interface{}{
				"collection": collection,
				"id":         documentID(cursor.Current),
				"error":      err.Error(),
			})
			continue
		}
		out = append(out, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// documentID renders a raw document's _id for logging.
func documentID(raw bson.Raw) string {
	value, err := raw.LookupErr("_id")
	if err != nil {
		return ""
	}
	if oid, ok := value.ObjectIDOK(); ok {
		return oid.Hex()
	}
	if str, ok := value.StringValueOK(); ok {
		return str
	}
	return value.String()
}

// idValue matches hex ids as object ids and anything else verbatim.
func idValue(id string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

func idValues(ids []string) []interface{} {
	values := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		values = append(values, idValue(id))
	}
	return values
}
