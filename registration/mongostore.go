package registration

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	models "github.com/ieee-vbit/registration-backend-go/models"
)

// MongoStore adapts the workflow store interfaces onto the hosted
// document database.
type MongoStore struct {
	DB *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{DB: db}
}

func (s *MongoStore) GetRegistration(ctx context.Context, collection, id string) (*models.Registration, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	var rec models.Registration
	if err := s.DB.Collection(collection).FindOne(ctx, bson.M{"_id": oid}).Decode(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *MongoStore) SetVerified(ctx context.Context, collection, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	res, err := s.DB.Collection(collection).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"verificationStatus": models.VerificationVerified}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *MongoStore) EnqueueMail(ctx context.Context, collection string, task *models.MailTask) error {
	_, err := s.DB.Collection(collection).InsertOne(ctx, task)
	return err
}

func (s *MongoStore) ActiveEventIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	cursor, err := s.DB.Collection("events").Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}
	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

// ApplyActivation runs the clear-all-then-set-one flag flip inside a
// session transaction so no reader observes an intermediate state.
func (s *MongoStore) ApplyActivation(ctx context.Context, clear []primitive.ObjectID, set primitive.ObjectID) error {
	session, err := s.DB.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		events := s.DB.Collection("events")
		if len(clear) > 0 {
			if _, err := events.UpdateMany(sc,
				bson.M{"_id": bson.M{"$in": clear}},
				bson.M{"$set": bson.M{"isActive": false}},
			); err != nil {
				return nil, err
			}
		}
		res, err := events.UpdateOne(sc,
			bson.M{"_id": set},
			bson.M{"$set": bson.M{"isActive": true}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, mongo.ErrNoDocuments
		}
		return nil, nil
	})
	return err
}
