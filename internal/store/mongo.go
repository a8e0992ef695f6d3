package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/relaychat/relay/internal/domain"
)

// HistoryCap bounds how much history the durable backend replays.
const HistoryCap = 200

const collectionName = "messages"

const connectTimeout = 5 * time.Second

// MongoStore persists one document per message.
type MongoStore struct {
	coll *mongo.Collection
}

// messageDoc mirrors domain.ChatMessage; bson mapping stays inside the
// store so the domain type carries none.
type messageDoc struct {
	Username  string    `bson:"username"`
	Text      string    `bson:"text"`
	Color     string    `bson:"color"`
	Timestamp time.Time `bson:"timestamp"`
}

// OpenMongo connects and pings once. Callers treat any error as "use
// the fallback"; there is no retry.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return &MongoStore{coll: client.Database(database).Collection(collectionName)}, nil
}

func (s *MongoStore) Append(ctx context.Context, msg domain.ChatMessage) error {
	_, err := s.coll.InsertOne(ctx, messageDoc{
		Username:  msg.Username,
		Text:      msg.Text,
		Color:     msg.Color,
		Timestamp: msg.Timestamp,
	})
	return err
}

// LoadRecent returns up to the newest HistoryCap messages, oldest first.
func (s *MongoStore) LoadRecent(ctx context.Context) ([]domain.ChatMessage, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(HistoryCap)
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	var docs []messageDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return chronological(docs), nil
}

// chronological flips the newest-first query order into the oldest-first
// order callers expect.
func chronological(docs []messageDoc) []domain.ChatMessage {
	out := make([]domain.ChatMessage, len(docs))
	for i, d := range docs {
		out[len(docs)-1-i] = domain.ChatMessage{
			Username:  d.Username,
			Text:      d.Text,
			Color:     d.Color,
			Timestamp: d.Timestamp,
		}
	}
	return out
}
