package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/abhijit2512/EDUTALK-WEBAPP/internal/config"
	"github.com/abhijit2512/EDUTALK-WEBAPP/internal/model"
)

// MongoStore implements Store using a MongoDB collection
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// videoDocument is the stored document shape.
// Older revisions wrote url/ageRating and no comments/ratings; those
// documents still decode and are canonicalized by toModel.
type videoDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Publisher   string             `bson:"publisher"`
	Producer    string             `bson:"producer"`
	Genre       string             `bson:"genre"`
	Age         string             `bson:"age,omitempty"`
	AgeRating   string             `bson:"ageRating,omitempty"`
	PlaybackURL string             `bson:"playbackUrl,omitempty"`
	URL         string             `bson:"url,omitempty"`
	External    bool               `bson:"external"`
	Comments    []commentDocument  `bson:"comments"`
	Ratings     []int              `bson:"ratings"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

type commentDocument struct {
	Text      string    `bson:"text"`
	CreatedAt time.Time `bson:"createdAt"`
}

// NewMongoStore connects to MongoDB and verifies the connection
func NewMongoStore(ctx context.Context, cfg *config.MongoConfig, connectTimeout time.Duration) (*MongoStore, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(connectTimeout).
		SetConnectTimeout(connectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)

	// List sorts by createdAt; the index is idempotent
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create createdAt index: %w", err)
	}

	return &MongoStore{client: client, coll: coll}, nil
}

// ListVideos returns all videos ordered by createdAt DESC
func (s *MongoStore) ListVideos(ctx context.Context) ([]*model.Video, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	var docs []videoDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode videos: %w", err)
	}

	videos := make([]*model.Video, 0, len(docs))
	for i := range docs {
		videos = append(videos, docs[i].toModel())
	}
	return videos, nil
}

// InsertVideo inserts video and assigns its ID
func (s *MongoStore) InsertVideo(ctx context.Context, video *model.Video) error {
	doc := fromModel(video)
	doc.ID = primitive.NewObjectID()

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}
	video.ID = doc.ID.Hex()
	return nil
}

// GetVideo retrieves a video by its hex ObjectID
func (s *MongoStore) GetVideo(ctx context.Context, id string) (*model.Video, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc videoDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return doc.toModel(), nil
}

// CountVideos returns the number of stored videos
func (s *MongoStore) CountVideos(ctx context.Context) (int64, error) {
	count, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count videos: %w", err)
	}
	return count, nil
}

// AppendComment pushes comment onto the document atomically
func (s *MongoStore) AppendComment(ctx context.Context, id string, comment model.Comment) (*model.Video, error) {
	return s.push(ctx, id, "comments", commentDocument{Text: comment.Text, CreatedAt: comment.CreatedAt})
}

// AppendRating pushes rating onto the document atomically
func (s *MongoStore) AppendRating(ctx context.Context, id string, rating int) (*model.Video, error) {
	return s.push(ctx, id, "ratings", rating)
}

// push applies a single $push and returns the updated document.
// $push on a missing field creates the array, so legacy documents work too.
func (s *MongoStore) push(ctx context.Context, id, field string, value interface{}) (*model.Video, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc videoDocument
	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{field: value}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to append to %s: %w", field, err)
	}
	return doc.toModel(), nil
}

// DeleteVideo deletes a video by its hex ObjectID
func (s *MongoStore) DeleteVideo(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByURLHosts deletes, in one DeleteMany, every video whose playback
// URL (or legacy url) contains one of hosts
func (s *MongoStore) DeleteByURLHosts(ctx context.Context, hosts []string) (int64, error) {
	filter := hostFilter(hosts)
	if filter == nil {
		return 0, nil
	}

	result, err := s.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete videos by host: %w", err)
	}
	return result.DeletedCount, nil
}

// Ping checks database connectivity
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func hostFilter(hosts []string) bson.M {
	var clauses bson.A
	for _, h := range hosts {
		if h == "" {
			continue
		}
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(h), Options: "i"}
		clauses = append(clauses,
			bson.M{"playbackUrl": pattern},
			bson.M{"url": pattern},
		)
	}
	if len(clauses) == 0 {
		return nil
	}
	return bson.M{"$or": clauses}
}

func fromModel(v *model.Video) videoDocument {
	doc := videoDocument{
		Title:       v.Title,
		Publisher:   v.Publisher,
		Producer:    v.Producer,
		Genre:       v.Genre,
		Age:         v.Age,
		PlaybackURL: v.PlaybackURL,
		External:    v.External,
		Comments:    make([]commentDocument, 0, len(v.Comments)),
		Ratings:     append(make([]int, 0, len(v.Ratings)), v.Ratings...),
		CreatedAt:   v.CreatedAt,
	}
	for _, c := range v.Comments {
		doc.Comments = append(doc.Comments, commentDocument{Text: c.Text, CreatedAt: c.CreatedAt})
	}
	return doc
}

func (d *videoDocument) toModel() *model.Video {
	v := &model.Video{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Publisher:   d.Publisher,
		Producer:    d.Producer,
		Genre:       d.Genre,
		Age:         d.Age,
		PlaybackURL: d.PlaybackURL,
		External:    d.External,
		Comments:    make([]model.Comment, 0, len(d.Comments)),
		Ratings:     append(make([]int, 0, len(d.Ratings)), d.Ratings...),
		CreatedAt:   d.CreatedAt,
	}
	if v.Age == "" {
		v.Age = d.AgeRating
	}
	if v.PlaybackURL == "" {
		v.PlaybackURL = d.URL
	}
	for _, c := range d.Comments {
		v.Comments = append(v.Comments, model.Comment{Text: c.Text, CreatedAt: c.CreatedAt})
	}
	return v
}
