package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ecostation/monitoring-console/internal/core/domain"
	"github.com/ecostation/monitoring-console/internal/core/ports"
)

const classificationCollection = "clasificaciones"

// maxListLimit caps a single data-table query.
const maxListLimit = 1000

// MongoClassificationRepository persists station readings in the
// clasificaciones collection.
type MongoClassificationRepository struct {
	coll *mongo.Collection
}

func NewClassificationRepository(db *mongo.Database) *MongoClassificationRepository {
	return &MongoClassificationRepository{coll: db.Collection(classificationCollection)}
}

type mongoClassification struct {
	OID         primitive.ObjectID `bson:"_id,omitempty"`
	ID          string             `bson:"reading_id"`
	StationID   string             `bson:"station_id"`
	Fecha       string             `bson:"fecha"`
	Hora        string             `bson:"hora"`
	TipoResiduo string             `bson:"tipo_residuo"`
	Estado      string             `bson:"estado"`
	Confianza   float64            `bson:"confianza"`
	Humedad     float64            `bson:"humedad"`
	HumoPPM     float64            `bson:"humo_ppm"`
	Timestamp   int64              `bson:"timestamp"`
	CreatedAt   int64              `bson:"created_at"`
}

func (r *MongoClassificationRepository) List(ctx context.Context, filter ports.ListClassificationsFilter) ([]*domain.Classification, error) {
	query := bson.M{}
	if filter.TipoResiduo != "" {
		query["tipo_residuo"] = filter.TipoResiduo
	}

	limit := filter.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list classifications: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Classification
	for cur.Next(ctx) {
		var mc mongoClassification
		if err := cur.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode classification: %w", err)
		}
		out = append(out, mc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list classifications: %w", err)
	}
	return out, nil
}

func (r *MongoClassificationRepository) Insert(ctx context.Context, c *domain.Classification) error {
	doc := mongoClassification{
		ID:          c.ID,
		StationID:   c.StationID,
		Fecha:       c.Fecha,
		Hora:        c.Hora,
		TipoResiduo: c.TipoResiduo,
		Estado:      c.Estado,
		Confianza:   c.Confianza,
		Humedad:     c.Humedad,
		HumoPPM:     c.HumoPPM,
		Timestamp:   c.Timestamp,
		CreatedAt:   c.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert classification: %w", err)
	}
	return nil
}

func (r *MongoClassificationRepository) CountByTipo(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$tipo_residuo"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count by tipo: %w", err)
	}
	defer cur.Close(ctx)

	counts := make(map[string]int64)
	for cur.Next(ctx) {
		var row struct {
			Tipo  string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode count: %w", err)
		}
		counts[row.Tipo] = row.Count
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("count by tipo: %w", err)
	}
	return counts, nil
}

func (mc *mongoClassification) toDomain() *domain.Classification {
	return &domain.Classification{
		ID:          mc.ID,
		StationID:   mc.StationID,
		Fecha:       mc.Fecha,
		Hora:        mc.Hora,
		TipoResiduo: mc.TipoResiduo,
		Estado:      mc.Estado,
		Confianza:   mc.Confianza,
		Humedad:     mc.Humedad,
		HumoPPM:     mc.HumoPPM,
		Timestamp:   mc.Timestamp,
		CreatedAt:   unixToTime(mc.CreatedAt),
	}
}
