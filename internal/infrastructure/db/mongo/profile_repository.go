package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ecostation/monitoring-console/internal/core/domain"
)

const profileCollection = "usuarios"

// MongoProfileRepository persists user profiles in the usuarios collection.
type MongoProfileRepository struct {
	coll *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *MongoProfileRepository {
	return &MongoProfileRepository{coll: db.Collection(profileCollection)}
}

type mongoProfile struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Email         string             `bson:"email"`
	Nombre        string             `bson:"nombre"`
	TipoUsuario   string             `bson:"tipo_usuario"`
	Activo        bool               `bson:"activo"`
	FechaRegistro int64              `bson:"fecha_registro"`
	UltimoAcceso  int64              `bson:"ultimo_acceso,omitempty"`
}

func (r *MongoProfileRepository) FindByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	var mp mongoProfile
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *MongoProfileRepository) Insert(ctx context.Context, p *domain.UserProfile) (*domain.UserProfile, error) {
	doc := mongoProfile{
		Email:         p.Email,
		Nombre:        p.Nombre,
		TipoUsuario:   p.TipoUsuario,
		Activo:        p.Activo,
		FechaRegistro: p.FechaRegistro.Unix(),
	}
	if !p.UltimoAcceso.IsZero() {
		doc.UltimoAcceso = p.UltimoAcceso.Unix()
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Unique email index: a concurrent EnsureProfile won the
			// race, return the existing row.
			return r.FindByEmail(ctx, p.Email)
		}
		return nil, fmt.Errorf("insert profile: %w", err)
	}

	out := *p
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		out.ID = oid.Hex()
	}
	return &out, nil
}

func (r *MongoProfileRepository) StampLastAccess(ctx context.Context, email string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"ultimo_acceso": at.Unix()}},
	)
	if err != nil {
		return fmt.Errorf("stamp last access: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *MongoProfileRepository) List(ctx context.Context) ([]*domain.UserProfile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "fecha_registro", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.UserProfile
	for cur.Next(ctx) {
		var mp mongoProfile
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		out = append(out, mp.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return out, nil
}

func (mp *mongoProfile) toDomain() *domain.UserProfile {
	return &domain.UserProfile{
		ID:            mp.ID.Hex(),
		Email:         mp.Email,
		Nombre:        mp.Nombre,
		TipoUsuario:   mp.TipoUsuario,
		Activo:        mp.Activo,
		FechaRegistro: unixToTime(mp.FechaRegistro),
		UltimoAcceso:  unixToTime(mp.UltimoAcceso),
	}
}
