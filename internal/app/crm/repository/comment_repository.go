package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinicrm/internal/app/crm/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type commentRepository struct {
	collection *mongo.Collection
}

// NewCommentRepository создает новый репозиторий комментариев.
// Автоматически создает индекс по activity_id для быстрой выборки
func NewCommentRepository(db *mongo.Database) CommentRepository {
	collection := db.Collection("activity_comments")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "activity_id", Value: 1},
		},
		Options: options.Index().SetName("activity_id_idx"),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		// Индекс может уже существовать, работу не прерываем
		fmt.Printf("Warning: failed to create index on activity_id: %v\n", err)
	}

	return &commentRepository{
		collection: collection,
	}
}

// Create создает новый комментарий в MongoDB
func (r *commentRepository) Create(ctx context.Context, comment *entity.ActivityComment) error {
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, comment)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		comment.ID = oid
	}

	return nil
}

// GetByID получает комментарий по ID
func (r *commentRepository) GetByID(ctx context.Context, id string) (*entity.ActivityComment, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid comment ID: %w", ErrNotFound)
	}

	filter := bson.M{"_id": objectID}

	var comment entity.ActivityComment
	err = r.collection.FindOne(ctx, filter).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return &comment, nil
}

// ListByActivity получает комментарии к активности, новые первыми.
// Использует индекс activity_id_idx
func (r *commentRepository) ListByActivity(ctx context.Context, activityID string) ([]entity.ActivityComment, error) {
	filter := bson.M{"activity_id": activityID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find comments: %w", err)
	}
	defer cursor.Close(ctx)

	var comments []entity.ActivityComment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}

	return comments, nil
}

// Delete удаляет комментарий из MongoDB.
// Фильтр включает activity_id: комментарий нельзя удалить
// через URL чужой активности
func (r *commentRepository) Delete(ctx context.Context, activityID, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid comment ID: %w", ErrNotFound)
	}

	filter := bson.M{"_id": objectID, "activity_id": activityID}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}
