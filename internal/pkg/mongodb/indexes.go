package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"novelpack/internal/model/run"
)

// EnsureIndexes 创建所有模型的索引，在应用启动时调用
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	models := []Model{
		&run.Run{},
	}
	return EnsureAllIndexes(ctx, db, models...)
}
