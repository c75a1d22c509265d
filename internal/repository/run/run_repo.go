package run

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"novelpack/internal/model/run"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("run not found")

// DefaultListLimit List 未指定 limit 时的条数
const DefaultListLimit = 50

// ListFilter 列表查询条件
type ListFilter struct {
	SourcePath string
	Status     run.Status
	Limit      int64
}

// RunRepository 处理记录仓库接口（供 service 层依赖）
type RunRepository interface {
	Create(ctx context.Context, r *run.Run) error
	Update(ctx context.Context, r *run.Run) error
	FindByID(ctx context.Context, id string) (*run.Run, error)
	List(ctx context.Context, filter ListFilter) ([]*run.Run, error)
}

// RunRepo 处理记录仓库
type RunRepo struct {
	coll *mongo.Collection
}

// NewRunRepo 创建处理记录仓库
func NewRunRepo(db *mongo.Database) *RunRepo {
	var r run.Run
	return &RunRepo{coll: db.Collection(r.Collection())}
}

// Create 创建记录
func (r *RunRepo) Create(ctx context.Context, item *run.Run) error {
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, item)
	return err
}

// Update 整体替换记录
func (r *RunRepo) Update(ctx context.Context, item *run.Run) error {
	item.UpdatedAt = time.Now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": item.ID}, item)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByID 根据ID查询
func (r *RunRepo) FindByID(ctx context.Context, id string) (*run.Run, error) {
	var item run.Run
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// List 按开始时间倒序查询
func (r *RunRepo) List(ctx context.Context, filter ListFilter) ([]*run.Run, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(listLimit(filter.Limit))

	cur, err := r.coll.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	runs := []*run.Run{}
	if err := cur.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

func buildFilter(filter ListFilter) bson.M {
	m := bson.M{}
	if filter.SourcePath != "" {
		m["source_path"] = filter.SourcePath
	}
	if filter.Status != "" {
		m["status"] = filter.Status
	}
	return m
}

func listLimit(limit int64) int64 {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
