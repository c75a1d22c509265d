package run

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Status 处理状态
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// ChunkRecord 一个已写出的分块
type ChunkRecord struct {
	RangeLabel string `bson:"range_label" json:"range_label"` // "1-10"
	Key        string `bson:"key" json:"key"`                 // 存储 key
	URL        string `bson:"url,omitempty" json:"url,omitempty"`
	Chapters   int    `bson:"chapters" json:"chapters"` // 分块内的章节数
	Bytes      int    `bson:"bytes" json:"bytes"`
}

// Run 一次记录文件的分块处理
type Run struct {
	ID           string `bson:"id" json:"id"` // UUID
	SourcePath   string `bson:"source_path" json:"source_path"`
	NovelTitle   string `bson:"novel_title,omitempty" json:"novel_title,omitempty"`
	DisplayTitle string `bson:"display_title,omitempty" json:"display_title,omitempty"` // 输出目录名
	ChunkSize    int    `bson:"chunk_size" json:"chunk_size"`
	StorageType  string `bson:"storage_type,omitempty" json:"storage_type,omitempty"`

	Status Status `bson:"status" json:"status"`
	Error  string `bson:"error,omitempty" json:"error,omitempty"`

	Chunks          []ChunkRecord `bson:"chunks" json:"chunks"`
	Chapters        int           `bson:"chapters" json:"chapters"` // 写出的章节数
	SkippedChapters int           `bson:"skipped_chapters" json:"skipped_chapters"`
	MalformedLines  int           `bson:"malformed_lines" json:"malformed_lines"`

	StartedAt  time.Time  `bson:"started_at" json:"started_at"`
	FinishedAt *time.Time `bson:"finished_at,omitempty" json:"finished_at,omitempty"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
}

// New 创建一条运行中的记录
func New(sourcePath string, chunkSize int) *Run {
	return &Run{
		ID:         uuid.NewString(),
		SourcePath: sourcePath,
		ChunkSize:  chunkSize,
		Status:     StatusRunning,
		Chunks:     []ChunkRecord{},
		StartedAt:  time.Now(),
	}
}

// AddChunk 记录一个已写出的分块
func (r *Run) AddChunk(c ChunkRecord) {
	r.Chunks = append(r.Chunks, c)
	r.Chapters += c.Chapters
}

// Finish 结束处理，err 不为 nil 时标记为失败
func (r *Run) Finish(err error) {
	now := time.Now()
	r.FinishedAt = &now
	if err != nil {
		r.Status = StatusFailed
		r.Error = err.Error()
		return
	}
	r.Status = StatusSucceeded
}

// Duration 处理耗时，未结束时为 0
func (r *Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Collection 返回集合名称
func (r *Run) Collection() string { return "unpack_runs" }

// EnsureIndexes 创建和维护索引
func (r *Run) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(r.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetName("uniq_id").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "source_path", Value: 1}, {Key: "started_at", Value: -1}},
			Options: options.Index().SetName("idx_source_started"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_status"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
