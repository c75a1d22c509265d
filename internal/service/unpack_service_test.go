package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	. "github.com/smartystreets/goconvey/convey"

	"novelpack/internal/model/novel"
	"novelpack/internal/model/run"
	"novelpack/internal/pkg/noveltools"
	"novelpack/internal/pkg/storage"
	"novelpack/internal/pkg/storage/local"
	runrepo "novelpack/internal/repository/run"
)

type testRecord struct {
	NovelTitle       string `json:"novel_title"`
	NovelDescription string `json:"novel_description"`
	VolumeTitle      string `json:"volume_title,omitempty"`
	ChapterTitle     string `json:"chapter_title"`
	ChapterText      string `json:"chapter_text"`
	ChapterNumber    any    `json:"chapter_number"`
	ChapterStartEnd  string `json:"chapter_start_end"`
}

// writeNovel 生成 1..last 章的记录文件，titles 可覆盖个别章节标题
func writeNovel(t *testing.T, path, title, desc string, last int, titles map[int]string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	var b strings.Builder
	for n := 1; n <= last; n++ {
		chTitle := fmt.Sprintf("第%d話", n)
		if v, ok := titles[n]; ok {
			chTitle = v
		}
		var number any = fmt.Sprint(n)
		if n%2 == 0 {
			number = n
		}
		data, err := json.Marshal(testRecord{
			NovelTitle:       title,
			NovelDescription: desc,
			ChapterTitle:     chTitle,
			ChapterText:      fmt.Sprintf("text-%d", n),
			ChapterNumber:    number,
			ChapterStartEnd:  fmt.Sprintf("%d/%d", n, last),
		})
		if err != nil {
			t.Fatal(err)
		}
		b.Write(data)
		b.WriteString("\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatal(err)
	}
}

func localStorageFor(ctx context.Context, sourcePath string) (storage.Storage, error) {
	return local.NewLocalStorage(OutputBase(sourcePath), "")
}

type fakeTranslator struct {
	out string
	err error
}

func (f fakeTranslator) Translate(context.Context, string, string) (string, error) {
	return f.out, f.err
}

type memoryRunRepo struct {
	mu      sync.Mutex
	runs    map[string]*run.Run
	created int
	updated int
	failing bool
}

func newMemoryRunRepo() *memoryRunRepo {
	return &memoryRunRepo{runs: map[string]*run.Run{}}
}

func (m *memoryRunRepo) Create(_ context.Context, r *run.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errors.New("mongo down")
	}
	m.created++
	cp := *r
	m.runs[r.ID] = &cp
	return nil
}

func (m *memoryRunRepo) Update(_ context.Context, r *run.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errors.New("mongo down")
	}
	m.updated++
	cp := *r
	m.runs[r.ID] = &cp
	return nil
}

func (m *memoryRunRepo) FindByID(_ context.Context, id string) (*run.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok {
		return nil, runrepo.ErrNotFound
	}
	return r, nil
}

func (m *memoryRunRepo) List(context.Context, runrepo.ListFilter) ([]*run.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*run.Run, 0, len(m.runs))
	for _, r := range m.runs {
		out = append(out, r)
	}
	return out, nil
}

func readOutput(t *testing.T, base string, parts ...string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(append([]string{base}, parts...)...))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	return string(data)
}

func TestUnpackService_ProcessFile(t *testing.T) {
	Convey("ProcessFile 把记录文件分块写出", t, func() {
		ctx := context.Background()
		base := t.TempDir()
		source := filepath.Join(base, "novels", "slime.jl")

		svc, err := NewUnpackService(UnpackOptions{ChunkSize: 10, SourceLang: "ja"}, localStorageFor, nil, nil)
		So(err, ShouldBeNil)

		Convey("12 章，chunk size 10", func() {
			writeNovel(t, source, "テスト小説", "説明", 12, nil)

			r, err := svc.ProcessFile(ctx, source)
			So(err, ShouldBeNil)
			So(r.Status, ShouldEqual, run.StatusSucceeded)
			So(len(r.Chunks), ShouldEqual, 2)
			So(r.Chapters, ShouldEqual, 12)
			So(r.NovelTitle, ShouldEqual, "テスト小説")
			So(r.DisplayTitle, ShouldEqual, "テスト小説")
			So(r.StorageType, ShouldEqual, "local")

			first := readOutput(t, base, "novels_text", "テスト小説", "1-10 テスト小説.txt")
			So(strings.HasPrefix(first, "1-10 テスト小説\n説明\n"), ShouldBeTrue)
			So(first, ShouldContainSubstring, "第1話\ntext-1\n")
			So(first, ShouldContainSubstring, "第10話\ntext-10\n")
			So(first, ShouldNotContainSubstring, "text-11")

			second := readOutput(t, base, "novels_text", "テスト小説", "11-12 テスト小説.txt")
			So(strings.HasPrefix(second, "11-12 第11話\n"), ShouldBeTrue)
			So(second, ShouldNotContainSubstring, "説明")
			So(second, ShouldContainSubstring, "text-12\n")
		})

		Convey("跳过人物介绍章节", func() {
			writeNovel(t, source, "テスト小説", "説明", 14, map[int]string{5: "登場人物"})

			r, err := svc.ProcessFile(ctx, source)
			So(err, ShouldBeNil)
			So(r.SkippedChapters, ShouldEqual, 1)
			So(r.Chunks[0].RangeLabel, ShouldEqual, "1-10")
			So(r.Chunks[0].Chapters, ShouldEqual, 9)
			So(r.Chunks[1].RangeLabel, ShouldEqual, "11-14")

			first := readOutput(t, base, "novels_text", "テスト小説", "1-10 テスト小説.txt")
			So(first, ShouldNotContainSubstring, "text-5\n")
		})

		Convey("文件名中的标题截断为 30 个字符", func() {
			long := strings.Repeat("長", 40)
			writeNovel(t, source, long, "", 3, nil)

			r, err := svc.ProcessFile(ctx, source)
			So(err, ShouldBeNil)
			So(len(r.Chunks), ShouldEqual, 1)
			name := filepath.Base(r.Chunks[0].Key)
			So(name, ShouldEqual, "1-3 "+strings.Repeat("長", 30)+".txt")

			text := readOutput(t, base, "novels_text", long, name)
			So(strings.HasPrefix(text, "1-3 "+long+"\n"), ShouldBeTrue)
		})

		Convey("翻译结果用于目录名", func() {
			writeNovel(t, source, "転生したらスライムだった件", "説明", 2, nil)
			tsvc, err := NewUnpackService(UnpackOptions{ChunkSize: 10}, localStorageFor,
				fakeTranslator{out: "That Time I Got Reincarnated as a Slime!"}, nil)
			So(err, ShouldBeNil)

			r, err := tsvc.ProcessFile(ctx, source)
			So(err, ShouldBeNil)
			So(r.DisplayTitle, ShouldEqual, "That_Time_I_Got_Reincarnated_as_a_Slime")
			So(r.Chunks[0].Key, ShouldEqual,
				"novels_text/That_Time_I_Got_Reincarnated_as_a_Slime/1-2 That_Time_I_Got_Reincarnated_a.txt")

			text := readOutput(t, base, filepath.FromSlash(r.Chunks[0].Key))
			So(strings.HasPrefix(text, "1-2 転生したらスライムだった件\n説明\n"), ShouldBeTrue)
		})

		Convey("翻译失败时使用原始标题", func() {
			writeNovel(t, source, "転生 スライム", "", 2, nil)
			tsvc, _ := NewUnpackService(UnpackOptions{ChunkSize: 10}, localStorageFor,
				fakeTranslator{err: errors.New("quota exceeded")}, nil)

			r, err := tsvc.ProcessFile(ctx, source)
			So(err, ShouldBeNil)
			So(r.DisplayTitle, ShouldEqual, "転生_スライム")
			So(r.Chunks[0].Key, ShouldEqual, "novels_text/転生_スライム/1-2 転生_スライム.txt")
		})

		Convey("标题为空时使用 untitled_novel", func() {
			writeNovel(t, source, "", "", 1, nil)
			r, err := svc.ProcessFile(ctx, source)
			So(err, ShouldBeNil)
			So(r.Chunks[0].Key, ShouldEqual, "novels_text/untitled_novel/1-1 untitled_novel.txt")
		})

		Convey("格式错误的行被跳过并计数", func() {
			writeNovel(t, source, "T", "", 3, nil)
			data, _ := os.ReadFile(source)
			corrupted := "not json\n" + string(data) + "[1,2]\n{broken\n"
			So(os.WriteFile(source, []byte(corrupted), 0644), ShouldBeNil)

			r, err := svc.ProcessFile(ctx, source)
			So(err, ShouldBeNil)
			So(r.MalformedLines, ShouldEqual, 3)
			So(r.Chapters, ShouldEqual, 3)
		})

		Convey("缺少必填字段时整部小说失败", func() {
			writeNovel(t, source, "T", "", 3, nil)
			f, _ := os.OpenFile(source, os.O_APPEND|os.O_WRONLY, 0644)
			f.WriteString(`{"novel_title":"T","chapter_title":"x","chapter_number":"4","chapter_start_end":"4/4"}` + "\n")
			f.Close()

			r, err := svc.ProcessFile(ctx, source)
			So(errors.Is(err, novel.ErrMissingField), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "line 4")
			So(r.Status, ShouldEqual, run.StatusFailed)
		})

		Convey("字段类型错误的记录使整部小说失败", func() {
			writeNovel(t, source, "T", "", 3, nil)
			data, _ := os.ReadFile(source)
			lines := strings.SplitAfter(string(data), "\n")
			lines[1] = strings.Replace(lines[1], `"novel_description":""`, `"novel_description":12345`, 1)
			So(os.WriteFile(source, []byte(strings.Join(lines, "")), 0644), ShouldBeNil)

			r, err := svc.ProcessFile(ctx, source)
			So(errors.Is(err, novel.ErrInvalidField), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "line 2")
			So(r.Status, ShouldEqual, run.StatusFailed)
			So(r.MalformedLines, ShouldEqual, 0)
		})

		Convey("已取消的上下文", func() {
			writeNovel(t, source, "T", "", 3, nil)
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			r, err := svc.ProcessFile(cctx, source)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(r.Status, ShouldEqual, run.StatusFailed)
		})

		Convey("路径是目录", func() {
			_, err := svc.ProcessFile(ctx, base)
			So(err, ShouldNotBeNil)
		})

		Convey("记录处理历史", func() {
			writeNovel(t, source, "T", "", 3, nil)
			repo := newMemoryRunRepo()
			rsvc, _ := NewUnpackService(UnpackOptions{ChunkSize: 2}, localStorageFor, nil, repo)

			r, err := rsvc.ProcessFile(ctx, source)
			So(err, ShouldBeNil)
			So(repo.created, ShouldEqual, 1)
			So(repo.updated, ShouldEqual, 1)
			saved, err := repo.FindByID(ctx, r.ID)
			So(err, ShouldBeNil)
			So(saved.Status, ShouldEqual, run.StatusSucceeded)
			So(len(saved.Chunks), ShouldEqual, 2)
		})

		Convey("处理历史写入失败不影响分块", func() {
			writeNovel(t, source, "T", "", 3, nil)
			repo := newMemoryRunRepo()
			repo.failing = true
			rsvc, _ := NewUnpackService(UnpackOptions{ChunkSize: 2}, localStorageFor, nil, repo)

			r, err := rsvc.ProcessFile(ctx, source)
			So(err, ShouldBeNil)
			So(len(r.Chunks), ShouldEqual, 2)
		})

		Convey("存储写入失败时整部小说失败", func() {
			writeNovel(t, source, "T", "", 3, nil)
			fsvc, _ := NewUnpackService(UnpackOptions{ChunkSize: 10}, func(context.Context, string) (storage.Storage, error) {
				return failingStorage{}, nil
			}, nil, nil)

			r, err := fsvc.ProcessFile(ctx, source)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "1-3")
			So(r.Status, ShouldEqual, run.StatusFailed)
		})
	})

	Convey("NewUnpackService 校验参数", t, func() {
		_, err := NewUnpackService(UnpackOptions{ChunkSize: 0}, localStorageFor, nil, nil)
		So(errors.Is(err, noveltools.ErrInvalidChunkSize), ShouldBeTrue)

		_, err = NewUnpackService(UnpackOptions{ChunkSize: 10}, nil, nil, nil)
		So(err, ShouldNotBeNil)

		svc, _ := NewUnpackService(UnpackOptions{ChunkSize: 10, SourceLang: "ja"}, localStorageFor, nil, nil)
		other, err := svc.WithChunkSize(5)
		So(err, ShouldBeNil)
		So(other.Options().ChunkSize, ShouldEqual, 5)
		So(other.Options().SourceLang, ShouldEqual, "ja")
		So(svc.Options().ChunkSize, ShouldEqual, 10)

		_, err = svc.WithChunkSize(-1)
		So(errors.Is(err, noveltools.ErrInvalidChunkSize), ShouldBeTrue)
	})
}

func TestUnpackService_ProcessDirectory(t *testing.T) {
	Convey("ProcessDirectory 独立处理每部小说", t, func() {
		ctx := context.Background()
		base := t.TempDir()
		dir := filepath.Join(base, "novels")

		writeNovel(t, filepath.Join(dir, "a.jl"), "A", "", 3, nil)
		writeNovel(t, filepath.Join(dir, "sub", "b.jsonl"), "B", "", 12, nil)
		So(os.WriteFile(filepath.Join(dir, "broken.jl"), []byte(`{"novel_title":"C","chapter_title":"x","chapter_text":"y","chapter_number":"1","chapter_start_end":"1"}`+"\n"), 0644), ShouldBeNil)
		So(os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644), ShouldBeNil)

		svc, _ := NewUnpackService(UnpackOptions{ChunkSize: 10}, localStorageFor, nil, nil)
		runs, err := svc.ProcessDirectory(ctx, dir)

		So(err, ShouldNotBeNil)
		So(errors.Is(err, novel.ErrInvalidField), ShouldBeTrue)
		So(len(runs), ShouldEqual, 3)

		byTitle := map[string]*run.Run{}
		for _, r := range runs {
			byTitle[filepath.Base(r.SourcePath)] = r
		}
		So(byTitle["a.jl"].Status, ShouldEqual, run.StatusSucceeded)
		So(byTitle["b.jsonl"].Status, ShouldEqual, run.StatusSucceeded)
		So(byTitle["broken.jl"].Status, ShouldEqual, run.StatusFailed)

		// 子目录中的小说输出到 "{子目录名}_text"
		So(readOutput(t, dir, "sub_text", "B", "11-12 B.txt"), ShouldStartWith, "11-12 ")
		So(readOutput(t, base, "novels_text", "A", "1-3 A.txt"), ShouldStartWith, "1-3 A\n")
	})
}

type failingStorage struct{}

func (failingStorage) Upload(context.Context, string, io.Reader, string) (string, error) {
	return "", errors.New("disk full")
}

func (failingStorage) Download(context.Context, string) (io.ReadCloser, error) {
	return nil, storage.ErrNotFound
}

func (failingStorage) GetPresignedDownloadURL(context.Context, string, time.Duration) (string, error) {
	return "", nil
}

func (failingStorage) Delete(context.Context, string) error { return nil }

func (failingStorage) Exists(context.Context, string) (bool, error) { return false, nil }

func (failingStorage) GetFileInfo(context.Context, string) (*storage.FileInfo, error) {
	return nil, storage.ErrNotFound
}

func (failingStorage) GetStorageType() string { return "failing" }
