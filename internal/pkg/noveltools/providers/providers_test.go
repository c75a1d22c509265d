package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	. "github.com/smartystreets/goconvey/convey"

	"novelpack/internal/pkg/noveltools"
)

var (
	_ noveltools.LLMProvider = (*EinoProvider)(nil)
	_ noveltools.LLMProvider = (*ArkProvider)(nil)
)

type fakeChatModel struct {
	reply    string
	err      error
	messages []*schema.Message
}

func (m *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.messages = input
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

type fakeArk struct {
	reply string
	err   error
}

func (a *fakeArk) CreateChatCompletionSimple(context.Context, string) (string, error) {
	return a.reply, a.err
}

func TestEinoProvider(t *testing.T) {
	Convey("EinoProvider", t, func() {
		ctx := context.Background()

		Convey("带系统提示词", func() {
			m := &fakeChatModel{reply: "  Hello World \n"}
			p := NewEinoProvider(m, "translate")
			out, err := p.Generate(ctx, "こんにちは")
			So(err, ShouldBeNil)
			So(out, ShouldEqual, "Hello World")
			So(len(m.messages), ShouldEqual, 2)
			So(m.messages[0].Role, ShouldEqual, schema.System)
			So(m.messages[1].Content, ShouldEqual, "こんにちは")
		})

		Convey("空回复视为错误", func() {
			_, err := NewEinoProvider(&fakeChatModel{reply: " "}, "").Generate(ctx, "x")
			So(err, ShouldNotBeNil)
		})

		Convey("模型错误向上传递", func() {
			boom := errors.New("rate limited")
			_, err := NewEinoProvider(&fakeChatModel{err: boom}, "").Generate(ctx, "x")
			So(errors.Is(err, boom), ShouldBeTrue)
		})

		Convey("未配置模型", func() {
			_, err := NewEinoProvider(nil, "").Generate(ctx, "x")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestArkProvider(t *testing.T) {
	Convey("ArkProvider", t, func() {
		ctx := context.Background()

		out, err := NewArkProvider(&fakeArk{reply: "Title\n"}).Generate(ctx, "x")
		So(err, ShouldBeNil)
		So(out, ShouldEqual, "Title")

		_, err = NewArkProvider(&fakeArk{reply: ""}).Generate(ctx, "x")
		So(err, ShouldNotBeNil)

		_, err = NewArkProvider(nil).Generate(ctx, "x")
		So(err, ShouldNotBeNil)
	})
}
