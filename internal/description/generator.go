// Package description writes marketing copy for new products with a
// generative language model.
package description

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	MissingKeyText = "الرجاء توفير مفتاح API لاستخدام ميزة الذكاء الاصطناعي."
	FailureText    = "حدث خطأ أثناء توليد الوصف. يرجى المحاولة لاحقاً."
	EmptyText      = "لم يتم إنشاء وصف."

	DefaultTimeout = 30 * time.Second
)

// Request holds what the admin has typed into the product form so far.
type Request struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Features string `json:"features"`
}

func (r Request) key() string {
	return r.Name + "\x00" + r.Category + "\x00" + r.Features
}

// Prompt renders the instruction sent to the model.
func (r Request) Prompt() string {
	var b strings.Builder
	b.WriteString("أنت خبير تسويق في متجر ملابس فاخر. ")
	b.WriteString("اكتب وصفاً جذاباً ومختصراً (حوالي 30-50 كلمة) لمنتج بالبيانات التالية:\n")
	fmt.Fprintf(&b, "الاسم: %s\n", r.Name)
	fmt.Fprintf(&b, "الفئة: %s\n", r.Category)
	fmt.Fprintf(&b, "مميزات إضافية: %s\n\n", r.Features)
	b.WriteString("اجعل النغمة حماسية وجذابة للزبائن العرب.")
	return b.String()
}

// Model produces text for a prompt.
type Model interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Generator never fails: every problem is reported to the admin as one of
// the fixed texts above.
type Generator struct {
	model   Model
	timeout time.Duration
	logger  logrus.FieldLogger
	group   singleflight.Group
}

// NewGenerator returns a generator over model. A nil model means no API key
// was configured.
func NewGenerator(model Model, timeout time.Duration, logger logrus.FieldLogger) *Generator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Generator{
		model:   model,
		timeout: timeout,
		logger:  logger.WithField("component", "description"),
	}
}

// Available reports whether a model is configured.
func (g *Generator) Available() bool {
	return g.model != nil
}

func (g *Generator) Generate(ctx context.Context, req Request) string {
	if g.model == nil {
		return MissingKeyText
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.model.GenerateContent(ctx, req.Prompt())
	if err != nil {
		g.logger.WithError(err).WithField("product", req.Name).Error("description generation failed")
		return FailureText
	}
	if strings.TrimSpace(text) == "" {
		return EmptyText
	}
	return strings.TrimSpace(text)
}

// GenerateAsync runs Generate in the background. Identical requests already in
// flight share one model call.
func (g *Generator) GenerateAsync(ctx context.Context, req Request) <-chan string {
	out := make(chan string, 1)
	go func() {
		v, _, _ := g.group.Do(req.key(), func() (any, error) {
			return g.Generate(ctx, req), nil
		})
		out <- v.(string)
		close(out)
	}()
	return out
}
