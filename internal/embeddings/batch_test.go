package embeddings

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// flakyEmbedder fails any text containing "bad".
type flakyEmbedder struct {
	calls int
}

func (f *flakyEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		if strings.Contains(t, "bad") {
			return nil, errors.New("provider rejected input")
		}
		out = append(out, []float32{float32(len(t)), 1, 2})
	}
	return out, nil
}

func (f *flakyEmbedder) Dimensions() int { return 3 }
func (f *flakyEmbedder) Name() string    { return "flaky" }

func TestEmbedEach_PartialFailure(t *testing.T) {
	e := &flakyEmbedder{}
	res, err := EmbedEach(context.Background(), e, []string{"one", "bad apple", "three"})
	if err != nil {
		t.Fatalf("EmbedEach: %v", err)
	}

	if len(res.Vectors) != 2 || len(res.Texts) != 2 {
		t.Fatalf("got %d vectors, want 2 (failures skipped, not fatal)", len(res.Vectors))
	}
	if res.Failed != 1 {
		t.Errorf("Failed = %d, want 1", res.Failed)
	}
	if res.Texts[0] != "one" || res.Texts[1] != "three" {
		t.Errorf("surviving texts out of order: %v", res.Texts)
	}
	if len(res.Indices) != 2 || res.Indices[0] != 0 || res.Indices[1] != 2 {
		t.Errorf("Indices = %v, want [0 2]", res.Indices)
	}
}

func TestEmbedEach_AllFail(t *testing.T) {
	e := &flakyEmbedder{}
	_, err := EmbedEach(context.Background(), e, []string{"bad", "also bad"})
	if !errors.Is(err, ErrNoEmbeddings) {
		t.Errorf("err = %v, want ErrNoEmbeddings", err)
	}
}

func TestEmbedEach_EmptyInput(t *testing.T) {
	res, err := EmbedEach(context.Background(), &flakyEmbedder{}, nil)
	if err != nil {
		t.Fatalf("empty input should not error: %v", err)
	}
	if len(res.Vectors) != 0 {
		t.Errorf("expected no vectors, got %d", len(res.Vectors))
	}
}

func TestEmbedEach_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := EmbedEach(ctx, &flakyEmbedder{}, []string{"one"}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestToChromemFunc(t *testing.T) {
	fn := ToChromemFunc(&flakyEmbedder{})

	vec, err := fn(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	if len(vec) != 3 {
		t.Errorf("vector length = %d, want 3", len(vec))
	}

	if _, err := fn(context.Background(), "bad input"); err == nil {
		t.Error("provider failure should surface through the adapter")
	}
}
