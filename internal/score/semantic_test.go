package score

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

type fakeEmbedder struct {
	vecs [][]float32
	err  error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vecs, nil
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0.0},
		{"both zero", nil, nil, 0.0},
		{"scaled vectors still parallel", []float32{1, 1}, []float32{5, 5}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSemantic(t *testing.T) {
	e := &fakeEmbedder{vecs: [][]float32{{1, 0}, {1, 0}}}
	got, err := Semantic(context.Background(), e, "a", "b")
	if err != nil {
		t.Fatalf("Semantic: %v", err)
	}
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Semantic = %v, want 1.0", got)
	}
}

func TestSemanticEmbedderFailure(t *testing.T) {
	e := &fakeEmbedder{err: errors.New("connection refused")}
	_, err := Semantic(context.Background(), e, "a", "b")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrEmbeddingUnavailable) {
		t.Errorf("error %v should wrap ErrEmbeddingUnavailable", err)
	}
}

func TestSemanticWrongVectorCount(t *testing.T) {
	e := &fakeEmbedder{vecs: [][]float32{{1, 0}}}
	_, err := Semantic(context.Background(), e, "a", "b")
	if !errors.Is(err, ErrEmbeddingUnavailable) {
		t.Errorf("error %v should wrap ErrEmbeddingUnavailable", err)
	}
}

func TestWithRetryEventualSuccess(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("withRetry: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWithRetryExhausted(t *testing.T) {
	calls := 0
	wantErr := errors.New("permanent")
	err := withRetry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWithRetryContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := withRetry(ctx, 3, time.Minute, func() error {
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
