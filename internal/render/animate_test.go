package render

import (
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/physics"
)

func TestAnimateGIF(t *testing.T) {
	dp := physics.NewDoublePendulum()

	result := &dynamo.Result{}
	for i := 0; i < 20; i++ {
		theta := 0.1 * float64(i)
		result.States = append(result.States, dynamo.State{theta, -theta, 0, 0})
		result.Times = append(result.Times, 0.01*float64(i))
	}

	path := filepath.Join(t.TempDir(), "pendulum.gif")
	opts := AnimateOptions{Size: 64, Stride: 2, Delay: 3}

	if err := AnimateGIF(path, dp, result, opts); err != nil {
		t.Fatalf("animate failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	defer f.Close()

	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("output is not a valid gif: %v", err)
	}

	if len(anim.Image) != 10 {
		t.Errorf("expected 10 frames at stride 2, got %d", len(anim.Image))
	}
	b := anim.Image[0].Bounds()
	if b.Dx() != 64 || b.Dy() != 64 {
		t.Errorf("expected 64x64 frames, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestAnimateGIFInvalid(t *testing.T) {
	dp := physics.NewDoublePendulum()
	path := filepath.Join(t.TempDir(), "bad.gif")

	if err := AnimateGIF(path, dp, &dynamo.Result{}, DefaultAnimateOptions()); err == nil {
		t.Error("expected error for empty trajectory")
	}

	result := &dynamo.Result{States: []dynamo.State{{0, 0, 0, 0}}}
	if err := AnimateGIF(path, dp, result, AnimateOptions{Size: 0, Stride: 1}); err == nil {
		t.Error("expected error for zero frame size")
	}
}
