package pipeline

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnyUserName/imcat/internal/profile"
	"github.com/AnyUserName/imcat/internal/render"
	"github.com/AnyUserName/imcat/internal/resample"
	"github.com/AnyUserName/imcat/internal/source"
)

func writePNG(t *testing.T, dir, name string, w, h int, fill func(x, y int) color.NRGBA) source.Source {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, fill(x, y))
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	srcs, err := source.Expand([]string{path})
	if err != nil {
		t.Fatal(err)
	}
	return srcs[0]
}

func solid(c color.NRGBA) func(x, y int) color.NRGBA {
	return func(int, int) color.NRGBA { return c }
}

var red = color.NRGBA{R: 255, A: 255}

func testConfig(out, log *bytes.Buffer) Config {
	return Config{
		Output:  resample.OutputSpec{Columns: 80, Rows: 24},
		Profile: "classic",
		Workers: 2,
		Out:     out,
		Log:     log,
	}
}

func TestRunTrueColorRedSquare(t *testing.T) {
	src := writePNG(t, t.TempDir(), "red.png", 4, 4, solid(red))

	var out, log bytes.Buffer
	rep, err := New(testConfig(&out, &log)).Run([]source.Source{src})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	row := strings.Repeat("\x1b[48;2;255;0;0m ", 4) + "\x1b[0m\n"
	if want := strings.Repeat(row, 4); out.String() != want {
		t.Errorf("output:\ngot  %q\nwant %q", out.String(), want)
	}
	if rep.Renderer != "truecolor" {
		t.Errorf("renderer: got %q", rep.Renderer)
	}
	if rep.Stats.Rendered != 1 || rep.Stats.TotalRows != 4 {
		t.Errorf("stats: %+v", rep.Stats)
	}
	if log.Len() != 0 {
		t.Errorf("unexpected diagnostics: %q", log.String())
	}
}

func TestRunHalfBlock(t *testing.T) {
	src := writePNG(t, t.TempDir(), "red.png", 4, 4, solid(red))

	var out, log bytes.Buffer
	cfg := testConfig(&out, &log)
	cfg.Render.DoubleResolution = true
	rep, err := New(cfg).Run([]source.Source{src})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	row := strings.Repeat("\x1b[38;2;255;0;0m\x1b[48;2;255;0;0m▀", 4) + "\x1b[0m\n"
	if want := strings.Repeat(row, 2); out.String() != want {
		t.Errorf("output:\ngot  %q\nwant %q", out.String(), want)
	}
	if rep.Images[0].Output.Rows != 2 {
		t.Errorf("rows: got %d, want 2", rep.Images[0].Output.Rows)
	}
}

func TestRunDowngradesWithoutHalfBlock(t *testing.T) {
	src := writePNG(t, t.TempDir(), "red.png", 2, 2, solid(red))

	var out, log bytes.Buffer
	cfg := testConfig(&out, &log)
	cfg.Render.DoubleResolution = true
	cfg.SupportsDouble = func() bool { return false }
	rep, err := New(cfg).Run([]source.Source{src})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Renderer != "truecolor" {
		t.Errorf("renderer: got %q, want truecolor", rep.Renderer)
	}
	if !strings.Contains(log.String(), "half-block output unsupported") {
		t.Errorf("missing downgrade warning: %q", log.String())
	}
}

func TestRunExplicitWidth(t *testing.T) {
	src := writePNG(t, t.TempDir(), "wide.png", 200, 100, func(x, y int) color.NRGBA {
		return color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255}
	})

	var out, log bytes.Buffer
	cfg := testConfig(&out, &log)
	cfg.Output.Width = 10
	rep, err := New(cfg).Run([]source.Source{src})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	img := rep.Images[0]
	if img.Output.Width != 10 || img.Output.Height != 5 {
		t.Errorf("output: got %dx%d, want 10x5", img.Output.Width, img.Output.Height)
	}
	if img.SamplesPerCell != 20 || img.KernelRadius != 9 {
		t.Errorf("kernel: spc=%v radius=%d", img.SamplesPerCell, img.KernelRadius)
	}
	if lines := strings.Count(out.String(), "\n"); lines != 5 {
		t.Errorf("lines: got %d, want 5", lines)
	}
}

func TestRunContinuesPastBadImages(t *testing.T) {
	dir := t.TempDir()
	good := writePNG(t, dir, "good.png", 2, 2, solid(red))

	junk := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(junk, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	srcs, err := source.Expand([]string{junk, filepath.Join(dir, "missing.png")})
	if err != nil {
		t.Fatal(err)
	}
	srcs = append(srcs, good)

	var out, log bytes.Buffer
	rep, err := New(testConfig(&out, &log)).Run(srcs)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if rep.Stats.Failed != 2 || rep.Stats.Rendered != 1 {
		t.Errorf("stats: %+v", rep.Stats)
	}
	if n := strings.Count(log.String(), "[imcat] could not load image"); n != 2 {
		t.Errorf("failure lines: got %d in %q", n, log.String())
	}
	if strings.Count(out.String(), "\n") != 2 {
		t.Errorf("good image not rendered: %q", out.String())
	}
	if rep.Images[0].Error == "" || rep.Images[1].Error == "" {
		t.Error("failed images should carry an error")
	}
}

func TestRunCachesIdenticalContent(t *testing.T) {
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", 3, 3, solid(red))
	b := writePNG(t, dir, "b.png", 3, 3, solid(red))

	var out, log bytes.Buffer
	rep, err := New(testConfig(&out, &log)).Run([]source.Source{a, b, a})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if rep.Stats.CacheHits != 2 {
		t.Errorf("cache hits: got %d, want 2", rep.Stats.CacheHits)
	}
	if rep.Images[0].Cached || !rep.Images[1].Cached {
		t.Errorf("cached flags: %v %v", rep.Images[0].Cached, rep.Images[1].Cached)
	}
	if rep.Images[1].Key != b.Key {
		t.Errorf("cached entry key: got %q, want %q", rep.Images[1].Key, b.Key)
	}
	third := out.String()
	one := third[:len(third)/3]
	if third != strings.Repeat(one, 3) {
		t.Error("cached output differs from first render")
	}
}

func TestRunNoCache(t *testing.T) {
	src := writePNG(t, t.TempDir(), "a.png", 2, 2, solid(red))

	var out, log bytes.Buffer
	cfg := testConfig(&out, &log)
	cfg.NoCache = true
	rep, err := New(cfg).Run([]source.Source{src, src})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Stats.CacheHits != 0 {
		t.Errorf("cache hits: got %d, want 0", rep.Stats.CacheHits)
	}
}

type brokenPipe struct{}

var errBroken = errors.New("broken pipe")

func (brokenPipe) Write([]byte) (int, error) { return 0, errBroken }

func TestRunStopsOnSinkFailure(t *testing.T) {
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", 2, 2, solid(red))
	b := writePNG(t, dir, "b.png", 2, 2, solid(color.NRGBA{G: 255, A: 255}))

	var log bytes.Buffer
	cfg := testConfig(nil, &log)
	cfg.Out = brokenPipe{}
	rep, err := New(cfg).Run([]source.Source{a, b})
	if !errors.Is(err, errBroken) {
		t.Fatalf("err: got %v, want broken pipe", err)
	}
	if len(rep.Images) != 1 {
		t.Errorf("images processed: got %d, want 1", len(rep.Images))
	}
}

func TestPolicyResolution(t *testing.T) {
	tests := []struct {
		double, blend bool
		want          resample.Policy
	}{
		{false, false, resample.Unweighted},
		{false, true, resample.Unweighted},
		{true, false, resample.Unweighted},
		{true, true, resample.AlphaWeighted},
	}
	for _, tt := range tests {
		p := New(Config{Render: render.Config{DoubleResolution: tt.double, Blend: tt.blend}})
		if got := p.opts.Policy; got != tt.want {
			t.Errorf("double=%v blend=%v: got %s, want %s", tt.double, tt.blend, got, tt.want)
		}
	}
}

func TestRunBlendsTransparentPixels(t *testing.T) {
	src := writePNG(t, t.TempDir(), "clear.png", 2, 2, solid(color.NRGBA{R: 200, G: 10, B: 10}))

	var out, log bytes.Buffer
	cfg := testConfig(&out, &log)
	cfg.Render = render.Config{
		DoubleResolution: true,
		Blend:            true,
		Background:       render.RGB{R: 1, G: 2, B: 3},
	}
	if _, err := New(cfg).Run([]source.Source{src}); err != nil {
		t.Fatalf("run: %v", err)
	}

	row := strings.Repeat("\x1b[38;2;1;2;3m\x1b[48;2;1;2;3m▀", 2) + "\x1b[0m\n"
	if out.String() != row {
		t.Errorf("output:\ngot  %q\nwant %q", out.String(), row)
	}
}

func TestRunBlendsTranslucentPixels(t *testing.T) {
	src := writePNG(t, t.TempDir(), "half.png", 2, 2, solid(color.NRGBA{R: 255, A: 128}))

	// Premultiplied red 128 over blue: 128*255/255 and 255*127/255.
	row := strings.Repeat("\x1b[38;2;128;0;127m\x1b[48;2;128;0;127m▀", 2) + "\x1b[0m\n"

	for _, name := range []string{profile.DefaultName, "halfblock"} {
		t.Run(name, func(t *testing.T) {
			policy, err := resample.ParsePolicy(profile.Get(name).Alpha)
			if err != nil {
				t.Fatal(err)
			}

			var out, log bytes.Buffer
			cfg := testConfig(&out, &log)
			cfg.Profile = name
			cfg.Policy = policy
			cfg.Render = render.Config{
				DoubleResolution: true,
				Blend:            true,
				Background:       render.RGB{B: 255},
			}
			p := New(cfg)
			if p.opts.Policy != resample.AlphaWeighted {
				t.Errorf("policy: got %s, want weighted", p.opts.Policy)
			}
			if _, err := p.Run([]source.Source{src}); err != nil {
				t.Fatalf("run: %v", err)
			}
			if out.String() != row {
				t.Errorf("output:\ngot  %q\nwant %q", out.String(), row)
			}
		})
	}
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, "alpha.png", 8, 4, func(x, y int) color.NRGBA {
		return color.NRGBA{R: 255, A: uint8(x * 32)}
	})

	var out, log bytes.Buffer
	rep := New(testConfig(&out, &log)).Inspect([]source.Source{src})

	if out.Len() != 0 {
		t.Error("inspect must not render")
	}
	img := rep.Images[0]
	if !img.Source.HasAlpha || img.Source.Format != "png" {
		t.Errorf("source: %+v", img.Source)
	}
	if img.Output.Width != 8 || img.Output.Height != 4 {
		t.Errorf("output: %+v", img.Output)
	}
	if img.Hash == "" || img.AvgColor == nil {
		t.Error("hash and avg color should be set")
	}
}
