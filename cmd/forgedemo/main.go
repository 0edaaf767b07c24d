// Command forgedemo packs colored tiles or font glyphs into a texture atlas.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/image/font/basicfont"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/forge"
	"github.com/gogpu/forge/atlas"
	"github.com/gogpu/forge/workerpool"
)

func main() {
	var (
		configPath = flag.String("config", "", "scenario file (YAML)")
		output     = flag.String("out", "atlas.png", "output PNG file")
		text       = flag.String("text", "", "pack glyphs for this text instead of tiles")
		workers    = flag.Int("workers", 4, "worker threads for tile rendering")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		forge.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	} else {
		forge.SetLogger(slog.Default())
	}

	if *text != "" {
		if err := runGlyphDemo(*text, *output); err != nil {
			log.Fatalf("Failed to build glyph atlas: %v", err)
		}
		return
	}

	if *workers < 1 {
		log.Fatalf("Invalid -workers %d: need at least one worker", *workers)
	}

	scn := defaultScenario()
	if *configPath != "" {
		loaded, err := loadScenario(*configPath)
		if err != nil {
			log.Fatalf("Failed to load scenario: %v", err)
		}
		scn = loaded
	}

	if err := runTileDemo(scn, *workers, *output); err != nil {
		log.Fatalf("Failed to build atlas: %v", err)
	}
}

// scenario describes a set of tiles to render and pack.
type scenario struct {
	Atlas atlasSettings `yaml:"atlas"`
	Items []tileItem    `yaml:"items"`
}

type atlasSettings struct {
	MaxSize int `yaml:"max_size"`
	Padding int `yaml:"padding"`
}

type tileItem struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

func loadScenario(path string) (*scenario, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scn scenario
	if err := yaml.Unmarshal(data, &scn); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	if len(scn.Items) == 0 {
		return nil, fmt.Errorf("scenario %s has no items", path)
	}
	for _, item := range scn.Items {
		if item.Width <= 0 || item.Height <= 0 {
			return nil, fmt.Errorf("item %q has invalid size %dx%d", item.Name, item.Width, item.Height)
		}
	}

	return &scn, nil
}

func defaultScenario() *scenario {
	scn := &scenario{
		Atlas: atlasSettings{MaxSize: 512, Padding: 1},
	}
	sizes := [][2]int{
		{64, 64}, {32, 48}, {48, 32}, {96, 24},
		{24, 96}, {40, 40}, {56, 16}, {16, 56},
		{80, 48}, {48, 80}, {28, 28}, {72, 36},
	}
	for i, s := range sizes {
		scn.Items = append(scn.Items, tileItem{
			Name:   fmt.Sprintf("tile-%02d", i),
			Width:  s[0],
			Height: s[1],
		})
	}
	return scn
}

// tileWorker drains rendering jobs from a queue. Posts without a matching
// job are ignored.
type tileWorker struct {
	jobs chan func()
}

func (w *tileWorker) DoWork() {
	select {
	case job := <-w.jobs:
		job()
	default:
	}
}

func (w *tileWorker) Name() string { return "forgedemo.tiles" }

func runTileDemo(scn *scenario, workers int, output string) error {
	cfg := atlas.DefaultConfig()
	if scn.Atlas.MaxSize > 0 {
		cfg.MaxSize = scn.Atlas.MaxSize
	}
	if scn.Atlas.Padding > 0 {
		cfg.Padding = scn.Atlas.Padding
	}

	// Render every tile through the pool, one queued job per tile.
	tiles := make([]*image.NRGBA, len(scn.Items))
	worker := &tileWorker{jobs: make(chan func(), len(scn.Items))}
	pool := workerpool.New(worker)
	defer pool.Close()

	pool.Resize(workers)
	pool.Resume()

	var wg sync.WaitGroup
	for i, item := range scn.Items {
		wg.Add(1)
		worker.jobs <- func() {
			defer wg.Done()
			tiles[i] = renderTile(item.Width, item.Height, paletteColor(i))
		}
		pool.WorkSemaphore().Post()
	}
	wg.Wait()

	// Park the workers before teardown; Close joins them either way.
	pool.Suspend()

	builder := atlas.NewBuilder(cfg)
	for _, tile := range tiles {
		builder.Add(tile)
	}
	built, err := builder.Build()
	if err != nil {
		return err
	}

	if err := savePNG(output, built.Image); err != nil {
		return err
	}

	area := 0
	for _, r := range built.Regions {
		area += r.Width * r.Height
	}
	b := built.Image.Bounds()
	log.Printf("Atlas saved to %s (%dx%d, %d tiles, %.0f%% filled)\n",
		output, b.Dx(), b.Dy(), len(built.Regions),
		100*float64(area)/float64(b.Dx()*b.Dy()))
	return nil
}

func runGlyphDemo(text, output string) error {
	glyphs, err := atlas.BuildGlyphs(basicfont.Face7x13, []rune(text), atlas.DefaultConfig())
	if err != nil {
		return err
	}

	if err := savePNG(output, glyphs.Image); err != nil {
		return err
	}

	b := glyphs.Image.Bounds()
	log.Printf("Glyph atlas saved to %s (%dx%d, %d glyphs)\n",
		output, b.Dx(), b.Dy(), len(glyphs.Glyphs))
	return nil
}

var palette = []color.NRGBA{
	{R: 0xe6, G: 0x39, B: 0x46, A: 0xff},
	{R: 0xf4, G: 0xa2, B: 0x61, A: 0xff},
	{R: 0xe9, G: 0xc4, B: 0x6a, A: 0xff},
	{R: 0x2a, G: 0x9d, B: 0x8f, A: 0xff},
	{R: 0x26, G: 0x46, B: 0x53, A: 0xff},
	{R: 0x8a, G: 0xb1, B: 0x7c, A: 0xff},
}

func paletteColor(i int) color.NRGBA { return palette[i%len(palette)] }

func renderTile(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)

	// 1px darker border keeps tile edges visible in the packed sheet.
	border := color.NRGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: 0xff}
	for x := 0; x < width; x++ {
		img.SetNRGBA(x, 0, border)
		img.SetNRGBA(x, height-1, border)
	}
	for y := 0; y < height; y++ {
		img.SetNRGBA(0, y, border)
		img.SetNRGBA(width-1, y, border)
	}
	return img
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return png.Encode(f, img)
}
