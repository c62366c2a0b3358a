package visualize

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/psykhi/wordclouds"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/IshaanNene/ReviewMiner/internal/analysis"
	"github.com/IshaanNene/ReviewMiner/internal/config"
)

// ErrNoData means a chart was requested for an empty input.
var ErrNoData = errors.New("nothing to render")

// palette is used for word clouds and bar fills.
var palette = []color.Color{
	color.RGBA{0x1b, 0x9e, 0x77, 0xff},
	color.RGBA{0xd9, 0x5f, 0x02, 0xff},
	color.RGBA{0x75, 0x70, 0xb3, 0xff},
	color.RGBA{0xe7, 0x29, 0x8a, 0xff},
	color.RGBA{0x66, 0xa6, 0x1e, 0xff},
	color.RGBA{0xe6, 0xab, 0x02, 0xff},
	color.RGBA{0xa6, 0x76, 0x1d, 0xff},
}

// Renderer draws every chart of a run with one resolved font.
type Renderer struct {
	cfg      config.VisualizationConfig
	fontPath string
	font     *truetype.Font
	logger   *slog.Logger
}

// NewRenderer resolves and loads the font. ErrFontNotFound is returned when
// no font is available.
func NewRenderer(cfg config.VisualizationConfig, logger *slog.Logger) (*Renderer, error) {
	path, err := ResolveFont()
	if err != nil {
		return nil, err
	}
	return NewRendererWithFont(cfg, path, logger)
}

// NewRendererWithFont creates a renderer over an explicit font file.
func NewRendererWithFont(cfg config.VisualizationConfig, fontPath string, logger *slog.Logger) (*Renderer, error) {
	logger = logger.With("component", "visualize")
	font, err := LoadFont(fontPath, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("font loaded", "path", fontPath)
	return &Renderer{cfg: cfg, fontPath: fontPath, font: font, logger: logger}, nil
}

// FontPath returns the resolved font file.
func (r *Renderer) FontPath() string { return r.fontPath }

// WordCloud renders the most frequent terms to a PNG.
func (r *Renderer) WordCloud(path string, freq analysis.Frequencies) (err error) {
	wc := r.cfg.WordCloud
	words := freq
	if wc.MaxWords > 0 {
		words = freq.Top(wc.MaxWords)
	}
	if len(words) == 0 {
		return fmt.Errorf("word cloud: %w", ErrNoData)
	}

	// wordclouds panics when the font face cannot be loaded.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("word cloud with font %s: %v", r.fontPath, rec)
		}
	}()

	img := wordclouds.NewWordcloud(
		map[string]int(words),
		wordclouds.FontFile(r.fontPath),
		wordclouds.FontMaxSize(wc.MaxFontSize),
		wordclouds.FontMinSize(wc.MinFontSize),
		wordclouds.Width(wc.Width),
		wordclouds.Height(wc.Height),
		wordclouds.Colors(palette),
		wordclouds.BackgroundColor(parseColor(wc.BackgroundColor)),
		wordclouds.RandomPlacement(false),
	).Draw()

	if err := writePNG(path, img); err != nil {
		return err
	}
	r.logger.Info("word cloud saved", "path", path, "words", len(words))
	return nil
}

func writePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// parseColor accepts "white", "black" or a hex color ("#ffffff").
func parseColor(s string) color.Color {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "white":
		return color.White
	case "black":
		return color.Black
	}
	return drawing.ColorFromHex(strings.TrimPrefix(strings.TrimSpace(s), "#"))
}
