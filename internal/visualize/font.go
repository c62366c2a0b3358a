// Package visualize renders word clouds, topic charts and sentiment charts.
package visualize

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
)

// FontEnv names the environment variable that overrides font discovery.
const FontEnv = "WORDCLOUD_FONT_PATH"

// ErrFontNotFound means no CJK-capable font could be located.
var ErrFontNotFound = errors.New("未找到可用的中文字体文件。\n" +
	"请尝试以下方法：\n" +
	"1. 安装字体：sudo apt-get install fonts-droid-fallback\n" +
	"2. 设置" + FontEnv + "环境变量\n" +
	"3. 将字体文件放在当前目录")

// FontCandidates are probed in order when FontEnv is unset or invalid.
// Single-font .ttf files come first since LoadFont cannot read collections.
var FontCandidates = []string{
	`C:\Windows\Fonts\simhei.ttf`,
	`C:\Windows\Fonts\msyh.ttf`,
	`C:\Windows\Fonts\simfang.ttf`,
	`C:\Windows\Fonts\simsun.ttf`,
	`C:\Windows\Fonts\simkai.ttf`,
	"/usr/share/fonts/truetype/droid/DroidSansFallbackFull.ttf",
	"/usr/share/fonts/google-droid-sans-fonts/DroidSansFallbackFull.ttf",
	"/usr/share/fonts/truetype/wqy/wqy-zenhei.ttf",
	"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
	"/Library/Fonts/Arial Unicode.ttf",
	"simhei.ttf",
	"msyh.ttf",
	"/usr/share/fonts/truetype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/wqy/wqy-zenhei.ttc",
	"/usr/share/fonts/wqy/wqy-microhei.ttc",
	"/System/Library/Fonts/PingFang.ttc",
	"NotoSansCJK-Regular.ttc",
}

// ResolveFont returns the font path from FontEnv or the first existing
// candidate.
func ResolveFont() (string, error) {
	return ResolveFontFrom(os.Getenv(FontEnv), FontCandidates)
}

// ResolveFontFrom returns env when it names an existing file, otherwise the
// first existing candidate.
func ResolveFontFrom(env string, candidates []string) (string, error) {
	if env != "" && isFile(env) {
		return env, nil
	}
	for _, p := range candidates {
		if isFile(p) {
			return p, nil
		}
	}
	return "", ErrFontNotFound
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadFont parses the font for chart rendering. Font collections (.ttc)
// cannot be parsed by freetype; for those the chart default font is used and
// a warning is logged.
func LoadFont(path string, logger *slog.Logger) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	font, err := truetype.Parse(data)
	if err == nil {
		return font, nil
	}
	if !strings.EqualFold(filepath.Ext(path), ".ttc") {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}

	logger.Warn("font collection not supported for charts, using default font",
		"path", path, "error", err)
	font, derr := chart.GetDefaultFont()
	if derr != nil {
		return nil, fmt.Errorf("load default font: %w", derr)
	}
	return font, nil
}
