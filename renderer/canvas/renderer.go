package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/emocloud/cloud"
	"github.com/ByLCY/emocloud/fonts"
	"github.com/ByLCY/emocloud/renderer"
)

// Format 指定输出文件格式。
type Format int

const (
	FormatPNG Format = iota
	FormatPDF
)

// ptPerPx 用于 px→pt 字号换算。画布以 px 为单位创建并按 1 dot/px 栅格化，
// 而 canvas 的 Face 以 pt 计字号且内部按 mm 画布单位换算，系数与 mm↔pt 相同。
const ptPerPx = 72.0 / 25.4

// Renderer draws cloud results via github.com/tdewolff/canvas.
// 它同时实现 renderer.Renderer（整体输出）与 cloud.Surface（单次绘制过程）。
type Renderer struct {
	baseDir string
	format  Format

	// injected resources
	fontBlobs map[string][]byte // by unique name

	fontMu         sync.Mutex
	fontFamilies   map[string]*canvas.FontFamily
	fallbackFamily *canvas.FontFamily

	// 单次 Render 过程中的画布状态；引擎约定单线程驱动，无需加锁。
	ctx     *canvas.Context
	width   float64
	height  float64
	fontSrc string
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ cloud.Surface     = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Format  Format
	Fonts   map[string]Resource // built-in fonts accessible via built-in:<name>
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based PNG renderer rooted at baseDir for resolving assets.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		format:       opts.Format,
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*canvas.FontFamily{},
	}
	// ingest fonts
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // ignore error here; will be caught when actually used
			if len(data) > 0 {
				r.fontBlobs[name] = data
			}
		}
	}
	return r
}

// Render renders the result into a PNG or PDF byte slice.
func (r *Renderer) Render(result *cloud.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	width, height := result.Dims.Width, result.Dims.Height
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("画布尺寸非法: %gx%g", width, height)
	}

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	r.ctx = ctx
	r.width = width
	r.height = height
	r.fontSrc = result.Font
	defer func() { r.ctx = nil }()

	cloud.Render(r, result.Placements)

	switch r.format {
	case FormatPDF:
		return r.encodePDF(c, result)
	default:
		return encodePNG(c)
	}
}

// Clear 实现 cloud.Surface：以白色重置整张画布。
func (r *Renderer) Clear() {
	if r.ctx == nil {
		return
	}
	r.ctx.SetFillColor(canvas.White)
	r.ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	r.ctx.DrawPath(0, 0, canvas.Rectangle(r.width, r.height))
}

// DrawText 实现 cloud.Surface：以 (x, y) 为中心绘制单行文本。
// Surface 层不向上抛错：字体不可用时退化为跳过该词条。
func (r *Renderer) DrawText(text string, x, y, sizePx float64, col cloud.Color) {
	if r.ctx == nil || text == "" {
		return
	}
	face, err := r.fontFace(sizePx, col)
	if err != nil {
		return
	}
	line := canvas.NewTextLine(face, text, canvas.Center)

	// 垂直居中：基线位于锚点下方 (Ascent-Descent)/2 处（CartesianIV 下 y 轴向下）。
	metrics := face.Metrics()
	baseline := y + (metrics.Ascent-metrics.Descent)/2
	r.ctx.DrawText(x, baseline, line)
}

func (r *Renderer) encodePDF(c *canvas.Canvas, result *cloud.Result) ([]byte, error) {
	var buf bytes.Buffer
	writer := pdf.New(&buf, r.width, r.height, nil)
	applyMeta(writer, result.Meta)
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func encodePNG(c *canvas.Canvas) ([]byte, error) {
	img := rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func applyMeta(writer *pdf.PDF, meta cloud.CloudMeta) {
	if writer == nil {
		return
	}
	writer.SetInfo(meta.Title, meta.Subject, "", meta.Author, meta.Creator)
}

func (r *Renderer) fontFace(sizePx float64, col cloud.Color) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily(r.fontSrc)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePx*ptPerPx, colorFromCloud(col), canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(src string) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[src]; ok {
		return family, nil
	}

	family := canvas.NewFontFamily("emocloud")
	if err := r.loadFontIntoFamily(family, src); err != nil {
		fallback, fbErr := r.fallback()
		if fbErr != nil {
			return nil, err
		}
		r.fontFamilies[src] = fallback
		return fallback, nil
	}

	r.fontFamilies[src] = family
	return family, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, src string) error {
	data, err := r.loadFontBytes(src)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, canvas.FontRegular)
}

func (r *Renderer) loadFontBytes(src string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("未声明字体来源")
	}
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(strings.TrimPrefix(src, "embed:"))
	}
	// Path based
	path := src
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 built-in: 或 embed:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

func (r *Renderer) fallback() (*canvas.FontFamily, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, nil
	}
	data, err := fonts.Load("Inter/static/Inter-Regular.ttf")
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("emocloud-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	r.fallbackFamily = family
	return family, nil
}

func colorFromCloud(c cloud.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
