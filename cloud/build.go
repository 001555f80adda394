package cloud

import (
	"fmt"

	"github.com/ByLCY/emocloud/binding"
	"github.com/ByLCY/emocloud/dsl"
)

// defaultColor 是未指定颜色时词条使用的深灰。
var defaultColor = Color{R: 30, G: 30, B: 30}

// Build 根据 DSL AST 生成词云布局结果：解析调色板与元信息、
// 对词条文本做 ${path} 数据绑定，然后运行布局引擎。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}

	palette, err := collectPalette(doc)
	if err != nil {
		return nil, err
	}
	meta := collectMeta(doc)

	dims := resolveDims(doc, opts)

	var words []WordEntry
	for _, stmt := range doc.Words() {
		text := binding.Interpolate(string(stmt.Text), data)
		if text == "" {
			return nil, fmt.Errorf("%s: word 语句缺少文本", stmt.Pos)
		}
		if stmt.Weight <= 0 {
			return nil, fmt.Errorf("%s: word %q 的 weight 必须为正数", stmt.Pos, text)
		}
		col, err := resolveColor(stmt.Color, palette)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", stmt.Pos, err)
		}
		words = append(words, WordEntry{Text: text, Weight: stmt.Weight, Color: col})
	}

	return &Result{
		Dims:       dims,
		Words:      words,
		Placements: Layout(words, dims),
		Font:       doc.FontSrc(),
		Meta:       meta,
	}, nil
}

func resolveDims(doc *dsl.Document, opts BuildOptions) CanvasDimensions {
	width, height := doc.CanvasSize()
	if opts.Width > 0 {
		width = opts.Width
	}
	if opts.Height > 0 {
		height = opts.Height
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return CanvasDimensions{Width: width, Height: height}
}

func collectPalette(doc *dsl.Document) (map[string]Color, error) {
	palette := map[string]Color{}
	for _, st := range doc.Statements {
		if st.Palette == nil {
			continue
		}
		for _, entry := range st.Palette.Entries {
			col, err := ParseHexColor(entry.Hex)
			if err != nil {
				return nil, fmt.Errorf("palette 颜色 %s 非法: %w", entry.Name, err)
			}
			palette[entry.Name] = col
		}
	}
	return palette, nil
}

func collectMeta(doc *dsl.Document) CloudMeta {
	meta := CloudMeta{}
	for _, st := range doc.Statements {
		if st.Meta == nil {
			continue
		}
		for _, entry := range st.Meta.Entries {
			value := string(entry.Value)
			switch entry.Key {
			case "title":
				meta.Title = value
			case "author":
				meta.Author = value
			case "subject":
				meta.Subject = value
			case "creator":
				meta.Creator = value
			}
		}
	}
	return meta
}

func resolveColor(ref *dsl.ColorRef, palette map[string]Color) (Color, error) {
	if ref == nil {
		return defaultColor, nil
	}
	if ref.Hex != "" {
		return ParseHexColor(ref.Hex)
	}
	if col, ok := palette[ref.Name]; ok {
		return col, nil
	}
	return Color{}, fmt.Errorf("palette 中找不到颜色 %q", ref.Name)
}
