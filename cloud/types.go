package cloud

// 该文件定义词云布局的输入、输出与共享类型，供布局计算、渲染与调试 JSON 共用。

import (
	"fmt"
	"strconv"
)

// WordEntry 是布局引擎的输入词条：非空文本、正权重与颜色。
// 引擎不会修改调用方传入的切片。
type WordEntry struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
	Color  Color   `json:"color"`
}

// CanvasDimensions 描述画布尺寸，单位为 px。
type CanvasDimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Placement 是引擎为单个词条计算出的字号与锚点。
// 锚点为词条的水平/垂直中心；顺序与输入词条一一对应。
type Placement struct {
	Text       string  `json:"text"`
	FontSizePx float64 `json:"fontSizePx"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Color      Color   `json:"color"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// ParseHexColor 解析 #RGB/#RRGGBB/#RRGGBBAA 形式的颜色字面量（alpha 被忽略）。
func ParseHexColor(s string) (Color, error) {
	if len(s) == 0 || s[0] != '#' {
		return Color{}, fmt.Errorf("颜色字面量 %q 缺少前导 #", s)
	}
	hex := s[1:]
	switch len(hex) {
	case 3:
		var expanded [6]byte
		for i := 0; i < 3; i++ {
			expanded[2*i] = hex[i]
			expanded[2*i+1] = hex[i]
		}
		hex = string(expanded[:])
	case 6, 8:
		// 8 位时忽略末尾 alpha
		hex = hex[:6]
	default:
		return Color{}, fmt.Errorf("颜色字面量 %q 长度非法", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("解析颜色 %q 失败: %w", s, err)
	}
	return Color{
		R: int(v >> 16 & 0xff),
		G: int(v >> 8 & 0xff),
		B: int(v & 0xff),
	}, nil
}

// CloudMeta 保存输出文件的元信息（仅 PDF 后端会使用）。
type CloudMeta struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Subject string `json:"subject"`
	Creator string `json:"creator"`
}

// Result 保存一次构建的完整输出：画布尺寸、解析后的词条、逐词 Placement 与元信息。
// Font 为渲染器使用的字体来源（路径、embed: 或 built-in: 形式），为空时由渲染器回退。
type Result struct {
	Dims       CanvasDimensions `json:"dims"`
	Words      []WordEntry      `json:"words"`
	Placements []Placement      `json:"placements"`
	Font       string           `json:"font,omitempty"`
	Meta       CloudMeta        `json:"meta"`
}
