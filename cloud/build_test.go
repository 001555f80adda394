package cloud

import (
	"strings"
	"testing"

	"github.com/ByLCY/emocloud/dsl"
)

// buildFromDSL 是测试辅助：用给定 DSL 文本构建布局结果。
func buildFromDSL(t *testing.T, dslText string, data any, opts BuildOptions) *Result {
	t.Helper()
	doc, err := dsl.ParseString(dslText)
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	res, err := Build(doc, data, opts)
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	return res
}

// TestBuildResolvesPaletteAndHex 验证 word 的颜色可引用 palette 名称或 hex 字面量。
func TestBuildResolvesPaletteAndHex(t *testing.T) {
	dslText := `cloud demo {
  palette { joy: #e74c3c }
  word "joy" weight 10 color joy
  word "calm" weight 5 color #3498db
  word "plain" weight 2
}`
	res := buildFromDSL(t, dslText, nil, BuildOptions{})
	if len(res.Words) != 3 {
		t.Fatalf("词条数量错误: %d", len(res.Words))
	}
	if res.Words[0].Color != (Color{R: 0xe7, G: 0x4c, B: 0x3c}) {
		t.Fatalf("palette 颜色解析错误: %+v", res.Words[0].Color)
	}
	if res.Words[1].Color != (Color{R: 0x34, G: 0x98, B: 0xdb}) {
		t.Fatalf("hex 颜色解析错误: %+v", res.Words[1].Color)
	}
	if res.Words[2].Color != defaultColor {
		t.Fatalf("缺省颜色应为深灰: %+v", res.Words[2].Color)
	}
}

// TestBuildUnknownPaletteColor 验证引用不存在的命名颜色会报错。
func TestBuildUnknownPaletteColor(t *testing.T) {
	doc, err := dsl.ParseString(`cloud demo { word "x" weight 1 color missing }`)
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	if _, err := Build(doc, nil, BuildOptions{}); err == nil {
		t.Fatalf("未知 palette 颜色应返回错误")
	} else if !strings.Contains(err.Error(), "missing") {
		t.Fatalf("错误信息应包含颜色名: %v", err)
	}
}

// TestBuildRejectsNonPositiveWeight 验证非正权重在构建期被拒绝。
func TestBuildRejectsNonPositiveWeight(t *testing.T) {
	doc, err := dsl.ParseString(`cloud demo { word "x" weight 0 }`)
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	if _, err := Build(doc, nil, BuildOptions{}); err == nil {
		t.Fatalf("weight 0 应返回错误")
	}
}

// TestBuildAppliesBinding 验证 ${path} 占位符由 data 填充后再参与布局。
func TestBuildAppliesBinding(t *testing.T) {
	data := map[string]interface{}{
		"top": map[string]interface{}{"label": "安心"},
	}
	res := buildFromDSL(t, `cloud demo { word "${top.label}" weight 3 }`, data, BuildOptions{})
	if res.Words[0].Text != "安心" {
		t.Fatalf("数据绑定未生效: %q", res.Words[0].Text)
	}
	if res.Placements[0].Text != "安心" {
		t.Fatalf("placement 文本未跟随绑定结果: %q", res.Placements[0].Text)
	}
}

// TestBuildDimsDefaultsAndOverride 验证画布尺寸：DSL 声明 < 选项覆盖，缺省 800x400。
func TestBuildDimsDefaultsAndOverride(t *testing.T) {
	res := buildFromDSL(t, `cloud demo { word "x" weight 1 }`, nil, BuildOptions{})
	if res.Dims.Width != DefaultWidth || res.Dims.Height != DefaultHeight {
		t.Fatalf("缺省尺寸错误: %+v", res.Dims)
	}

	res = buildFromDSL(t, `cloud demo { canvas 640 320
 word "x" weight 1 }`, nil, BuildOptions{})
	if res.Dims.Width != 640 || res.Dims.Height != 320 {
		t.Fatalf("DSL 声明尺寸未生效: %+v", res.Dims)
	}

	res = buildFromDSL(t, `cloud demo { canvas 640 320
 word "x" weight 1 }`, nil, BuildOptions{Width: 1024, Height: 512})
	if res.Dims.Width != 1024 || res.Dims.Height != 512 {
		t.Fatalf("选项覆盖未生效: %+v", res.Dims)
	}
}

// TestBuildCollectsMetaAndFont 验证 meta 与 font 声明被透传到结果。
func TestBuildCollectsMetaAndFont(t *testing.T) {
	dslText := `cloud demo {
  meta { title: "反馈热词" author: "emocloud" }
  font "embed:Inter/static/Inter-Regular.ttf"
  word "x" weight 1
}`
	res := buildFromDSL(t, dslText, nil, BuildOptions{})
	if res.Meta.Title != "反馈热词" || res.Meta.Author != "emocloud" {
		t.Fatalf("meta 收集错误: %+v", res.Meta)
	}
	if res.Font != "embed:Inter/static/Inter-Regular.ttf" {
		t.Fatalf("font 声明未透传: %q", res.Font)
	}
}

// TestBuildNilDocument 验证空文档报错而非 panic。
func TestBuildNilDocument(t *testing.T) {
	if _, err := Build(nil, nil, BuildOptions{}); err == nil {
		t.Fatalf("空文档应返回错误")
	}
}

// TestParseHexColorForms 验证 #RGB/#RRGGBB/#RRGGBBAA 三种写法。
func TestParseHexColorForms(t *testing.T) {
	c, err := ParseHexColor("#fff")
	if err != nil || c != (Color{R: 255, G: 255, B: 255}) {
		t.Fatalf("#RGB 解析错误: %+v %v", c, err)
	}
	c, err = ParseHexColor("#e74c3c")
	if err != nil || c != (Color{R: 0xe7, G: 0x4c, B: 0x3c}) {
		t.Fatalf("#RRGGBB 解析错误: %+v %v", c, err)
	}
	c, err = ParseHexColor("#e74c3c80")
	if err != nil || c != (Color{R: 0xe7, G: 0x4c, B: 0x3c}) {
		t.Fatalf("#RRGGBBAA 应忽略 alpha: %+v %v", c, err)
	}
	if _, err := ParseHexColor("e74c3c"); err == nil {
		t.Fatalf("缺少 # 应报错")
	}
	if _, err := ParseHexColor("#ab"); err == nil {
		t.Fatalf("非法长度应报错")
	}
}
