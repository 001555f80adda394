package cloud

// BuildOptions 配置构建阶段的可选项。
type BuildOptions struct {
	// Width/Height 覆盖 DSL 中声明的画布尺寸；<=0 表示不覆盖。
	Width  float64
	Height float64
}

// Surface 是引擎绘制时使用的 2D 画布能力接口。
// Clear 需要完整重置像素内容；DrawText 以 (x, y) 为文本的水平与垂直中心绘制。
type Surface interface {
	Clear()
	DrawText(text string, x, y, sizePx float64, col Color)
}
