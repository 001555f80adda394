package cloud

import "math"

const (
	// DefaultWidth/DefaultHeight 是未声明画布尺寸时的默认值（px）。
	DefaultWidth  = 800.0
	DefaultHeight = 400.0

	minFontPx = 12.0
	maxFontPx = 48.0

	// GoldenAngleDeg 是相邻词条的固定角步长（黄金角）。
	// 选用黄金角可以让相邻点在角度上尽量分散，避免固定整数角步长产生的放射状"辐条"。
	GoldenAngleDeg = 137.5

	baseRadius = 50.0
	radiusStep = 8.0
)

// Layout 为每个词条计算字号与锚点。纯函数：不修改输入、不保留状态，
// 两次相同输入产生完全一致的输出。
//
// 字号：相对最大权重线性缩放至 48px 封顶，并以 12px 保底保证可读性；
// 权重全部非正时按比例 0 处理（全部 12px）。
// 位置：以画布中心为圆心，第 i 个词条位于角度 i*137.5°、
// 半径 min(50+8i, min(w,h)/3) 的螺线上，再按各自字号夹取到画布内。
// 夹取只保证不越界，不做碰撞规避，词条重叠是本设计接受的视觉折衷。
func Layout(words []WordEntry, dims CanvasDimensions) []Placement {
	if len(words) == 0 {
		return nil
	}

	width := dims.Width
	height := dims.Height
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	maxWeight := 0.0
	for _, w := range words {
		if w.Weight > maxWeight {
			maxWeight = w.Weight
		}
	}

	centerX := width / 2
	centerY := height / 2
	radiusCap := math.Min(width, height) / 3

	placements := make([]Placement, 0, len(words))
	for i, w := range words {
		ratio := 0.0
		if maxWeight > 0 {
			ratio = w.Weight / maxWeight
		}
		size := math.Max(minFontPx, math.Round(ratio*maxFontPx))

		angle := float64(i) * GoldenAngleDeg * math.Pi / 180
		radius := math.Min(baseRadius+float64(i)*radiusStep, radiusCap)

		x := clamp(centerX+math.Cos(angle)*radius, size/2, width-size/2)
		y := clamp(centerY+math.Sin(angle)*radius, size/2, height-size/2)

		placements = append(placements, Placement{
			Text:       w.Text,
			FontSizePx: size,
			X:          x,
			Y:          y,
			Color:      w.Color,
		})
	}
	return placements
}

// Render 先完整清空画布，再按序为每个 Placement 发出一次居中绘制。
// s 为 nil 时整体按 no-op 处理；空 Placement 列表仅清空画布。
func Render(s Surface, placements []Placement) {
	if s == nil {
		return
	}
	s.Clear()
	for _, p := range placements {
		s.DrawText(p.Text, p.X, p.Y, p.FontSizePx, p.Color)
	}
}

// clamp 将 v 夹取到 [lo, hi]；区间为空（画布小于最小字形框）时退化为区间中点，
// 对于 [size/2, dim-size/2] 即画布中点 dim/2。
func clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
