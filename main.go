package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/emocloud/cloud"
	"github.com/ByLCY/emocloud/dsl"
	"github.com/ByLCY/emocloud/renderer"
	canvasrenderer "github.com/ByLCY/emocloud/renderer/canvas"
)

func main() {
	input := flag.String("in", "examples/demo.cloud", "词云 DSL 文件路径")
	output := flag.String("out", "output/demo.png", "输出路径（按扩展名选择 PNG/PDF）")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到词条文本的 JSON 数据")
	width := flag.Float64("width", 0, "覆盖画布宽度（px），0 表示使用 DSL 声明或默认值")
	height := flag.Float64("height", 0, "覆盖画布高度（px），0 表示使用 DSL 声明或默认值")
	flag.Parse()

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	var r renderer.Renderer = canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir: filepath.Dir(*input),
		Format:  formatByExt(*output),
	})
	opts := cloud.BuildOptions{Width: *width, Height: *height}
	if err := run(*input, *output, *debug, inputData, opts, r); err != nil {
		log.Fatalf("生成词云失败: %v", err)
	}
	fmt.Printf("已生成词云：%s\n", *output)
}

// run 串联解析、布局与渲染。
func run(inputPath, outputPath, debugPath string, data any, opts cloud.BuildOptions, r renderer.Renderer) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开 DSL 文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	result, err := cloud.Build(doc, data, opts)
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if debugPath != "" {
		if err := writeDebug(result, debugPath); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	outBytes, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.WriteFile(outputPath, outBytes, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}

	return nil
}

func formatByExt(path string) canvasrenderer.Format {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return canvasrenderer.FormatPDF
	}
	return canvasrenderer.FormatPNG
}

func writeDebug(result *cloud.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := cloud.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
