package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),.=+\-*/%<>!?;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document 是 .cloud 词云描述文件的根 AST 节点。
type Document struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Name       string         `parser:"Newline* 'cloud' @Ident"`
	Statements []*Statement   `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}' Newline*"`
}

// Statement 表示 cloud 块内的一条声明。
type Statement struct {
	Canvas  *CanvasStmt   `parser:"  @@"`
	Meta    *MetaBlock    `parser:"| @@"`
	Palette *PaletteBlock `parser:"| @@"`
	Font    *FontStmt     `parser:"| @@"`
	Word    *WordStmt     `parser:"| @@"`
}

// CanvasStmt 声明画布尺寸（单位：px）。
type CanvasStmt struct {
	Width  float64 `parser:"'canvas' @Number"`
	Height float64 `parser:"@Number"`
}

// MetaBlock 记录文档元信息（title/author/subject 等）。
type MetaBlock struct {
	Entries []*Assignment `parser:"'meta' '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// PaletteBlock 定义命名颜色，供 word 语句按名引用。
type PaletteBlock struct {
	Entries []*PaletteEntry `parser:"'palette' '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// PaletteEntry 形如 `joy: #e74c3c`。
type PaletteEntry struct {
	Name string `parser:"@Ident ':' Newline*"`
	Hex  string `parser:"@Color"`
}

// FontStmt 指定渲染使用的字体来源（路径、embed: 或 built-in: 形式）。
type FontStmt struct {
	Src StringLiteral `parser:"'font' @String"`
}

// WordStmt 表示一个加权词条；color 可以是十六进制字面量或调色板名称。
type WordStmt struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Text   StringLiteral  `parser:"'word' @String"`
	Weight float64        `parser:"'weight' @Number"`
	Color  *ColorRef      `parser:"( 'color' @@ )?"`
}

// ColorRef 引用一个颜色：hex 字面量或 palette 中的命名颜色。
type ColorRef struct {
	Hex  string `parser:"  @Color"`
	Name string `parser:"| @Ident"`
}

// Assignment 使用冒号语法（key: value）。
type Assignment struct {
	Key   string        `parser:"@Ident ':' Newline*"`
	Value StringLiteral `parser:"@String"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses DSL content from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses DSL content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

// Words 按出现顺序收集词条声明。
func (d *Document) Words() []*WordStmt {
	if d == nil {
		return nil
	}
	var words []*WordStmt
	for _, st := range d.Statements {
		if st.Word != nil {
			words = append(words, st.Word)
		}
	}
	return words
}

// CanvasSize 返回声明的画布尺寸；未声明时二者均为 0，由上层套用默认值。
func (d *Document) CanvasSize() (width, height float64) {
	if d == nil {
		return 0, 0
	}
	for _, st := range d.Statements {
		if st.Canvas != nil {
			return st.Canvas.Width, st.Canvas.Height
		}
	}
	return 0, 0
}

// FontSrc 返回首个 font 声明；为空表示使用内置回退字体。
func (d *Document) FontSrc() string {
	if d == nil {
		return ""
	}
	for _, st := range d.Statements {
		if st.Font != nil {
			return string(st.Font.Src)
		}
	}
	return ""
}
