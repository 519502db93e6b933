package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"portalwalk/core"
)

// ── Text shaders ─────────────────────────────────────────────────────────────

// Screen-space vertex shader: positions arrive pre-converted to NDC.
const textVertSrc = `
#version 410 core
layout(location = 0) in vec2 inPos;

void main() {
    gl_Position = vec4(inPos, 0.0, 1.0);
}
` + "\x00"

const textFragSrc = `
#version 410 core
out vec4 outColor;

uniform vec4 textColor;

void main() {
    outColor = textColor;
}
` + "\x00"

// ── Bitmap font ──────────────────────────────────────────────────────────────

// glyphs is a 5x7 pixel font. Each glyph is 8 rows top to bottom; within a
// row, bit 4 is the leftmost pixel. Lowercase letters are folded to uppercase
// before lookup; runes without a glyph advance the cursor without drawing.
var glyphs = map[rune][8]uint8{
	' ': {0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	'A': {0x0E, 0x11, 0x11, 0x1F, 0x11, 0x11, 0x11, 0x00},
	'B': {0x1E, 0x11, 0x11, 0x1E, 0x11, 0x11, 0x1E, 0x00},
	'C': {0x0E, 0x11, 0x10, 0x10, 0x10, 0x11, 0x0E, 0x00},
	'D': {0x1E, 0x11, 0x11, 0x11, 0x11, 0x11, 0x1E, 0x00},
	'E': {0x1F, 0x10, 0x10, 0x1E, 0x10, 0x10, 0x1F, 0x00},
	'F': {0x1F, 0x10, 0x10, 0x1E, 0x10, 0x10, 0x10, 0x00},
	'G': {0x0E, 0x11, 0x10, 0x17, 0x11, 0x11, 0x0F, 0x00},
	'H': {0x11, 0x11, 0x11, 0x1F, 0x11, 0x11, 0x11, 0x00},
	'I': {0x0E, 0x04, 0x04, 0x04, 0x04, 0x04, 0x0E, 0x00},
	'J': {0x07, 0x02, 0x02, 0x02, 0x02, 0x12, 0x0C, 0x00},
	'K': {0x11, 0x12, 0x14, 0x18, 0x14, 0x12, 0x11, 0x00},
	'L': {0x10, 0x10, 0x10, 0x10, 0x10, 0x10, 0x1F, 0x00},
	'M': {0x11, 0x1B, 0x15, 0x15, 0x11, 0x11, 0x11, 0x00},
	'N': {0x11, 0x19, 0x15, 0x13, 0x11, 0x11, 0x11, 0x00},
	'O': {0x0E, 0x11, 0x11, 0x11, 0x11, 0x11, 0x0E, 0x00},
	'P': {0x1E, 0x11, 0x11, 0x1E, 0x10, 0x10, 0x10, 0x00},
	'Q': {0x0E, 0x11, 0x11, 0x11, 0x15, 0x12, 0x0D, 0x00},
	'R': {0x1E, 0x11, 0x11, 0x1E, 0x14, 0x12, 0x11, 0x00},
	'S': {0x0F, 0x10, 0x10, 0x0E, 0x01, 0x01, 0x1E, 0x00},
	'T': {0x1F, 0x04, 0x04, 0x04, 0x04, 0x04, 0x04, 0x00},
	'U': {0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x0E, 0x00},
	'V': {0x11, 0x11, 0x11, 0x11, 0x11, 0x0A, 0x04, 0x00},
	'W': {0x11, 0x11, 0x11, 0x15, 0x15, 0x15, 0x0A, 0x00},
	'X': {0x11, 0x11, 0x0A, 0x04, 0x0A, 0x11, 0x11, 0x00},
	'Y': {0x11, 0x11, 0x0A, 0x04, 0x04, 0x04, 0x04, 0x00},
	'Z': {0x1F, 0x01, 0x02, 0x04, 0x08, 0x10, 0x1F, 0x00},
	'0': {0x0E, 0x11, 0x13, 0x15, 0x19, 0x11, 0x0E, 0x00},
	'1': {0x04, 0x0C, 0x04, 0x04, 0x04, 0x04, 0x0E, 0x00},
	'2': {0x0E, 0x11, 0x01, 0x02, 0x04, 0x08, 0x1F, 0x00},
	'3': {0x1F, 0x02, 0x04, 0x02, 0x01, 0x11, 0x0E, 0x00},
	'4': {0x02, 0x06, 0x0A, 0x12, 0x1F, 0x02, 0x02, 0x00},
	'5': {0x1F, 0x10, 0x1E, 0x01, 0x01, 0x11, 0x0E, 0x00},
	'6': {0x06, 0x08, 0x10, 0x1E, 0x11, 0x11, 0x0E, 0x00},
	'7': {0x1F, 0x01, 0x02, 0x04, 0x08, 0x08, 0x08, 0x00},
	'8': {0x0E, 0x11, 0x11, 0x0E, 0x11, 0x11, 0x0E, 0x00},
	'9': {0x0E, 0x11, 0x11, 0x0F, 0x01, 0x02, 0x0C, 0x00},
	'-': {0x00, 0x00, 0x00, 0x1F, 0x00, 0x00, 0x00, 0x00},
	'.': {0x00, 0x00, 0x00, 0x00, 0x00, 0x0C, 0x0C, 0x00},
	',': {0x00, 0x00, 0x00, 0x00, 0x00, 0x0C, 0x04, 0x08},
	':': {0x00, 0x0C, 0x0C, 0x00, 0x0C, 0x0C, 0x00, 0x00},
	'!': {0x04, 0x04, 0x04, 0x04, 0x04, 0x00, 0x04, 0x00},
	'?': {0x0E, 0x11, 0x01, 0x02, 0x04, 0x00, 0x04, 0x00},
	'\'': {0x04, 0x04, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00},
	'/': {0x01, 0x01, 0x02, 0x04, 0x08, 0x10, 0x10, 0x00},
	'(': {0x02, 0x04, 0x08, 0x08, 0x08, 0x04, 0x02, 0x00},
	')': {0x08, 0x04, 0x02, 0x02, 0x02, 0x04, 0x08, 0x00},
	'+': {0x00, 0x04, 0x04, 0x1F, 0x04, 0x04, 0x00, 0x00},
	'%': {0x19, 0x19, 0x02, 0x04, 0x08, 0x13, 0x13, 0x00},
	'>': {0x08, 0x04, 0x02, 0x01, 0x02, 0x04, 0x08, 0x00},
}

const (
	glyphCols    = 5
	glyphRows    = 8
	glyphAdvance = 6 // cell width + 1 px spacing, pre-scale
)

// ── TextRenderer ─────────────────────────────────────────────────────────────

// TextRenderer draws strings from the embedded bitmap font, one filled quad
// per lit pixel. Fine for HUD amounts of text; not meant for paragraphs at
// high scale. Created lazily by Renderer.DrawText on first use.
type TextRenderer struct {
	prog     uint32
	vao      uint32
	vbo      uint32
	colorLoc int32
	vboCap   int // current VBO capacity in vertices
}

func newTextRenderer() (*TextRenderer, error) {
	prog, err := newProgram(textVertSrc, textFragSrc)
	if err != nil {
		return nil, fmt.Errorf("text shader: %w", err)
	}

	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)

	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 8, gl.PtrOffset(0))
	gl.BindVertexArray(0)

	return &TextRenderer{
		prog:     prog,
		vao:      vao,
		vbo:      vbo,
		colorLoc: gl.GetUniformLocation(prog, gl.Str("textColor\x00")),
	}, nil
}

// draw renders text with its top-left corner at screen pixel (x, y).
// scale is the pixel size of one font pixel.
func (tr *TextRenderer) draw(text string, x, y, scale float32, color core.Color, screenW, screenH float32) {
	if screenW <= 0 || screenH <= 0 {
		return
	}

	// One quad (6 vertices, 2 floats each) per lit font pixel.
	var buf []float32
	addQuad := func(px, py float32) {
		x0 := (px/screenW)*2 - 1
		y0 := 1 - (py/screenH)*2
		x1 := ((px+scale)/screenW)*2 - 1
		y1 := 1 - ((py+scale)/screenH)*2
		buf = append(buf,
			x0, y0, x1, y0, x1, y1,
			x0, y0, x1, y1, x0, y1)
	}

	cx := x
	for _, ch := range text {
		if ch == '\n' {
			cx = x
			y += float32(glyphRows) * scale
			continue
		}
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		g, ok := glyphs[ch]
		if ok {
			for row := 0; row < glyphRows; row++ {
				bits := g[row]
				if bits == 0 {
					continue
				}
				for col := 0; col < glyphCols; col++ {
					if bits&(1<<(glyphCols-1-col)) != 0 {
						addQuad(cx+float32(col)*scale, y+float32(row)*scale)
					}
				}
			}
		}
		cx += glyphAdvance * scale
	}
	if len(buf) == 0 {
		return
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, tr.vbo)
	byteSize := len(buf) * 4
	vertCount := len(buf) / 2
	if vertCount > tr.vboCap {
		gl.BufferData(gl.ARRAY_BUFFER, byteSize, gl.Ptr(buf), gl.DYNAMIC_DRAW)
		tr.vboCap = vertCount
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, byteSize, gl.Ptr(buf))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)

	gl.UseProgram(tr.prog)
	gl.Uniform4f(tr.colorLoc, color.R, color.G, color.B, color.A)

	gl.BindVertexArray(tr.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(vertCount))
	gl.BindVertexArray(0)

	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)
}

// fillScreen draws a fullscreen solid-color quad with alpha blending.
// Used for fade overlays; shares the flat-color program with the glyphs.
func (tr *TextRenderer) fillScreen(color core.Color) {
	quad := []float32{
		-1, -1, 1, -1, 1, 1,
		-1, -1, 1, 1, -1, 1,
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, tr.vbo)
	if 6 > tr.vboCap {
		gl.BufferData(gl.ARRAY_BUFFER, len(quad)*4, gl.Ptr(quad), gl.DYNAMIC_DRAW)
		tr.vboCap = 6
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(quad)*4, gl.Ptr(quad))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)

	gl.UseProgram(tr.prog)
	gl.Uniform4f(tr.colorLoc, color.R, color.G, color.B, color.A)

	gl.BindVertexArray(tr.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)

	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)
}

// TextWidth returns the pixel width of text at the given scale.
func TextWidth(text string, scale float32) float32 {
	n := 0
	max := 0
	for _, ch := range text {
		if ch == '\n' {
			if n > max {
				max = n
			}
			n = 0
			continue
		}
		n++
	}
	if n > max {
		max = n
	}
	return float32(max) * glyphAdvance * scale
}

func (tr *TextRenderer) destroy() {
	gl.DeleteVertexArrays(1, &tr.vao)
	gl.DeleteBuffers(1, &tr.vbo)
	gl.DeleteProgram(tr.prog)
}
