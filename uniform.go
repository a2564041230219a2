package quadview

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// UniformSize is the byte length of the per-frame shader uniform block.
// Layout (little-endian):
//
//	offset   0: viewport width  (uint32)
//	offset   4: viewport height (uint32)
//	offset   8: padding (8 bytes, written as zero)
//	offset  16: model matrix (16 x float32, row-major)
//	offset  80: view matrix  (16 x float32, row-major)
//
// Total = 144 bytes. The layout is fixed by the shader's uniform struct
// and written out explicitly so it never depends on Go struct layout.
const UniformSize = 144

// Byte offsets within the uniform block.
const (
	uniformViewportWidthOffset  = 0
	uniformViewportHeightOffset = 4
	uniformModelOffset          = 16
	uniformViewOffset           = 80
)

// Uniform is the CPU-side value of the shader uniform block: the drawable
// size in pixels plus the model and view matrices for the frame.
type Uniform struct {
	ViewportWidth  uint32
	ViewportHeight uint32
	Model          mgl32.Mat4
	View           mgl32.Mat4
}

// Bytes serializes the uniform into its fixed 144-byte wire layout.
// Matrices are written row-major; mgl32 stores column-major, so the
// element order is transposed during the write.
func (u *Uniform) Bytes() []byte {
	buf := make([]byte, UniformSize)
	binary.LittleEndian.PutUint32(buf[uniformViewportWidthOffset:], u.ViewportWidth)
	binary.LittleEndian.PutUint32(buf[uniformViewportHeightOffset:], u.ViewportHeight)
	putMat4RowMajor(buf[uniformModelOffset:uniformModelOffset+64], u.Model)
	putMat4RowMajor(buf[uniformViewOffset:uniformViewOffset+64], u.View)
	return buf
}

// putMat4RowMajor writes a column-major mgl32.Mat4 into dst as 16 row-major
// little-endian float32 values. dst must be at least 64 bytes.
func putMat4RowMajor(dst []byte, m mgl32.Mat4) {
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			bits := math.Float32bits(m[col*4+row])
			binary.LittleEndian.PutUint32(dst[(row*4+col)*4:], bits)
		}
	}
}
