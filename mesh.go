package quadview

import (
	"encoding/binary"
	"math"
)

// Quad dimensions in render-space pixels. The quad is centered on the
// origin; the transform state moves it around.
const (
	QuadWidth  = 1184
	QuadHeight = 740
)

// VertexStride is the byte stride per vertex:
//
//	position  (vec3<f32>) = 12 bytes (location 0)
//	tex_coord (vec2<f32>) =  8 bytes (location 1)
//
// Total = 20 bytes per vertex.
const VertexStride = 20

// QuadVertexCount is the number of vertices in the quad's triangle strip.
const QuadVertexCount = 4

// Vertex is one corner of the quad mesh.
type Vertex struct {
	Position [3]float32
	TexCoord [2]float32
}

// QuadVertices returns the static quad mesh in triangle-strip order:
// bottom-left, top-left, bottom-right, top-right. Texture coordinates
// put V=0 at the top of the image, matching decoded image row order.
func QuadVertices() [QuadVertexCount]Vertex {
	const hw = float32(QuadWidth) / 2
	const hh = float32(QuadHeight) / 2
	return [QuadVertexCount]Vertex{
		{Position: [3]float32{-hw, -hh, 0}, TexCoord: [2]float32{0, 1}},
		{Position: [3]float32{-hw, hh, 0}, TexCoord: [2]float32{0, 0}},
		{Position: [3]float32{hw, -hh, 0}, TexCoord: [2]float32{1, 1}},
		{Position: [3]float32{hw, hh, 0}, TexCoord: [2]float32{1, 0}},
	}
}

// QuadVertexBytes serializes the quad mesh into the vertex buffer layout
// the render pipeline expects. The result is QuadVertexCount*VertexStride
// bytes, little-endian.
func QuadVertexBytes() []byte {
	verts := QuadVertices()
	buf := make([]byte, len(verts)*VertexStride)
	for i, v := range verts {
		writeVertex(buf[i*VertexStride:], v)
	}
	return buf
}

// writeVertex writes one vertex at dst in wire layout. dst must be at
// least VertexStride bytes.
func writeVertex(dst []byte, v Vertex) {
	binary.LittleEndian.PutUint32(dst[0:4], math.Float32bits(v.Position[0]))
	binary.LittleEndian.PutUint32(dst[4:8], math.Float32bits(v.Position[1]))
	binary.LittleEndian.PutUint32(dst[8:12], math.Float32bits(v.Position[2]))
	binary.LittleEndian.PutUint32(dst[12:16], math.Float32bits(v.TexCoord[0]))
	binary.LittleEndian.PutUint32(dst[16:20], math.Float32bits(v.TexCoord[1]))
}
