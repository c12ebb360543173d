// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/gogpu/gg"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// quadVertexStride is the byte size of one vertex: position (2 x f32)
// followed by premultiplied color (4 x f32).
const quadVertexStride = 24

// circleSegments is the number of triangles in one circle fan.
const circleSegments = 48

// copyPitchAlignment is the required row alignment of texture-to-buffer
// copies.
const copyPitchAlignment = 256

// gpuTimeout bounds the wait for one frame's readback.
const gpuTimeout = 5 * time.Second

// errGPUTimeout is returned when the fence is not signalled in time.
var errGPUTimeout = errors.New("engine: gpu frame timed out")

// gpuPass draws the background and key circles with the quad shader on a
// shared HAL device and reads the result back for the canvas.
//
// gpuPass is NOT safe for concurrent use.
type gpuPass struct {
	device hal.Device
	queue  hal.Queue

	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline

	target     hal.Texture
	targetView hal.TextureView
	width      uint32
	height     uint32

	verts  []byte
	img    *image.RGBA
	frames uint64
}

// newGPUPass builds the render pipeline from the quad module in s.
func newGPUPass(s *shaders) (*gpuPass, error) {
	if s == nil || s.device == nil || s.queue == nil || s.quad == nil {
		return nil, errors.New("engine: no HAL device for the gpu pass")
	}
	g := &gpuPass{device: s.device, queue: s.queue}

	pipeLayout, err := g.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "pinpad_quad_layout",
	})
	if err != nil {
		return nil, fmt.Errorf("engine: create pipeline layout: %w", err)
	}
	g.pipeLayout = pipeLayout

	blend := gputypes.BlendStatePremultiplied()
	pipeline, err := g.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "pinpad_quad_pipeline",
		Layout: g.pipeLayout,
		Vertex: hal.VertexState{
			Module:     s.quad,
			EntryPoint: "vs_main",
			Buffers:    quadVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     s.quad,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatBGRA8Unorm,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("engine: create render pipeline: %w", err)
	}
	g.pipeline = pipeline
	return g, nil
}

func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32x4, Offset: 8, ShaderLocation: 1}, // color
			},
		},
	}
}

// ensureTarget creates the offscreen color texture, recreating it when the
// size changes.
func (g *gpuPass) ensureTarget(w, h uint32) error {
	if g.target != nil && g.width == w && g.height == h {
		return nil
	}
	g.destroyTarget()

	tex, err := g.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "pinpad_target",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create target texture: %w", err)
	}
	g.target = tex

	view, err := g.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "pinpad_target_view",
	})
	if err != nil {
		g.destroyTarget()
		return fmt.Errorf("create target view: %w", err)
	}
	g.targetView = view
	g.width, g.height = w, h
	g.img = image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	return nil
}

func (g *gpuPass) destroyTarget() {
	if g.targetView != nil {
		g.device.DestroyTextureView(g.targetView)
		g.targetView = nil
	}
	if g.target != nil {
		g.device.DestroyTexture(g.target)
		g.target = nil
	}
	g.width, g.height = 0, 0
}

// vertices returns the triangle list for l: one background quad covering
// the whole surface, then one fan per key circle.
func (g *gpuPass) vertices(l *layout, p *Palette) []byte {
	n := 6 + len(l.keys)*circleSegments*3
	if cap(g.verts) < n*quadVertexStride {
		g.verts = make([]byte, 0, n*quadVertexStride)
	}
	buf := g.verts[:0]

	bg := premultiplied(p.Background)
	buf = appendVertex(buf, -1, 1, bg)
	buf = appendVertex(buf, 1, 1, bg)
	buf = appendVertex(buf, -1, -1, bg)
	buf = appendVertex(buf, 1, 1, bg)
	buf = appendVertex(buf, 1, -1, bg)
	buf = appendVertex(buf, -1, -1, bg)

	fill := premultiplied(p.Circle)
	w, h := float64(l.width), float64(l.height)
	toNDC := func(x, y float64) (float32, float32) {
		return float32(2*x/w - 1), float32(1 - 2*y/h)
	}
	for _, k := range l.keys {
		cx, cy := toNDC(k.cx, k.cy)
		for i := range circleSegments {
			a0 := 2 * math.Pi * float64(i) / circleSegments
			a1 := 2 * math.Pi * float64(i+1) / circleSegments
			x0, y0 := toNDC(k.cx+k.radius*math.Cos(a0), k.cy+k.radius*math.Sin(a0))
			x1, y1 := toNDC(k.cx+k.radius*math.Cos(a1), k.cy+k.radius*math.Sin(a1))
			buf = appendVertex(buf, cx, cy, fill)
			buf = appendVertex(buf, x0, y0, fill)
			buf = appendVertex(buf, x1, y1, fill)
		}
	}
	g.verts = buf
	return buf
}

func premultiplied(c gg.RGBA) [4]float32 {
	return [4]float32{float32(c.R * c.A), float32(c.G * c.A), float32(c.B * c.A), float32(c.A)}
}

func appendVertex(buf []byte, x, y float32, c [4]float32) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(x))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(y))
	for _, v := range c {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}

// render draws one frame of l and returns it as a premultiplied RGBA image.
// The image is reused between calls.
func (g *gpuPass) render(l *layout, p *Palette) (*image.RGBA, error) {
	if l.width <= 0 || l.height <= 0 {
		return nil, ErrInvalidDimensions
	}
	w, h := uint32(l.width), uint32(l.height)
	if err := g.ensureTarget(w, h); err != nil {
		return nil, err
	}

	data := g.vertices(l, p)
	vertBuf, err := g.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "pinpad_vertices",
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create vertex buffer: %w", err)
	}
	defer g.device.DestroyBuffer(vertBuf)
	g.queue.WriteBuffer(vertBuf, 0, data)

	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)
	staging, err := g.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "pinpad_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer g.device.DestroyBuffer(staging)

	encoder, err := g.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "pinpad_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("pinpad_frame"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "pinpad_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       g.targetView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
		}},
	})
	rp.SetPipeline(g.pipeline)
	rp.SetVertexBuffer(0, vertBuf, 0)
	rp.Draw(uint32(len(data)/quadVertexStride), 1, 0, 0)
	rp.End()

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: g.target,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(g.target, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: g.target, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: g.target,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer g.device.FreeCommandBuffer(cmdBuf)

	fence, err := g.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("create fence: %w", err)
	}
	defer g.device.DestroyFence(fence)

	if err := g.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	ok, err := g.device.Wait(fence, 1, gpuTimeout)
	if err != nil {
		return nil, fmt.Errorf("wait for gpu: %w", err)
	}
	if !ok {
		return nil, errGPUTimeout
	}

	readback := make([]byte, stagingSize)
	if err := g.queue.ReadBuffer(staging, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}

	// Strip row padding and swizzle BGRA to RGBA.
	for y := 0; y < int(h); y++ {
		src := readback[y*int(alignedBytesPerRow) : y*int(alignedBytesPerRow)+int(bytesPerRow)]
		dst := g.img.Pix[y*g.img.Stride : y*g.img.Stride+int(bytesPerRow)]
		for i := 0; i+3 < len(src); i += 4 {
			dst[i], dst[i+1], dst[i+2], dst[i+3] = src[i+2], src[i+1], src[i], src[i+3]
		}
	}
	g.frames++
	return g.img, nil
}

// Close releases the pipeline and target texture. Close is idempotent.
func (g *gpuPass) Close() {
	if g.device == nil {
		return
	}
	g.destroyTarget()
	if g.pipeline != nil {
		g.device.DestroyRenderPipeline(g.pipeline)
		g.pipeline = nil
	}
	if g.pipeLayout != nil {
		g.device.DestroyPipelineLayout(g.pipeLayout)
		g.pipeLayout = nil
	}
	g.device = nil
	g.queue = nil
}
