// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// ErrBadSPIRV is returned when the compiler output is not a whole number of
// 32-bit words.
var ErrBadSPIRV = errors.New("engine: SPIR-V length is not a multiple of 4")

// quadWGSL draws solid triangles whose vertices are already in NDC, so no
// projection uniform is needed.
const quadWGSL = `
struct VertexInput {
    @location(0) position: vec2<f32>,
    @location(1) color: vec4<f32>,
};

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec4<f32>,
};

@vertex
fn vs_main(input: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.position = vec4<f32>(input.position, 0.0, 1.0);
    out.color = input.color;
    return out;
}

@fragment
fn fs_main(input: VertexOutput) -> @location(0) vec4<f32> {
    return input.color;
}
`

var (
	quadOnce  sync.Once
	quadSPIRV []uint32
	quadErr   error
)

// compileQuad compiles the quad shader once per process.
func compileQuad() ([]uint32, error) {
	quadOnce.Do(func() {
		quadSPIRV, quadErr = compileSPIRV(quadWGSL)
	})
	return quadSPIRV, quadErr
}

// compileSPIRV compiles WGSL source to SPIR-V words.
func compileSPIRV(wgsl string) ([]uint32, error) {
	b, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("engine: compile shader: %w", err)
	}
	if len(b)%4 != 0 {
		return nil, ErrBadSPIRV
	}
	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words, nil
}

// halProvider is implemented by device providers that expose their HAL
// device and queue.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// shaders owns the shader modules created on a shared HAL device.
type shaders struct {
	spirv  []uint32
	device hal.Device
	queue  hal.Queue
	quad   hal.ShaderModule
}

// newShaders compiles the quad shader and, when provider exposes a HAL
// device and queue, creates its module there.
func newShaders(provider gpucontext.DeviceProvider) (*shaders, error) {
	spirv, err := compileQuad()
	if err != nil {
		return nil, err
	}
	s := &shaders{spirv: spirv}

	hp, ok := provider.(halProvider)
	if !ok {
		return s, nil
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return s, nil
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return s, nil
	}
	m, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: "pinpad_quad",
		Source: hal.ShaderSource{
			SPIRV: spirv,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("engine: create shader module: %w", err)
	}
	s.device = device
	s.queue = queue
	s.quad = m
	return s, nil
}

// Close destroys the shader modules. Close is idempotent.
func (s *shaders) Close() {
	if s.device != nil && s.quad != nil {
		s.device.DestroyShaderModule(s.quad)
	}
	s.quad = nil
	s.device = nil
	s.queue = nil
}
