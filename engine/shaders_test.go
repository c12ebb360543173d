// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"strings"
	"testing"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

func TestQuadShaderSource(t *testing.T) {
	for _, s := range []string{"@vertex", "@fragment", "vs_main", "fs_main", "VertexInput"} {
		if !strings.Contains(quadWGSL, s) {
			t.Errorf("quad shader missing %q", s)
		}
	}
}

func TestCompileQuad(t *testing.T) {
	words, err := compileQuad()
	if err != nil {
		t.Fatalf("compileQuad() error = %v", err)
	}
	if len(words) < 5 {
		t.Fatalf("len(SPIR-V) = %d words, want header", len(words))
	}
	if words[0] != spirvMagic {
		t.Errorf("SPIR-V magic = %#x, want %#x", words[0], spirvMagic)
	}

	again, _ := compileQuad()
	if &again[0] != &words[0] {
		t.Error("compileQuad() compiled twice")
	}
}

func TestNewShadersWithoutHAL(t *testing.T) {
	s, err := newShaders(&mockProvider{})
	if err != nil {
		t.Fatalf("newShaders() error = %v", err)
	}
	if s.quad != nil {
		t.Error("shader module created without a HAL device")
	}
	s.Close()
	s.Close()
}
