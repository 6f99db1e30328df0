// Package executable describes a SPIR-V executable ready for serialization:
// the kernel code, how buffers bind to it and the specialization constants
// it is invoked with.
package executable

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Values of VkDescriptorType and VkShaderStageFlagBits.
const (
	DescriptorTypeStorageBuffer uint32 = 7
	ShaderStageCompute          uint32 = 0x00000020
)

// Definition is a fully populated SPIR-V executable.
type Definition struct {
	Tag                string              `json:"tag" yaml:"tag"`
	EntryPoints        []string            `json:"entry_points" yaml:"entry_points"`
	Code               []uint32            `json:"code" yaml:"code,flow"`
	PipelineLayout     *PipelineLayout     `json:"pipeline_layout" yaml:"pipeline_layout"`
	SpecializationInfo *SpecializationInfo `json:"specialization_info" yaml:"specialization_info"`
}

// PipelineLayout groups the descriptor set layouts of a pipeline.
type PipelineLayout struct {
	BufferBindingSet     uint32                 `json:"buffer_binding_set" yaml:"buffer_binding_set"`
	DescriptorSetLayouts []*DescriptorSetLayout `json:"descriptor_set_layouts" yaml:"descriptor_set_layouts"`
}

// DescriptorSetLayout is an ordered list of bindings.
type DescriptorSetLayout struct {
	Bindings []*DescriptorBinding `json:"bindings" yaml:"bindings"`
}

// DescriptorBinding is one binding slot of a descriptor set.
type DescriptorBinding struct {
	Binding         uint32 `json:"binding" yaml:"binding"`
	DescriptorCount uint32 `json:"descriptor_count" yaml:"descriptor_count"`
	DescriptorType  uint32 `json:"descriptor_type" yaml:"descriptor_type"`
	StageFlags      uint32 `json:"stage_flags" yaml:"stage_flags"`
}

// SpecializationInfo lists the specialization constants of a pipeline.
type SpecializationInfo struct {
	MapEntries []*SpecializationMapEntry `json:"map_entries" yaml:"map_entries"`
}

// SpecializationMapEntry binds a 32-bit value to a specialization constant.
type SpecializationMapEntry struct {
	ConstantID  uint32 `json:"constant_id" yaml:"constant_id"`
	Uint32Value uint32 `json:"uint32_value" yaml:"uint32_value"`
}

var (
	ErrEmptyCode                 = errors.New("executable has no code")
	ErrNoEntryPoints             = errors.New("executable has no entry points")
	ErrMissingPipelineLayout     = errors.New("executable has no pipeline layout")
	ErrMissingSpecializationInfo = errors.New("executable has no specialization info")
)

// Validate reports whether d is complete and internally consistent.
func (d *Definition) Validate() error {
	if len(d.Code) == 0 {
		return ErrEmptyCode
	}
	if len(d.EntryPoints) == 0 {
		return ErrNoEntryPoints
	}
	if d.PipelineLayout == nil {
		return ErrMissingPipelineLayout
	}
	if err := d.PipelineLayout.Validate(); err != nil {
		return err
	}
	if d.SpecializationInfo == nil {
		return ErrMissingSpecializationInfo
	}
	return d.SpecializationInfo.Validate()
}

// CodeBytes returns the code as little-endian bytes, the layout of a .spv
// file.
func (d *Definition) CodeBytes() []byte {
	out := make([]byte, len(d.Code)*4)
	for i, w := range d.Code {
		binary.LittleEndian.PutUint32(out[i*4:], w)
	}
	return out
}

// Validate checks that binding indices are unique within each set.
func (l *PipelineLayout) Validate() error {
	for i, dsl := range l.DescriptorSetLayouts {
		seen := make(map[uint32]bool, len(dsl.Bindings))
		for _, b := range dsl.Bindings {
			if seen[b.Binding] {
				return fmt.Errorf("descriptor set layout %d: duplicate binding %d", i, b.Binding)
			}
			seen[b.Binding] = true
		}
	}
	return nil
}

// AddStorageBuffer appends a single storage buffer binding visible to the
// compute stage.
func (l *DescriptorSetLayout) AddStorageBuffer(binding uint32) {
	l.Bindings = append(l.Bindings, &DescriptorBinding{
		Binding:         binding,
		DescriptorCount: 1,
		DescriptorType:  DescriptorTypeStorageBuffer,
		StageFlags:      ShaderStageCompute,
	})
}

// Add appends a constant.
func (s *SpecializationInfo) Add(constantID, value uint32) {
	s.MapEntries = append(s.MapEntries, &SpecializationMapEntry{
		ConstantID:  constantID,
		Uint32Value: value,
	})
}

// Value returns the value bound to constantID.
func (s *SpecializationInfo) Value(constantID uint32) (uint32, bool) {
	for _, e := range s.MapEntries {
		if e.ConstantID == constantID {
			return e.Uint32Value, true
		}
	}
	return 0, false
}

// Validate checks that no constant is bound twice.
func (s *SpecializationInfo) Validate() error {
	seen := make(map[uint32]bool, len(s.MapEntries))
	for _, e := range s.MapEntries {
		if seen[e.ConstantID] {
			return fmt.Errorf("duplicate specialization constant %d", e.ConstantID)
		}
		seen[e.ConstantID] = true
	}
	return nil
}
