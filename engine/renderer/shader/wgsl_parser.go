package shader

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgslTypeLayout holds the byte size and alignment of a WGSL host-shareable type.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField is a single member of a WGSL struct.
type parsedField struct {
	name     string
	typeName string
}

// parsedStruct is a WGSL struct block.
type parsedStruct struct {
	name   string
	fields []parsedField
}

// wgslPrimitiveLayoutMap maps WGSL scalar, vector and matrix type names to their size and alignment.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var wgslPrimitiveLayoutMap = map[string]wgslTypeLayout{
	"f32": {4, 4},
	"i32": {4, 4},
	"u32": {4, 4},

	"vec2<f32>": {8, 8},
	"vec2f":     {8, 8},
	"vec3<f32>": {12, 16},
	"vec3f":     {12, 16},
	"vec4<f32>": {16, 16},
	"vec4f":     {16, 16},
	"vec2<u32>": {8, 8},
	"vec2u":     {8, 8},
	"vec4<u32>": {16, 16},
	"vec4u":     {16, 16},

	"mat3x3<f32>": {48, 16},
	"mat3x3f":     {48, 16},
	"mat4x4<f32>": {64, 16},
	"mat4x4f":     {64, 16},
}

var (
	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// fieldRegex matches a struct member: optional attributes, name, colon, type.
	fieldRegex = regexp.MustCompile(`^(?:@\w+(?:\([^)]*\))?\s*)*(\w+)\s*:\s*(.+)$`)

	// vertexEntryRegex matches @vertex functions and captures the entry point name
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	// fragmentEntryRegex matches @fragment functions and captures the entry point name
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, address space, variable name and type
	// from declarations like: @group(0) @binding(0) var<uniform> camera: CameraUniform;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)

	lineCommentRegex  = regexp.MustCompile(`//[^\n]*`)
	blockCommentRegex = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// stripComments removes line and block comments from WGSL source.
func stripComments(source string) string {
	return lineCommentRegex.ReplaceAllString(blockCommentRegex.ReplaceAllString(source, ""), "")
}

// parseEntryPoint returns the name of the first function carrying the stage attribute, or "".
//
// Parameters:
//   - source: the raw WGSL source code string
//   - shaderType: the stage to look for
//
// Returns:
//   - string: the entry point name
func parseEntryPoint(source string, shaderType ShaderType) string {
	var re *regexp.Regexp
	switch shaderType {
	case ShaderTypeVertex:
		re = vertexEntryRegex
	case ShaderTypeFragment:
		re = fragmentEntryRegex
	default:
		return ""
	}

	if match := re.FindStringSubmatch(stripComments(source)); match != nil {
		return match[1]
	}
	return ""
}

// parseBindGroupLayouts extracts buffer bind group layouts from WGSL source.
// Uniform and storage buffers are supported; the minimum binding size of each entry is the size of
// the bound type computed with WGSL layout rules. Entries within a group are sorted by binding.
//
// Parameters:
//   - source: the raw WGSL source code string
//   - visibility: the stage visibility assigned to every entry
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
//   - map[int]map[int]string: variable names keyed by group and binding index
//   - error: an error for declarations that are not buffers
func parseBindGroupLayouts(source string, visibility wgpu.ShaderStage) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string, error) {
	cleaned := stripComments(source)
	structSizes := computeStructSizes(parseStructBlocks(cleaned))

	groups := make(map[int][]wgpu.BindGroupLayoutEntry)
	varNames := make(map[int]map[int]string)

	for _, match := range bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		group, _ := strconv.Atoi(match[1])
		binding, _ := strconv.Atoi(match[2])
		addressSpace := strings.TrimSpace(match[3])
		varName := match[4]
		typeName := strings.TrimSpace(match[5])

		entry := wgpu.BindGroupLayoutEntry{
			Binding:    uint32(binding),
			Visibility: visibility,
		}
		switch {
		case addressSpace == "uniform":
			entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		case addressSpace == "storage" || addressSpace == "storage, read":
			entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		case addressSpace == "storage, read_write":
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		default:
			return nil, nil, fmt.Errorf("binding %d.%d (%s): unsupported resource %q", group, binding, varName, typeName)
		}
		if layout, ok := resolveTypeLayout(typeName, structSizes); ok {
			entry.Buffer.MinBindingSize = layout.size
		}

		groups[group] = append(groups[group], entry)
		if varNames[group] == nil {
			varNames[group] = make(map[int]string)
		}
		varNames[group][binding] = varName
	}

	result := make(map[int]wgpu.BindGroupLayoutDescriptor, len(groups))
	for g, entries := range groups {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Binding < entries[j].Binding
		})
		result[g] = wgpu.BindGroupLayoutDescriptor{Entries: entries}
	}
	return result, varNames, nil
}

// parseStructBlocks finds all struct blocks in comment-free WGSL source.
func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))
	for _, match := range matches {
		ps := parsedStruct{name: match[1]}
		for _, member := range strings.Split(match[2], ",") {
			member = strings.TrimSpace(member)
			if member == "" {
				continue
			}
			if m := fieldRegex.FindStringSubmatch(member); m != nil {
				ps.fields = append(ps.fields, parsedField{name: m[1], typeName: strings.TrimSpace(m[2])})
			}
		}
		structs = append(structs, ps)
	}
	return structs
}

// roundUpAlign rounds value up to the next multiple of a power-of-two alignment.
func roundUpAlign(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

// resolveTypeLayout resolves a type name against the primitive table and the already computed structs.
func resolveTypeLayout(typeName string, knownTypes map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	if layout, ok := wgslPrimitiveLayoutMap[typeName]; ok {
		return layout, true
	}
	layout, ok := knownTypes[typeName]
	return layout, ok
}

// computeStructSizes computes the layout of every struct, resolving structs nested in other structs.
// Structs with members of unknown type are left out.
func computeStructSizes(structs []parsedStruct) map[string]wgslTypeLayout {
	resolved := make(map[string]wgslTypeLayout, len(structs))
	remaining := structs

	for len(remaining) > 0 {
		var next []parsedStruct
		for _, ps := range remaining {
			if layout, ok := computeStructLayout(ps, resolved); ok {
				resolved[ps.name] = layout
			} else {
				next = append(next, ps)
			}
		}
		if len(next) == len(remaining) {
			break
		}
		remaining = next
	}
	return resolved
}

// computeStructLayout places each member at its next aligned offset and rounds the total size up to
// the largest member alignment.
func computeStructLayout(ps parsedStruct, knownTypes map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	offset := uint64(0)
	maxAlign := uint64(1)
	for _, field := range ps.fields {
		layout, ok := resolveTypeLayout(field.typeName, knownTypes)
		if !ok {
			return wgslTypeLayout{}, false
		}
		offset = roundUpAlign(layout.align, offset) + layout.size
		maxAlign = max(maxAlign, layout.align)
	}
	return wgslTypeLayout{roundUpAlign(maxAlign, offset), maxAlign}, true
}
