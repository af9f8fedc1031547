package registry

import (
	"errors"
	"testing"
)

const typesDoc = `<?xml version="1.0" encoding="UTF-8"?>
<registry>
    <platforms comment="Platforms">
        <platform name="xlib" protect="VK_USE_PLATFORM_XLIB_KHR" comment="X11 Xlib"/>
        <platform name="win32" protect="VK_USE_PLATFORM_WIN32_KHR"/>
    </platforms>
    <tags>
        <tag name="KHR" author="Khronos" contact="Tom"/>
        <tag name="EXT" author="Multivendor" contact="Jon"/>
    </tags>
    <types comment="types">
        <type name="X11/Xlib.h" category="include"/>
        <type requires="X11/Xlib.h" name="Display"/>
        <type category="define">#define <name>VK_HEADER_VERSION</name> 290</type>
        <type category="basetype">typedef <type>uint32_t</type> <name>VkBool32</name>;</type>
        <type category="basetype">struct <name>ANativeWindow</name>;</type>
        <type category="handle" objtypeenum="VK_OBJECT_TYPE_INSTANCE"><type>VK_DEFINE_HANDLE</type>(<name>VkInstance</name>)</type>
        <type category="handle" parent="VkDevice" objtypeenum="VK_OBJECT_TYPE_BUFFER"><type>VK_DEFINE_NON_DISPATCHABLE_HANDLE</type>(<name>VkBuffer</name>)</type>
        <type category="handle" name="VkBufferKHR" alias="VkBuffer"/>
        <type category="bitmask" requires="VkAccessFlagBits">typedef <type>VkFlags</type> <name>VkAccessFlags</name>;</type>
        <type category="enum" name="VkResult"/>
        <type category="enum" name="VkResultKHR" alias="VkResult"/>
        <type category="funcpointer">typedef void (VKAPI_PTR *<name>PFN_vkVoidFunction</name>)(void);</type>
        <type category="struct" name="VkExtent2D">
            <member><type>uint32_t</type> <name>width</name></member>
            <member><type>uint32_t</type> <name>height</name></member>
        </type>
        <type category="struct" name="VkInstanceCreateInfo" structextends="VkBaseOutStructure">
            <member values="VK_STRUCTURE_TYPE_INSTANCE_CREATE_INFO"><type>VkStructureType</type> <name>sType</name></member>
            <member optional="true">const <type>void</type>* <name>pNext</name></member>
            <member optional="true" len="enabledLayerCount,null-terminated">const <type>char</type>* const* <name>ppEnabledLayerNames</name></member>
            <member><type>uint8_t</type> <name>uuid</name>[<enum>VK_UUID_SIZE</enum>]</member>
            <member><type>uint32_t</type> <name>mask</name>:8</member>
            <member api="vulkansc"><type>uint32_t</type> <name>scOnly</name></member>
        </type>
        <type category="union" name="VkClearColorValue">
            <member><type>float</type> <name>float32</name>[4]</member>
            <member><type>uint32_t</type> <name>uint32</name>[4]</member>
        </type>
    </types>
</registry>`

func TestParseTypes(t *testing.T) {
	doc, err := ParseDocument(typesDoc, DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	if len(doc.Platforms) != 2 || doc.Platforms[0].Name != "xlib" || doc.Platforms[0].Protect != "VK_USE_PLATFORM_XLIB_KHR" {
		t.Errorf("Platforms: got %+v", doc.Platforms)
	}
	if len(doc.Tags) != 2 || doc.Tags[1].Name != "EXT" || doc.Tags[1].Author != "Multivendor" {
		t.Errorf("Tags: got %+v", doc.Tags)
	}

	if len(doc.Basetypes) != 2 {
		t.Fatalf("Expected 2 basetypes, got %+v", doc.Basetypes)
	}
	if doc.Basetypes[0] != (Basetype{Name: "VkBool32", Type: "uint32_t"}) {
		t.Errorf("Basetype: got %+v", doc.Basetypes[0])
	}
	if doc.Basetypes[1] != (Basetype{Name: "ANativeWindow"}) {
		t.Errorf("Opaque basetype: got %+v", doc.Basetypes[1])
	}

	if len(doc.HandleDefs) != 3 {
		t.Fatalf("Expected 3 handles, got %+v", doc.HandleDefs)
	}
	if h := doc.HandleDefs[0]; h.Name != "VkInstance" || !h.Dispatchable || h.ObjTypeEnum != "VK_OBJECT_TYPE_INSTANCE" {
		t.Errorf("Dispatchable handle: got %+v", h)
	}
	if h := doc.HandleDefs[1]; h.Name != "VkBuffer" || h.Dispatchable || h.Parent != "VkDevice" {
		t.Errorf("Non-dispatchable handle: got %+v", h)
	}
	if h := doc.HandleDefs[2]; h.Name != "VkBufferKHR" || h.Alias != "VkBuffer" {
		t.Errorf("Handle alias: got %+v", h)
	}

	if len(doc.BitmaskDefs) != 1 || doc.BitmaskDefs[0] != (BitmaskDef{Name: "VkAccessFlags", Type: "VkFlags", Bits: "VkAccessFlagBits"}) {
		t.Errorf("Bitmask: got %+v", doc.BitmaskDefs)
	}

	if len(doc.EnumDecls) != 2 || doc.EnumDecls[1] != (EnumDecl{Name: "VkResultKHR", Alias: "VkResult"}) {
		t.Errorf("Enum decls: got %+v", doc.EnumDecls)
	}

	if len(doc.FuncPointers) != 1 || doc.FuncPointers[0].Name != "PFN_vkVoidFunction" || doc.FuncPointers[0].Return != "void" {
		t.Errorf("Funcpointer: got %+v", doc.FuncPointers)
	}
}

func TestParseStructMembers(t *testing.T) {
	doc, err := ParseDocument(typesDoc, DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	var info *StructDef
	for i := range doc.Structs {
		if doc.Structs[i].Name == "VkInstanceCreateInfo" {
			info = &doc.Structs[i]
		}
	}
	if info == nil {
		t.Fatalf("VkInstanceCreateInfo not parsed: %+v", doc.Structs)
	}
	if len(info.Extends) != 1 || info.Extends[0] != "VkBaseOutStructure" {
		t.Errorf("structextends: got %+v", info.Extends)
	}
	// The vulkansc-only member is filtered out.
	if len(info.Members) != 5 {
		t.Fatalf("Expected 5 members, got %d: %+v", len(info.Members), info.Members)
	}

	sType := info.Members[0]
	if sType.Name != "sType" || sType.Type != "VkStructureType" || sType.Values != "VK_STRUCTURE_TYPE_INSTANCE_CREATE_INFO" {
		t.Errorf("sType member: got %+v", sType)
	}

	pNext := info.Members[1]
	if pNext.Prefix != "const" || pNext.Type != "void" || pNext.Suffix != "*" || pNext.Optional != "true" {
		t.Errorf("pNext member: got %+v", pNext)
	}

	layers := info.Members[2]
	if layers.Prefix != "const" || layers.Suffix != "* const*" || layers.Len != "enabledLayerCount,null-terminated" {
		t.Errorf("ppEnabledLayerNames member: got %+v", layers)
	}

	uuid := info.Members[3]
	if uuid.Dims != "[VK_UUID_SIZE]" {
		t.Errorf("uuid dims: got %q", uuid.Dims)
	}

	mask := info.Members[4]
	if mask.BitWidth != 8 || mask.Dims != "" {
		t.Errorf("bit-field member: got %+v", mask)
	}

	var union *StructDef
	for i := range doc.Structs {
		if doc.Structs[i].Name == "VkClearColorValue" {
			union = &doc.Structs[i]
		}
	}
	if union == nil || !union.Union {
		t.Fatalf("Union not parsed: %+v", doc.Structs)
	}
	if len(union.Members) != 2 || union.Members[0].Dims != "[4]" {
		t.Errorf("Union members: got %+v", union.Members)
	}
}

const enumsDoc = `<registry>
    <enums name="API Constants" comment="misc">
        <enum type="uint32_t" value="256" name="VK_MAX_EXTENSION_NAME_SIZE"/>
        <enum type="uint32_t" value="(~0U)" name="VK_REMAINING_MIP_LEVELS"/>
        <enum type="float" value="1000.0f" name="VK_LOD_CLAMP_NONE"/>
        <enum name="VK_LUID_SIZE_KHR" alias="VK_LUID_SIZE"/>
    </enums>
    <enums name="VkResult" type="enum">
        <enum value="0" name="VK_SUCCESS"/>
        <enum value="1" name="VK_NOT_READY"/>
        <enum value="-1" name="VK_ERROR_OUT_OF_HOST_MEMORY"/>
        <unused start="-13"/>
    </enums>
    <enums name="VkAccessFlagBits2" type="bitmask" bitwidth="64">
        <enum bitpos="0" name="VK_ACCESS_2_INDIRECT_COMMAND_READ_BIT"/>
        <enum bitpos="33" name="VK_ACCESS_2_SHADER_SAMPLED_READ_BIT"/>
    </enums>
</registry>`

func TestParseEnumBlocks(t *testing.T) {
	doc, err := ParseDocument(enumsDoc, DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	if len(doc.EnumBlocks) != 3 {
		t.Fatalf("Expected 3 blocks, got %d", len(doc.EnumBlocks))
	}

	constants := doc.EnumBlocks[0]
	if constants.Type != "constants" || len(constants.Items) != 4 {
		t.Fatalf("Constants block: got %+v", constants)
	}
	if constants.Items[1].Value.Uint != 0xFFFFFFFF {
		t.Errorf("Bit-NOT constant: got %+v", constants.Items[1].Value)
	}
	if constants.Items[3].Alias != "VK_LUID_SIZE" {
		t.Errorf("Alias constant: got %+v", constants.Items[3])
	}

	result := doc.EnumBlocks[1]
	if result.Type != "enum" || result.BitWidth != 32 || len(result.Items) != 3 {
		t.Fatalf("Enum block: got %+v", result)
	}
	if result.Items[2].Value.Int != -1 {
		t.Errorf("Negative value: got %+v", result.Items[2])
	}

	access := doc.EnumBlocks[2]
	if access.Type != "bitmask" || access.BitWidth != 64 {
		t.Fatalf("Bitmask block: got %+v", access)
	}
	if !access.Items[1].HasBitPos || access.Items[1].BitPos != 33 {
		t.Errorf("Bit position: got %+v", access.Items[1])
	}
}

const commandsDoc = `<registry>
    <commands comment="commands">
        <command successcodes="VK_SUCCESS" errorcodes="VK_ERROR_OUT_OF_HOST_MEMORY,VK_ERROR_DEVICE_LOST" queues="graphics,compute" renderpass="outside" cmdbufferlevel="primary,secondary">
            <proto><type>VkResult</type> <name>vkCreateInstance</name></proto>
            <param>const <type>VkInstanceCreateInfo</type>* <name>pCreateInfo</name></param>
            <param optional="true"><type>VkInstance</type>* <name>pInstance</name></param>
        </command>
        <command name="vkCreateInstanceKHR" alias="vkCreateInstance"/>
    </commands>
</registry>`

func TestParseCommands(t *testing.T) {
	doc, err := ParseDocument(commandsDoc, DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	if len(doc.Commands) != 2 {
		t.Fatalf("Expected 2 commands, got %+v", doc.Commands)
	}

	cmd := doc.Commands[0]
	if cmd.Name != "vkCreateInstance" || cmd.Proto.Type != "VkResult" {
		t.Errorf("Proto: got %+v", cmd.Proto)
	}
	if len(cmd.ErrorCodes) != 2 || cmd.ErrorCodes[1] != "VK_ERROR_DEVICE_LOST" {
		t.Errorf("Error codes: got %+v", cmd.ErrorCodes)
	}
	if len(cmd.Queues) != 2 || cmd.RenderPass != "outside" || cmd.CmdBufferLevel != "primary,secondary" {
		t.Errorf("Command metadata: got %+v", cmd)
	}
	if len(cmd.Params) != 2 {
		t.Fatalf("Expected 2 params, got %+v", cmd.Params)
	}
	if p := cmd.Params[0]; p.Prefix != "const" || p.Type != "VkInstanceCreateInfo" || p.Suffix != "*" {
		t.Errorf("First param: got %+v", p)
	}

	if a := doc.Commands[1]; a.Name != "vkCreateInstanceKHR" || a.Alias != "vkCreateInstance" {
		t.Errorf("Alias command: got %+v", a)
	}
}

const extensionsDoc = `<registry>
    <feature api="vulkan,vulkansc" name="VK_VERSION_1_1" number="1.1">
        <require comment="Promoted">
            <type name="VkPhysicalDeviceSubgroupProperties"/>
            <enum extends="VkStructureType" extnumber="95" offset="0" name="VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_16BIT_STORAGE_FEATURES"/>
        </require>
    </feature>
    <extensions>
        <extension name="VK_KHR_swapchain" number="2" type="device" author="KHR" depends="VK_KHR_surface" supported="vulkan" promotedto="VK_VERSION_1_1" specialuse="glemulation,d3demulation">
            <require>
                <enum value="70" name="VK_KHR_SWAPCHAIN_SPEC_VERSION"/>
                <enum value="&quot;VK_KHR_swapchain&quot;" name="VK_KHR_SWAPCHAIN_EXTENSION_NAME"/>
                <enum offset="5" extends="VkResult" dir="-" name="VK_ERROR_OUT_OF_DATE_KHR"/>
                <command name="vkCreateSwapchainKHR"/>
            </require>
            <require depends="VK_KHR_maintenance1">
                <enum bitpos="4" extends="VkAccessFlagBits" name="VK_ACCESS_FAKE_BIT_KHR"/>
            </require>
        </extension>
        <extension name="VK_SC_only" number="9" supported="vulkansc">
            <require><enum value="1" name="VK_SC_ONLY_SPEC_VERSION"/></require>
        </extension>
        <extension name="VK_EXT_provisional" number="3" supported="vulkan" provisional="true" platform="win32" protect="VK_ENABLE_BETA">
            <require><feature name="shaderFloat16" struct="VkPhysicalDeviceVulkan12Features"/></require>
        </extension>
    </extensions>
    <spirvextensions comment="spirv">
        <spirvextension name="SPV_KHR_variable_pointers">
            <enable version="VK_API_VERSION_1_1"/>
            <enable extension="VK_KHR_variable_pointers"/>
        </spirvextension>
    </spirvextensions>
    <spirvcapabilities comment="caps">
        <spirvcapability name="Float64">
            <enable struct="VkPhysicalDeviceFeatures" feature="shaderFloat64" requires="VK_VERSION_1_0"/>
            <enable property="VkPhysicalDeviceVulkan12Properties" member="shaderDenormPreserveFloat64" value="VK_TRUE" requires="VK_VERSION_1_2"/>
        </spirvcapability>
    </spirvcapabilities>
</registry>`

func TestParseFeatureAndExtensions(t *testing.T) {
	doc, err := ParseDocument(extensionsDoc, DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	// The vulkansc-only extension is filtered; feature + 2 extensions stay.
	if len(doc.Blocks) != 3 {
		t.Fatalf("Expected 3 blocks, got %d: %+v", len(doc.Blocks), doc.Blocks)
	}

	feat := doc.Blocks[0]
	if !feat.Feature || feat.Name != "VK_VERSION_1_1" || feat.Version != "1.1" {
		t.Errorf("Feature: got %+v", feat)
	}
	if len(feat.Requires) != 1 || len(feat.Requires[0].Enums) != 1 {
		t.Fatalf("Feature requires: got %+v", feat.Requires)
	}
	promoted := feat.Requires[0].Enums[0]
	if promoted.ExtNumber != 95 || !promoted.HasOffset || promoted.Offset != 0 {
		t.Errorf("Promoted enum: got %+v", promoted)
	}
	if len(feat.Requires[0].Types) != 1 {
		t.Errorf("Required types: got %+v", feat.Requires[0].Types)
	}

	swap := doc.Blocks[1]
	if swap.Feature || swap.Name != "VK_KHR_swapchain" || swap.Number != 2 || swap.Type != "device" {
		t.Errorf("Extension: got %+v", swap)
	}
	if swap.Depends != "VK_KHR_surface" || swap.PromotedTo != "VK_VERSION_1_1" {
		t.Errorf("Extension metadata: got %+v", swap)
	}
	if len(swap.SpecialUse) != 2 || swap.SpecialUse[1] != "d3demulation" {
		t.Errorf("specialuse: got %+v", swap.SpecialUse)
	}
	if len(swap.Requires) != 2 {
		t.Fatalf("Expected 2 require blocks, got %+v", swap.Requires)
	}
	first := swap.Requires[0]
	if len(first.Enums) != 3 || len(first.Commands) != 1 {
		t.Fatalf("First require: got %+v", first)
	}
	if name := first.Enums[1]; name.Value.Str != "VK_KHR_swapchain" {
		t.Errorf("Extension name constant: got %+v", name.Value)
	}
	if outOfDate := first.Enums[2]; !outOfDate.Negative || outOfDate.Offset != 5 {
		t.Errorf("Negative offset: got %+v", outOfDate)
	}
	if swap.Requires[1].Depends != "VK_KHR_maintenance1" {
		t.Errorf("Second require depends: got %+v", swap.Requires[1])
	}

	prov := doc.Blocks[2]
	if !prov.Provisional || prov.Platform != "win32" || prov.Protect != "VK_ENABLE_BETA" {
		t.Errorf("Provisional extension: got %+v", prov)
	}
	if len(prov.Requires) != 1 || len(prov.Requires[0].Features) != 1 {
		t.Fatalf("Feature requirements: got %+v", prov.Requires)
	}
	fr := prov.Requires[0].Features[0]
	if fr.Struct != "VkPhysicalDeviceVulkan12Features" || fr.Field != "shaderFloat16" {
		t.Errorf("Feature requirement: got %+v", fr)
	}

	if len(doc.SPIRVExtensions) != 1 || len(doc.SPIRVExtensions[0].Enables) != 2 {
		t.Fatalf("SPIR-V extensions: got %+v", doc.SPIRVExtensions)
	}
	if doc.SPIRVExtensions[0].Enables[1].Extension != "VK_KHR_variable_pointers" {
		t.Errorf("SPIR-V enable: got %+v", doc.SPIRVExtensions[0].Enables[1])
	}
	if len(doc.SPIRVCapabilities) != 1 {
		t.Fatalf("SPIR-V capabilities: got %+v", doc.SPIRVCapabilities)
	}
	en := doc.SPIRVCapabilities[0].Enables[1]
	if en.Property != "VkPhysicalDeviceVulkan12Properties" || en.Member != "shaderDenormPreserveFloat64" || en.Value != "VK_TRUE" {
		t.Errorf("Capability enable: got %+v", en)
	}
}

func TestParseAPIVariantFilter(t *testing.T) {
	opts := ParseOptions{APIs: []string{"vulkansc"}}
	doc, err := ParseDocument(extensionsDoc, opts)
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	names := make([]string, 0, len(doc.Blocks))
	for _, blk := range doc.Blocks {
		names = append(names, blk.Name)
	}
	// The feature spans both variants; the vulkan-only extensions drop.
	expected := []string{"VK_VERSION_1_1", "VK_SC_only"}
	if len(names) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("Block %d: expected %q, got %q", i, expected[i], names[i])
		}
	}
}

func TestParseExcludedRequireBlockSkippedWhole(t *testing.T) {
	// A require block restricted to another API variant is skipped
	// without parsing its contents, so even a malformed literal inside
	// it cannot fail the run.
	src := `<registry>
        <extensions>
            <extension name="VK_KHR_mixed" number="5" supported="vulkan,vulkansc">
                <require api="vulkansc">
                    <enum value="zz9" name="VK_MIXED_SC_ONLY"/>
                </require>
                <require>
                    <enum value="1" name="VK_KHR_MIXED_SPEC_VERSION"/>
                </require>
            </extension>
        </extensions>
    </registry>`
	doc, err := ParseDocument(src, DefaultParseOptions())
	if err != nil {
		t.Fatalf("Excluded require block must not be parsed, got %v", err)
	}
	if len(doc.Blocks) != 1 {
		t.Fatalf("Expected 1 extension, got %+v", doc.Blocks)
	}
	reqs := doc.Blocks[0].Requires
	if len(reqs) != 1 || len(reqs[0].Enums) != 1 || reqs[0].Enums[0].Name != "VK_KHR_MIXED_SPEC_VERSION" {
		t.Errorf("Expected only the accepted require block, got %+v", reqs)
	}
}

func TestParseMalformedLiteralFails(t *testing.T) {
	src := `<registry><enums name="API Constants"><enum value="zz9" name="VK_BAD"/></enums></registry>`
	_, err := ParseDocument(src, DefaultParseOptions())
	if err == nil {
		t.Fatal("Expected a literal error")
	}
	var lit *LiteralError
	if !errors.As(err, &lit) {
		t.Errorf("Expected a LiteralError, got %T: %v", err, err)
	}
}

func TestParseTruncatedDocument(t *testing.T) {
	src := `<registry><types><type category="basetype">typedef <type>uint32_t</type> <name>VkBool32</name>;</type><type category="struct" name="VkCut"><member><type>uint32_t</type>`
	doc, err := ParseDocument(src, DefaultParseOptions())
	if err != nil {
		t.Fatalf("Truncated input must not error, got %v", err)
	}
	if len(doc.Basetypes) != 1 || doc.Basetypes[0].Name != "VkBool32" {
		t.Errorf("Expected the records before the cut, got %+v", doc.Basetypes)
	}
}

func TestParseMissingRoot(t *testing.T) {
	if _, err := ParseDocument(`<wrong/>`, DefaultParseOptions()); err == nil {
		t.Error("Expected an error for a missing root element")
	}
}
