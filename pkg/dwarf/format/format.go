// Package format holds the raw DWARF vocabulary: tag codes, attribute name
// codes, and form codes. dwarfkit is deliberately not a lossy façade over
// this vocabulary — callers see the same Tag/Attr/Form values a
// disassembler or eu-readelf would show them.
package format

// Tag identifies the kind of a Debugging Information Entry (DW_TAG_*).
type Tag uint32

// TagInvalid is the sentinel tag assigned to a DIE whose abbrev
// code could not be resolved.
const TagInvalid Tag = 0

const (
	TagArrayType             Tag = 0x01
	TagClassType             Tag = 0x02
	TagEntryPoint            Tag = 0x03
	TagEnumerationType       Tag = 0x04
	TagFormalParameter       Tag = 0x05
	TagImportedDeclaration   Tag = 0x08
	TagLabel                 Tag = 0x0a
	TagLexicalBlock          Tag = 0x0b
	TagMember                Tag = 0x0d
	TagPointerType           Tag = 0x0f
	TagReferenceType         Tag = 0x10
	TagCompileUnit           Tag = 0x11
	TagStringType            Tag = 0x12
	TagStructureType         Tag = 0x13
	TagSubroutineType        Tag = 0x15
	TagTypedef               Tag = 0x16
	TagUnionType             Tag = 0x17
	TagUnspecifiedParameters Tag = 0x18
	TagVariant               Tag = 0x19
	TagCommonBlock           Tag = 0x1a
	TagCommonInclusion       Tag = 0x1b
	TagInheritance           Tag = 0x1c
	TagInlinedSubroutine     Tag = 0x1d
	TagModule                Tag = 0x1e
	TagPtrToMemberType       Tag = 0x1f
	TagSetType               Tag = 0x20
	TagSubrangeType          Tag = 0x21
	TagWithStmt              Tag = 0x22
	TagAccessDeclaration     Tag = 0x23
	TagBaseType              Tag = 0x24
	TagCatchBlock            Tag = 0x25
	TagConstType             Tag = 0x26
	TagConstant              Tag = 0x27
	TagEnumerator            Tag = 0x28
	TagFileType              Tag = 0x29
	TagFriend                Tag = 0x2a
	TagNamelist              Tag = 0x2b
	TagNamelistItem          Tag = 0x2c
	TagPackedType            Tag = 0x2d
	TagSubprogram            Tag = 0x2e
	TagTemplateTypeParameter Tag = 0x2f
	TagTemplateValueParam   Tag = 0x30
	TagThrownType            Tag = 0x31
	TagTryBlock              Tag = 0x32
	TagVariantPart           Tag = 0x33
	TagVariable              Tag = 0x34
	TagVolatileType          Tag = 0x35
	TagDwarfProcedure        Tag = 0x36
	TagRestrictType          Tag = 0x37
	TagInterfaceType         Tag = 0x38
	TagNamespace             Tag = 0x39
	TagImportedModule        Tag = 0x3a
	TagUnspecifiedType       Tag = 0x3b
	TagPartialUnit           Tag = 0x3c
	TagImportedUnit          Tag = 0x3d
	TagCondition             Tag = 0x3f
	TagSharedType            Tag = 0x40
	TagTypeUnit              Tag = 0x41
	TagRvalueReferenceType   Tag = 0x42
	TagTemplateAlias         Tag = 0x43
	TagLoUser                Tag = 0x4080
	TagHiUser                Tag = 0xffff
)

var tagNames = map[Tag]string{
	TagArrayType: "array_type", TagClassType: "class_type", TagEntryPoint: "entry_point",
	TagEnumerationType: "enumeration_type", TagFormalParameter: "formal_parameter",
	TagImportedDeclaration: "imported_declaration", TagLabel: "label",
	TagLexicalBlock: "lexical_block", TagMember: "member", TagPointerType: "pointer_type",
	TagReferenceType: "reference_type", TagCompileUnit: "compile_unit",
	TagStringType: "string_type", TagStructureType: "structure_type",
	TagSubroutineType: "subroutine_type", TagTypedef: "typedef", TagUnionType: "union_type",
	TagUnspecifiedParameters: "unspecified_parameters", TagVariant: "variant",
	TagCommonBlock: "common_block", TagCommonInclusion: "common_inclusion",
	TagInheritance: "inheritance", TagInlinedSubroutine: "inlined_subroutine",
	TagModule: "module", TagPtrToMemberType: "ptr_to_member_type", TagSetType: "set_type",
	TagSubrangeType: "subrange_type", TagWithStmt: "with_stmt",
	TagAccessDeclaration: "access_declaration", TagBaseType: "base_type",
	TagCatchBlock: "catch_block", TagConstType: "const_type", TagConstant: "constant",
	TagEnumerator: "enumerator", TagFileType: "file_type", TagFriend: "friend",
	TagNamelist: "namelist", TagNamelistItem: "namelist_item", TagPackedType: "packed_type",
	TagSubprogram: "subprogram", TagTemplateTypeParameter: "template_type_parameter",
	TagTemplateValueParam: "template_value_parameter", TagThrownType: "thrown_type",
	TagTryBlock: "try_block", TagVariantPart: "variant_part", TagVariable: "variable",
	TagVolatileType: "volatile_type", TagDwarfProcedure: "dwarf_procedure",
	TagRestrictType: "restrict_type", TagInterfaceType: "interface_type",
	TagNamespace: "namespace", TagImportedModule: "imported_module",
	TagUnspecifiedType: "unspecified_type", TagPartialUnit: "partial_unit",
	TagImportedUnit: "imported_unit", TagCondition: "condition", TagSharedType: "shared_type",
	TagTypeUnit: "type_unit", TagRvalueReferenceType: "rvalue_reference_type",
	TagTemplateAlias: "template_alias",
}

func (t Tag) String() string {
	if t == TagInvalid {
		return "TAG_invalid"
	}
	if name, ok := tagNames[t]; ok {
		return "DW_TAG_" + name
	}
	if t >= TagLoUser && t <= TagHiUser {
		return "DW_TAG_user"
	}
	return "DW_TAG_unknown"
}

// Attr identifies an attribute's name code (DW_AT_*).
type Attr uint32

const (
	AttrSibling       Attr = 0x01
	AttrLocation      Attr = 0x02
	AttrName          Attr = 0x03
	AttrByteSize      Attr = 0x0b
	AttrBitSize       Attr = 0x0d
	AttrStmtList      Attr = 0x10
	AttrLowPc         Attr = 0x11
	AttrHighPc        Attr = 0x12
	AttrLanguage      Attr = 0x13
	AttrCompDir       Attr = 0x1b
	AttrConstValue    Attr = 0x1c
	AttrUpperBound    Attr = 0x2f
	AttrProducer      Attr = 0x25
	AttrPrototyped    Attr = 0x27
	AttrCount         Attr = 0x37
	AttrDataMemberLoc Attr = 0x38
	AttrDeclFile      Attr = 0x3a
	AttrDeclLine      Attr = 0x3b
	AttrDeclColumn    Attr = 0x39
	AttrDeclaration   Attr = 0x3c
	AttrEncoding      Attr = 0x3e
	AttrExternal      Attr = 0x3f
	AttrFrameBase     Attr = 0x40
	AttrInline        Attr = 0x20
	AttrType          Attr = 0x49
	AttrRanges        Attr = 0x55
	AttrAbstractOrigin Attr = 0x31
	AttrSpecification Attr = 0x47
	AttrArtificial    Attr = 0x34
	AttrVisibility    Attr = 0x17
	AttrVirtuality    Attr = 0x4c
	AttrEntryPc       Attr = 0x52
)

var attrNames = map[Attr]string{
	AttrSibling: "sibling", AttrLocation: "location", AttrName: "name",
	AttrByteSize: "byte_size", AttrBitSize: "bit_size", AttrStmtList: "stmt_list",
	AttrLowPc: "low_pc", AttrHighPc: "high_pc", AttrLanguage: "language",
	AttrCompDir: "comp_dir", AttrConstValue: "const_value", AttrUpperBound: "upper_bound",
	AttrProducer: "producer", AttrPrototyped: "prototyped", AttrCount: "count",
	AttrDataMemberLoc: "data_member_location", AttrDeclFile: "decl_file",
	AttrDeclLine: "decl_line", AttrDeclColumn: "decl_column", AttrDeclaration: "declaration",
	AttrEncoding: "encoding", AttrExternal: "external", AttrFrameBase: "frame_base",
	AttrInline: "inline", AttrType: "type", AttrRanges: "ranges",
	AttrAbstractOrigin: "abstract_origin", AttrSpecification: "specification",
	AttrArtificial: "artificial", AttrVisibility: "visibility", AttrVirtuality: "virtuality",
	AttrEntryPc: "entry_pc",
}

func (a Attr) String() string {
	if name, ok := attrNames[a]; ok {
		return "DW_AT_" + name
	}
	return "DW_AT_unknown"
}

// Form identifies the wire encoding of an attribute's value (DW_FORM_*).
type Form uint32

const (
	FormAddr        Form = 0x01
	FormBlock2      Form = 0x03
	FormBlock4      Form = 0x04
	FormData2       Form = 0x05
	FormData4       Form = 0x06
	FormData8       Form = 0x07
	FormString      Form = 0x08
	FormBlock       Form = 0x09
	FormBlock1      Form = 0x0a
	FormData1       Form = 0x0b
	FormFlag        Form = 0x0c
	FormSdata       Form = 0x0d
	FormStrp        Form = 0x0e
	FormUdata       Form = 0x0f
	FormRefAddr     Form = 0x10
	FormRef1        Form = 0x11
	FormRef2        Form = 0x12
	FormRef4        Form = 0x13
	FormRef8        Form = 0x14
	FormRefUdata    Form = 0x15
	FormIndirect    Form = 0x16
	FormSecOffset   Form = 0x17
	FormExprloc     Form = 0x18
	FormFlagPresent Form = 0x19
)

var formNames = map[Form]string{
	FormAddr: "addr", FormBlock2: "block2", FormBlock4: "block4", FormData2: "data2",
	FormData4: "data4", FormData8: "data8", FormString: "string", FormBlock: "block",
	FormBlock1: "block1", FormData1: "data1", FormFlag: "flag", FormSdata: "sdata",
	FormStrp: "strp", FormUdata: "udata", FormRefAddr: "ref_addr", FormRef1: "ref1",
	FormRef2: "ref2", FormRef4: "ref4", FormRef8: "ref8", FormRefUdata: "ref_udata",
	FormIndirect: "indirect", FormSecOffset: "sec_offset", FormExprloc: "exprloc",
	FormFlagPresent: "flag_present",
}

func (f Form) String() string {
	if name, ok := formNames[f]; ok {
		return "DW_FORM_" + name
	}
	return "DW_FORM_unknown"
}

// Class buckets a Form into one of the semantic classes AttrDecoder
// dispatches on.
type Class int

const (
	ClassUnknown Class = iota
	ClassAddress
	ClassConstant
	ClassString
	ClassBlock
	ClassFlag
	ClassReference
	ClassIndirect
)

// ClassOf returns the semantic class a form belongs to, independent of any
// particular CU's sizes.
func ClassOf(f Form) Class {
	switch f {
	case FormAddr:
		return ClassAddress
	case FormData1, FormData2, FormData4, FormData8, FormSdata, FormUdata, FormSecOffset:
		return ClassConstant
	case FormString, FormStrp:
		return ClassString
	case FormBlock, FormBlock1, FormBlock2, FormBlock4, FormExprloc:
		return ClassBlock
	case FormFlag, FormFlagPresent:
		return ClassFlag
	case FormRefAddr, FormRef1, FormRef2, FormRef4, FormRef8, FormRefUdata:
		return ClassReference
	case FormIndirect:
		return ClassIndirect
	default:
		return ClassUnknown
	}
}
