// Package indexstore models the data exposed by a compiler index store:
// compilation units, their records, and the symbol occurrences inside them.
package indexstore

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Roles is the bit-set describing what an occurrence represents and how a
// related symbol relates to it. Bit positions match libIndexStore, so raw
// role values from an index dump decode unchanged.
type Roles uint64

const (
	RoleDeclaration Roles = 1 << 0
	RoleDefinition  Roles = 1 << 1
	RoleReference   Roles = 1 << 2
	RoleRead        Roles = 1 << 3
	RoleWrite       Roles = 1 << 4
	RoleCall        Roles = 1 << 5
	RoleDynamic     Roles = 1 << 6
	RoleAddressOf   Roles = 1 << 7
	RoleImplicit    Roles = 1 << 8

	// Relation roles.
	RoleChildOf          Roles = 1 << 9
	RoleBaseOf           Roles = 1 << 10
	RoleOverrideOf       Roles = 1 << 11
	RoleReceivedBy       Roles = 1 << 12
	RoleCalledBy         Roles = 1 << 13
	RoleExtendedBy       Roles = 1 << 14
	RoleAccessorOf       Roles = 1 << 15
	RoleContainedBy      Roles = 1 << 16
	RoleIBTypeOf         Roles = 1 << 17
	RoleSpecializationOf Roles = 1 << 18

	RoleUndefinition  Roles = 1 << 19
	RoleNameReference Roles = 1 << 20
)

// RelationRoles holds every role that describes a relation rather than the
// occurrence itself.
const RelationRoles = RoleChildOf | RoleBaseOf | RoleOverrideOf | RoleReceivedBy |
	RoleCalledBy | RoleExtendedBy | RoleAccessorOf | RoleContainedBy |
	RoleIBTypeOf | RoleSpecializationOf

var roleNames = []struct {
	role Roles
	name string
}{
	{RoleDeclaration, "declaration"},
	{RoleDefinition, "definition"},
	{RoleReference, "reference"},
	{RoleRead, "read"},
	{RoleWrite, "write"},
	{RoleCall, "call"},
	{RoleDynamic, "dynamic"},
	{RoleAddressOf, "addressOf"},
	{RoleImplicit, "implicit"},
	{RoleUndefinition, "undefinition"},
	{RoleNameReference, "nameReference"},
	{RoleChildOf, "childOf"},
	{RoleBaseOf, "baseOf"},
	{RoleOverrideOf, "overrideOf"},
	{RoleReceivedBy, "receivedBy"},
	{RoleCalledBy, "calledBy"},
	{RoleExtendedBy, "extendedBy"},
	{RoleAccessorOf, "accessorOf"},
	{RoleContainedBy, "containedBy"},
	{RoleIBTypeOf, "IBTypeOf"},
	{RoleSpecializationOf, "specializationOf"},
}

// Contains reports whether every bit of other is set in r.
func (r Roles) Contains(other Roles) bool {
	return r&other == other
}

// Names returns the names of the roles set in r, in declaration order.
func (r Roles) Names() []string {
	var names []string
	for _, rn := range roleNames {
		if r.Contains(rn.role) {
			names = append(names, rn.name)
		}
	}
	return names
}

func (r Roles) String() string {
	return strings.Join(r.Names(), ", ")
}

// ParseRole returns the role with the given name.
func ParseRole(name string) (Roles, error) {
	for _, rn := range roleNames {
		if rn.name == name {
			return rn.role, nil
		}
	}
	return 0, fmt.Errorf("unknown symbol role %q", name)
}

// MarshalJSON encodes roles as a list of role names.
func (r Roles) MarshalJSON() ([]byte, error) {
	names := r.Names()
	if names == nil {
		names = []string{}
	}
	return json.Marshal(names)
}

// UnmarshalJSON accepts either a list of role names or the raw bit-set.
func (r *Roles) UnmarshalJSON(data []byte) error {
	var raw uint64
	if err := json.Unmarshal(data, &raw); err == nil {
		*r = Roles(raw)
		return nil
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("decoding roles: %w", err)
	}

	var roles Roles
	for _, name := range names {
		role, err := ParseRole(name)
		if err != nil {
			return err
		}
		roles |= role
	}
	*r = roles
	return nil
}

// Kind is the broad category of a symbol.
type Kind int

const (
	KindUnknown Kind = iota
	KindModule
	KindNamespace
	KindNamespaceAlias
	KindMacro
	KindEnum
	KindStruct
	KindClass
	KindProtocol
	KindExtension
	KindUnion
	KindTypealias
	KindFunction
	KindVariable
	KindField
	KindEnumConstant
	KindInstanceMethod
	KindClassMethod
	KindStaticMethod
	KindInstanceProperty
	KindClassProperty
	KindStaticProperty
	KindConstructor
	KindDestructor
	KindConversionFunction
	KindParameter
	KindUsing
	KindCommentTag
)

var kindNames = [...]string{
	KindUnknown:            "unknown",
	KindModule:             "module",
	KindNamespace:          "namespace",
	KindNamespaceAlias:     "namespaceAlias",
	KindMacro:              "macro",
	KindEnum:               "enum",
	KindStruct:             "struct",
	KindClass:              "class",
	KindProtocol:           "protocol",
	KindExtension:          "extension",
	KindUnion:              "union",
	KindTypealias:          "typealias",
	KindFunction:           "function",
	KindVariable:           "variable",
	KindField:              "field",
	KindEnumConstant:       "enumConstant",
	KindInstanceMethod:     "instanceMethod",
	KindClassMethod:        "classMethod",
	KindStaticMethod:       "staticMethod",
	KindInstanceProperty:   "instanceProperty",
	KindClassProperty:      "classProperty",
	KindStaticProperty:     "staticProperty",
	KindConstructor:        "constructor",
	KindDestructor:         "destructor",
	KindConversionFunction: "conversionFunction",
	KindParameter:          "parameter",
	KindUsing:              "using",
	KindCommentTag:         "commentTag",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "UNIDENTIFIED"
	}
	return kindNames[k]
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown symbol kind %q", name)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Subkind refines a Kind.
type Subkind int

const (
	SubkindNone Subkind = iota
	SubkindCXXCopyConstructor
	SubkindCXXMoveConstructor
	SubkindAccessorGetter
	SubkindAccessorSetter
	SubkindUsingTypeName
	SubkindUsingValue
	SubkindUsingEnum
	SubkindSwiftAccessorWillSet
	SubkindSwiftAccessorDidSet
	SubkindSwiftAccessorAddressor
	SubkindSwiftAccessorMutableAddressor
	SubkindSwiftExtensionOfStruct
	SubkindSwiftExtensionOfClass
	SubkindSwiftExtensionOfEnum
	SubkindSwiftExtensionOfProtocol
	SubkindSwiftPrefixOperator
	SubkindSwiftPostfixOperator
	SubkindSwiftInfixOperator
	SubkindSwiftSubscript
	SubkindSwiftAssociatedType
	SubkindSwiftGenericParameter
	SubkindSwiftAccessorRead
	SubkindSwiftAccessorModify
)

var subkindNames = [...]string{
	SubkindNone:                          "none",
	SubkindCXXCopyConstructor:            "cxxCopyConstructor",
	SubkindCXXMoveConstructor:            "cxxMoveConstructor",
	SubkindAccessorGetter:                "accessorGetter",
	SubkindAccessorSetter:                "accessorSetter",
	SubkindUsingTypeName:                 "usingTypeName",
	SubkindUsingValue:                    "usingValue",
	SubkindUsingEnum:                     "usingEnum",
	SubkindSwiftAccessorWillSet:          "swiftAccessorWillSet",
	SubkindSwiftAccessorDidSet:           "swiftAccessorDidSet",
	SubkindSwiftAccessorAddressor:        "swiftAccessorAddressor",
	SubkindSwiftAccessorMutableAddressor: "swiftAccessorMutableAddressor",
	SubkindSwiftExtensionOfStruct:        "swiftExtensionOfStruct",
	SubkindSwiftExtensionOfClass:         "swiftExtensionOfClass",
	SubkindSwiftExtensionOfEnum:          "swiftExtensionOfEnum",
	SubkindSwiftExtensionOfProtocol:      "swiftExtensionOfProtocol",
	SubkindSwiftPrefixOperator:           "swiftPrefixOperator",
	SubkindSwiftPostfixOperator:          "swiftPostfixOperator",
	SubkindSwiftInfixOperator:            "swiftInfixOperator",
	SubkindSwiftSubscript:                "swiftSubscript",
	SubkindSwiftAssociatedType:           "swiftAssociatedType",
	SubkindSwiftGenericParameter:         "swiftGenericParameter",
	SubkindSwiftAccessorRead:             "swiftAccessorRead",
	SubkindSwiftAccessorModify:           "swiftAccessorModify",
}

func (s Subkind) String() string {
	if s < 0 || int(s) >= len(subkindNames) {
		return "UNIDENTIFIED"
	}
	return subkindNames[s]
}

// ParseSubkind returns the subkind with the given name.
func ParseSubkind(name string) (Subkind, error) {
	for i, n := range subkindNames {
		if n == name {
			return Subkind(i), nil
		}
	}
	return SubkindNone, fmt.Errorf("unknown symbol subkind %q", name)
}

func (s Subkind) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Subkind) UnmarshalText(text []byte) error {
	parsed, err := ParseSubkind(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Symbol is a named program entity. USR identifies it across files.
type Symbol struct {
	USR     string  `json:"usr"`
	Name    string  `json:"name"`
	Kind    Kind    `json:"kind"`
	Subkind Subkind `json:"subkind,omitempty"`
}

// Location is a 1-based line and column. Columns are byte offsets.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Relation links an occurrence to another symbol.
type Relation struct {
	Symbol Symbol
	Roles  Roles
}

// Occurrence is one textual mention of a symbol inside a unit's main file.
type Occurrence struct {
	Symbol    Symbol
	Roles     Roles
	Location  Location
	Relations []Relation
}
