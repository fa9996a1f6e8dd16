package indexstore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoles_Names(t *testing.T) {
	roles := RoleReference | RoleCall | RoleCalledBy
	assert.Equal(t, []string{"reference", "call", "calledBy"}, roles.Names())
	assert.Equal(t, "reference, call, calledBy", roles.String())
	assert.Empty(t, Roles(0).Names())
}

func TestRoles_Contains(t *testing.T) {
	roles := RoleDefinition | RoleDeclaration
	assert.True(t, roles.Contains(RoleDefinition))
	assert.True(t, roles.Contains(RoleDefinition|RoleDeclaration))
	assert.False(t, roles.Contains(RoleReference))
	assert.False(t, roles.Contains(RoleDefinition|RoleReference))
}

func TestRoles_JSON(t *testing.T) {
	data, err := json.Marshal(RoleReference | RoleImplicit)
	require.NoError(t, err)
	assert.JSONEq(t, `["reference","implicit"]`, string(data))

	data, err = json.Marshal(Roles(0))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	var roles Roles
	require.NoError(t, json.Unmarshal([]byte(`["definition","childOf"]`), &roles))
	assert.Equal(t, RoleDefinition|RoleChildOf, roles)

	// Raw bitsets as written by index dumping tools are accepted too.
	require.NoError(t, json.Unmarshal([]byte(`6`), &roles))
	assert.Equal(t, RoleDefinition|RoleReference, roles)

	assert.Error(t, json.Unmarshal([]byte(`["bogus"]`), &roles))
	assert.Error(t, json.Unmarshal([]byte(`"reference"`), &roles))
}

func TestRoles_IndexStoreBits(t *testing.T) {
	tests := []struct {
		raw  string
		want Roles
	}{
		{"1", RoleDeclaration},
		{"256", RoleImplicit},
		{"512", RoleChildOf},
		{"16384", RoleExtendedBy},
		{"262144", RoleSpecializationOf},
		{"524288", RoleUndefinition},
		{"1048576", RoleNameReference},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			var roles Roles
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &roles))
			assert.Equal(t, tt.want, roles)
		})
	}

	var roles Roles
	require.NoError(t, json.Unmarshal([]byte(`512`), &roles))
	assert.Equal(t, []string{"childOf"}, roles.Names())
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("IBTypeOf")
	require.NoError(t, err)
	assert.Equal(t, RoleIBTypeOf, role)

	_, err = ParseRole("ibtypeof")
	assert.Error(t, err)
}

func TestRelationRoles(t *testing.T) {
	assert.True(t, RelationRoles.Contains(RoleChildOf|RoleSpecializationOf))
	assert.False(t, RelationRoles.Contains(RoleReference))
}

func TestKind(t *testing.T) {
	kind, err := ParseKind("typealias")
	require.NoError(t, err)
	assert.Equal(t, KindTypealias, kind)
	assert.Equal(t, "typealias", kind.String())
	assert.Equal(t, "UNIDENTIFIED", Kind(999).String())

	_, err = ParseKind("alias")
	assert.Error(t, err)
}

func TestSubkind(t *testing.T) {
	subkind, err := ParseSubkind("swiftExtensionOfStruct")
	require.NoError(t, err)
	assert.Equal(t, SubkindSwiftExtensionOfStruct, subkind)
	assert.Equal(t, "none", SubkindNone.String())

	_, err = ParseSubkind("extension")
	assert.Error(t, err)
}

func TestSymbol_JSON(t *testing.T) {
	symbol := Symbol{
		USR:     "s:e:s:4Main10RealStructV",
		Name:    "RealStruct",
		Kind:    KindExtension,
		Subkind: SubkindSwiftExtensionOfStruct,
	}
	data, err := json.Marshal(symbol)
	require.NoError(t, err)
	assert.JSONEq(t, `{"usr":"s:e:s:4Main10RealStructV","name":"RealStruct","kind":"extension","subkind":"swiftExtensionOfStruct"}`, string(data))

	var decoded Symbol
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, symbol, decoded)

	data, err = json.Marshal(Symbol{USR: "c:@M@Foundation", Name: "Foundation", Kind: KindModule})
	require.NoError(t, err)
	assert.JSONEq(t, `{"usr":"c:@M@Foundation","name":"Foundation","kind":"module"}`, string(data))

	assert.Error(t, json.Unmarshal([]byte(`{"usr":"x","name":"x","kind":"gadget"}`), &decoded))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore("memory")
	record := NewMemoryRecord("r1", []Symbol{{USR: "u1", Name: "one", Kind: KindFunction}}, nil)
	store.AddUnit(Unit{Name: "a", MainFile: "/a.swift", ModuleName: "A", RecordName: "r1"}, record)
	store.AddUnit(Unit{Name: "b", MainFile: "/b.swift", ModuleName: "B"}, nil)

	var names []string
	for unit := range store.Units() {
		names = append(names, unit.Name)
	}
	assert.Equal(t, []string{"a", "b"}, names)
	assert.Equal(t, "memory", store.Path())

	opened, err := store.OpenRecord("r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", opened.Name())

	_, err = store.OpenRecord("r2")
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.NoError(t, store.Close())
}
