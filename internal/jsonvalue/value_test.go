package jsonvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Scalars(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		kind   Kind
		scalar string
	}{
		{"null", `null`, Null, "null"},
		{"true", `true`, Bool, "true"},
		{"false", ` false `, Bool, "false"},
		{"integer", `42`, Number, "42"},
		{"string", `"hello"`, String, "hello"},
		{"escaped string", `"a\"bA"`, String, `a"bA`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind)
			assert.Equal(t, tt.scalar, v.Scalar())
		})
	}
}

func TestParse_ObjectKeepsMemberOrder(t *testing.T) {
	v, err := Parse([]byte(`{"z":1,"a":{"nested":[1,"two",null]},"m":true}`))
	require.NoError(t, err)
	require.True(t, v.IsObject())
	require.Len(t, v.Members, 3)

	assert.Equal(t, "z", v.Members[0].Name)
	assert.Equal(t, "a", v.Members[1].Name)
	assert.Equal(t, "m", v.Members[2].Name)

	nested := v.Path("a", "nested")
	require.True(t, nested.IsArray())
	require.Len(t, nested.Items, 3)
	assert.Equal(t, "two", nested.Items[1].Str)
	assert.Equal(t, Null, nested.Items[2].Kind)
}

func TestParse_NestedObjectsWithLongNames(t *testing.T) {
	inputs := []string{
		`{"a":1}`,
		`{"a":{"b":1}}`,
		`{"a":[1,2]}`,
		`{"subdirectories":{"navigationStack":{"subdirectories":{"12":{"storage":{"virtualUrl":{"value":"https://x.example"}}}}}}}`,
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			var v *Value
			require.NotPanics(t, func() {
				var err error
				v, err = Parse([]byte(in))
				require.NoError(t, err)
			})
			require.True(t, v.IsObject())
		})
	}

	v, err := Parse([]byte(inputs[3]))
	require.NoError(t, err)
	url, ok := v.Path("subdirectories", "navigationStack", "subdirectories", "12", "storage", "virtualUrl").AsString()
	require.True(t, ok)
	assert.Equal(t, "https://x.example", url)
	assert.Equal(t, "navigationStack", v.Get("subdirectories").Members[0].Name)
}

func TestParseStream_ObjectsWithMembers(t *testing.T) {
	var names []string
	for doc := range ParseStream([]byte("\x00{\"first\":{\"inner\":1}} junk [{\"second\":true}]")) {
		switch {
		case doc.IsObject():
			names = append(names, doc.Members[0].Name, doc.Members[0].Value.Members[0].Name)
		case doc.IsArray():
			names = append(names, doc.Items[0].Members[0].Name)
		}
	}
	assert.Equal(t, []string{"first", "inner", "second"}, names)
}

func TestParse_DuplicateNamesLastWins(t *testing.T) {
	v, err := Parse([]byte(`{"title":"old","title":"new"}`))
	require.NoError(t, err)
	s, ok := v.Get("title").AsString()
	assert.True(t, ok)
	assert.Equal(t, "new", s)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ``},
		{"whitespace", `   `},
		{"truncated object", `{"a":`},
		{"trailing garbage", `{"a":1} xyz`},
		{"bare word", `hello`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestParseStream_FindsEmbeddedDocuments(t *testing.T) {
	data := []byte("\x00\x01junk{\"a\":1}more junk[1,2]{broken\x02{\"b\":\"x\"}")

	var docs []*Value
	for v := range ParseStream(data) {
		docs = append(docs, v)
	}

	require.Len(t, docs, 3)
	assert.Equal(t, "1", docs[0].Get("a").Scalar())
	assert.True(t, docs[1].IsArray())
	assert.Equal(t, "x", docs[2].Get("b").Scalar())
}

func TestParseStream_ControlCharactersInsideStrings(t *testing.T) {
	data := []byte("{\"title\":\"line one\nline two\"}")

	var docs []*Value
	for v := range ParseStream(data) {
		docs = append(docs, v)
	}

	require.Len(t, docs, 1)
	assert.Equal(t, "line one line two", docs[0].Get("title").Scalar())
}

func TestParseStream_NoDocuments(t *testing.T) {
	count := 0
	for range ParseStream([]byte("no json here at all")) {
		count++
	}
	assert.Zero(t, count)
}

func TestValue_Unwrap(t *testing.T) {
	wrapped := NewObject(Member{Name: "value", Value: NewString("inner")})
	plain := NewString("plain")

	s, ok := wrapped.AsString()
	assert.True(t, ok)
	assert.Equal(t, "inner", s)

	s, ok = plain.AsString()
	assert.True(t, ok)
	assert.Equal(t, "plain", s)

	_, ok = NewNumber("1").AsString()
	assert.False(t, ok)
}

func TestValue_AsInt(t *testing.T) {
	tests := []struct {
		name  string
		value *Value
		want  int64
		ok    bool
	}{
		{"number", NewNumber("1"), 1, true},
		{"float literal", NewNumber("2.0"), 2, true},
		{"numeric string", NewString(" 1 "), 1, true},
		{"wrapped", NewObject(Member{Name: "value", Value: NewNumber("0")}), 0, true},
		{"fraction", NewNumber("1.5"), 0, false},
		{"word", NewString("tab"), 0, false},
		{"bool", NewBool(true), 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.AsInt()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValue_NilSafeLookups(t *testing.T) {
	var v *Value
	assert.Nil(t, v.Get("x"))
	assert.Nil(t, v.Path("a", "b"))
	assert.Equal(t, "", v.Scalar())

	s := NewString("not an object")
	assert.Nil(t, s.Get("x"))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "object", Object.String())
	assert.Equal(t, "array", Array.String())
	assert.Equal(t, "invalid", Kind(99).String())
}
