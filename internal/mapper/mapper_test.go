package mapper_test

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/go-test/deep"
	"github.com/smejjout/ubidl/internal/mapper"
)

// Supported data types
// - bools
// - ints
// - strings
// - structs
// - pointers to primitive
// - pointers to structs

func newString(s string) *string {
	return &s
}

func ExampleNewDecoder() {
	s := struct {
		APIKey string `map:"API_KEY"`
	}{
		APIKey: "secret",
	}
	dec := mapper.NewDecoder(os.LookupEnv)
	err := dec.Decode(&s)
	if err != nil {
		fmt.Println("Found error", err)
	}
	fmt.Println(s)
}

func Test_Decoder(t *testing.T) {
	t.Parallel()
	type testSubStruct struct {
		String string `map:"string"`
	}
	type testStruct struct {
		Bool          bool           `map:"bool"`
		Int           int            `map:"int"`
		Int64         int64          `map:"int64"`
		String        string         `map:"string"`
		Struct        testSubStruct  `map:"struct"`
		PointerString *string        `map:"pointer_string"`
		PointerStruct *testSubStruct `map:"pointer_struct"`
	}
	var got testStruct
	want := testStruct{
		Bool:          true,
		Int:           -1,
		Int64:         -64,
		String:        "string",
		Struct:        testSubStruct{String: "struct_string"},
		PointerString: newString("string"),
		PointerStruct: &testSubStruct{String: "pointer_struct_string"},
	}
	dec := mapper.NewDecoder(mapper.MapLookup(
		map[string]string{
			"bool":                  "true",
			"int":                   "-1",
			"int64":                 "-64",
			"string":                "string",
			"struct_string":         "struct_string",
			"pointer_string":        "string",
			"pointer_struct_string": "pointer_struct_string",
		}))
	err := dec.Decode(&got)
	if err != nil {
		t.Error("error decoding", err)
	} else if diff := deep.Equal(got, want); diff != nil {
		t.Error(diff)
	}
}

func Test_Partial_Decode(t *testing.T) {
	t.Parallel()
	type testStruct struct {
		APIKey string `map:"API_KEY"`
		Server string `map:"UBICAST_SERVER"`
		Verify bool   `map:"VERIFY"`
	}
	got := testStruct{
		APIKey: "original",
		Server: "https://example.org",
	}
	want := testStruct{
		APIKey: "override",
		Server: "https://example.org",
		Verify: true,
	}
	dec := mapper.NewDecoder(mapper.MapLookup(
		map[string]string{
			"API_KEY": "override",
			"VERIFY":  "true",
		}))
	err := dec.Decode(&got)
	if err != nil {
		t.Error("error decoding", err)
	} else if diff := deep.Equal(got, want); diff != nil {
		t.Error(diff)
	}
}

func Test_Default_Tag(t *testing.T) {
	t.Parallel()
	type testTaglessStruct struct {
		String string
	}
	var got testTaglessStruct
	want := testTaglessStruct{
		String: "string",
	}
	dec := mapper.NewDecoder(
		mapper.MapLookup(map[string]string{
			"String": "string",
		}))
	err := dec.Decode(&got)
	if err != nil {
		t.Error("error decoding", err)
	} else if diff := deep.Equal(got, want); diff != nil {
		t.Error(diff)
	}
}

func Test_Tag_Defaulter(t *testing.T) {
	t.Parallel()
	type testTaglessStruct struct {
		String string
	}
	var got testTaglessStruct
	want := testTaglessStruct{
		String: "string",
	}
	dec := mapper.NewDecoder(mapper.MapLookup(
		map[string]string{
			"STRING": "string",
		}),
		mapper.WithTagDefaulter(strings.ToUpper),
	)
	err := dec.Decode(&got)
	if err != nil {
		t.Error("error decoding", err)
	} else if diff := deep.Equal(got, want); diff != nil {
		t.Error(diff)
	}
}

func Test_Cool_Separator(t *testing.T) {
	t.Parallel()
	type testSubStruct struct {
		String string `map:"string"`
	}
	type testStruct struct {
		Struct testSubStruct `map:"struct"`
	}
	var got testStruct
	want := testStruct{
		Struct: testSubStruct{
			String: "string",
		},
	}
	dec := mapper.NewDecoder(
		mapper.MapLookup(map[string]string{
			"struct string": "string",
		}),
		mapper.WithSeparator(" "),
	)
	err := dec.Decode(&got)
	if err != nil {
		t.Error("error decoding", err)
	} else if diff := deep.Equal(got, want); diff != nil {
		t.Error(diff)
	}
}
