package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringValue(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{`"abc"`, "abc", true},
		{`'a\'b'`, "a'b", true},
		{`"""doc"""`, "doc", true},
		{`r"\d+"`, `\d+`, true},
		{`"line\nbreak"`, "line\nbreak", true},
		{`f"{x}"`, "", false},
		{`b"raw"`, "", false},
	}
	for _, tc := range cases {
		got, ok := StringValue(tc.raw)
		assert.Equal(t, tc.ok, ok, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}

func TestPyRepr(t *testing.T) {
	assert.Equal(t, "'abc'", pyRepr("abc"))
	assert.Equal(t, `"it's"`, pyRepr("it's"))
	assert.Equal(t, `'say "hi" it\'s'`, pyRepr(`say "hi" it's`))
	assert.Equal(t, `'a\nb'`, pyRepr("a\nb"))
}

func TestRenderExpressions(t *testing.T) {
	cases := map[string]string{
		"x: List[ Optional[int] ]":                  "List[Optional[int]]",
		"x: int | None = None":                      "int | None",
		"x: Tuple[int, ...] = (1, 2)":               "Tuple[int, ...]",
		"x: Dict[str, Any] = {'a':1}":               "Dict[str, Any]",
		"x: typing.Literal[\"a\",\"b\"] = \"a\"":    "typing.Literal['a', 'b']",
		"x: Callable[[int], str] = lambda v:str(v)": "Callable[[int], str]",
	}
	for src, want := range cases {
		res := parse(t, "class M(BaseModel):\n    "+src+"\n")
		if assert.Len(t, res.Records, 1, src) && assert.Len(t, res.Records[0].Fields, 1, src) {
			assert.Equal(t, want, res.Records[0].Fields[0].Type, src)
		}
	}
}

func TestRenderDefaults(t *testing.T) {
	src := `class M(BaseModel):
    a: int = -1
    b: dict = {'k': [1, 2]}
    c: list = Field(default_factory=lambda: [])
    d: int = 1+2*3
    e: str = ("x"
              "y")
`
	res := parse(t, src)
	fields := res.Records[0].Fields
	assert.Equal(t, "-1", *fields[0].Default)
	assert.Equal(t, "{'k': [1, 2]}", *fields[1].Default)
	assert.Equal(t, "Field(default_factory=lambda: [])", *fields[2].Default)
	assert.Equal(t, "1 + 2 * 3", *fields[3].Default)
	assert.Equal(t, "'xy'", *fields[4].Default)
}

func TestRenderIgnoresLayout(t *testing.T) {
	cases := map[string]string{
		"x: Union[\n        int,\n        str,\n    ]": "Union[int, str]",
		"x: Optional[\n        Dict[str, int]\n    ]":  "Optional[Dict[str, int]]",
		"x: (int)":                 "int",
		"x: (int | None)":          "int | None",
		"x: List[(str)]":           "List[str]",
		"x: Tuple[int,]":           "Tuple[int,]",
		"x: Literal['a', 'b',]":    "Literal['a', 'b']",
		"x: Callable[[int,], str]": "Callable[[int], str]",
	}
	for src, want := range cases {
		res := parse(t, "class M(BaseModel):\n    "+src+"\n")
		if assert.Len(t, res.Records, 1, src) && assert.Len(t, res.Records[0].Fields, 1, src) {
			assert.Equal(t, want, res.Records[0].Fields[0].Type, src)
		}
	}
}

func TestRenderCanonicalDefaults(t *testing.T) {
	cases := map[string]string{
		"(1,)":      "(1,)",
		"[1, 2,]":   "[1, 2]",
		"{'a': 1,}": "{'a': 1}",
		"Field(\n        ...,\n        description='multi',\n    )": "Field(..., description='multi')",
		"(3)":         "3",
		"(a + b) * c": "(a + b) * c",
		"0x10":        "16",
		"1_000":       "1000",
		".5":          "0.5",
		"1e3":         "1000.0",
		"1e20":        "1e+20",
		"1e-5":        "1e-05",
		"2j":          "2j",
		`b"x"`:        "b'x'",
		`f"{x}"`:      `f"{x}"`,
	}
	for src, want := range cases {
		res := parse(t, "class M(BaseModel):\n    x: object = "+src+"\n")
		if assert.Len(t, res.Records, 1, src) && assert.Len(t, res.Records[0].Fields, 1, src) {
			if assert.NotNil(t, res.Records[0].Fields[0].Default, src) {
				assert.Equal(t, want, *res.Records[0].Fields[0].Default, src)
			}
		}
	}
}

func TestRenderFloat(t *testing.T) {
	assert.Equal(t, "0.0001", renderFloat("1e-4"))
	assert.Equal(t, "1e+16", renderFloat("1e16"))
	assert.Equal(t, "123456789012345.0", renderFloat("123_456_789_012_345.0"))
	assert.Equal(t, "1e999", renderFloat("1e999"))
}

func TestCleanDoc(t *testing.T) {
	assert.Equal(t, "Summary.", cleanDoc("Summary."))
	assert.Equal(t, "Summary.\n\nBody\n  indented", cleanDoc("  Summary.\n\n    Body\n      indented\n    "))
	assert.Equal(t, "Body", cleanDoc("\n    Body\n"))
}
