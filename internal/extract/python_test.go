package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/modeldrift/internal/models"
)

func parse(t *testing.T, src string) *FileResult {
	t.Helper()
	res, err := New(DefaultOptions()).Parse(context.Background(), []byte(src), "app/models.py", "app.models")
	require.NoError(t, err)
	return res
}

func TestParseRecords(t *testing.T) {
	src := `from pydantic import BaseModel
from dataclasses import dataclass
from typing import Optional, Dict


class User(BaseModel):
    """A user.

    Stored in the users table.
    """
    id: int
    email: str = Field(..., description="primary address")
    nickname: Optional[ "str" ] = None
    tags: Dict[str,int] = {}
    plain = 3

    class Config:
        orm_mode = True


@dataclass
class Point:
    x: float
    y: float = 0.0


class NotARecord:
    z: int
`
	res := parse(t, src)
	require.Len(t, res.Records, 2)

	user := res.Records[0]
	assert.Equal(t, "User", user.Name)
	assert.Equal(t, 6, user.LineNumber)
	assert.Equal(t, "app.models", user.Module)
	assert.Equal(t, []string{"BaseModel"}, user.BaseClasses)
	assert.True(t, user.IsPydantic)
	assert.False(t, user.IsDataclass)
	assert.Equal(t, "A user.\n\nStored in the users table.", user.Docstring)

	require.Len(t, user.Fields, 4)
	assert.Equal(t, "id", user.Fields[0].Name)
	assert.Equal(t, "int", user.Fields[0].Type)
	assert.True(t, user.Fields[0].Required)
	assert.Nil(t, user.Fields[0].Default)

	assert.Equal(t, "email", user.Fields[1].Name)
	require.NotNil(t, user.Fields[1].Default)
	assert.Equal(t, "Field(..., description='primary address')", *user.Fields[1].Default)
	assert.False(t, user.Fields[1].Required)

	assert.Equal(t, "Optional['str']", user.Fields[2].Type)
	assert.Equal(t, "None", *user.Fields[2].Default)
	assert.Equal(t, "Dict[str, int]", user.Fields[3].Type)

	point := res.Records[1]
	assert.Equal(t, "Point", point.Name)
	assert.True(t, point.IsDataclass)
	assert.False(t, point.IsPydantic)
	assert.Equal(t, []string{"dataclass"}, point.Decorators)
	assert.Equal(t, 22, point.LineNumber)
	require.Len(t, point.Fields, 2)
	assert.Equal(t, "0.0", *point.Fields[1].Default)
}

func TestParseDottedBaseAndNestedRecord(t *testing.T) {
	src := `import pydantic

class Outer(pydantic.BaseModel):
    class Inner(pydantic.BaseModel):
        v: int
    inner: "Outer.Inner"
`
	res := parse(t, src)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "Outer", res.Records[0].Name)
	assert.Equal(t, []string{"pydantic.BaseModel"}, res.Records[0].BaseClasses)
	assert.Equal(t, "Inner", res.Records[1].Name)
	assert.Equal(t, "'Outer.Inner'", res.Records[0].Fields[0].Type)
}

func TestParseCallables(t *testing.T) {
	src := `class Service:
    def create(self, request: CreateRequest, flag=True) -> CreateResponse:
        def helper(x):
            return x
        return helper(request)


async def standalone(a, b: int, *args, c: str, **kwargs):
    pass


def keyword_only(a, *, b, c=1):
    pass


def positional_only(a, b, /, c):
    pass
`
	res := parse(t, src)
	require.Len(t, res.Callables, 5)

	create := res.Callables[0]
	assert.Equal(t, "create", create.Name)
	assert.Equal(t, "Service", create.ClassName)
	assert.Equal(t, 2, create.LineNumber)
	assert.Equal(t, "CreateResponse", create.ReturnType)
	assert.Equal(t, []string{"self", "request", "flag"}, paramNames(create))
	assert.Equal(t, "CreateRequest", create.Parameters[1].Type)
	assert.False(t, create.IsAsync)

	helper := res.Callables[1]
	assert.Equal(t, "helper", helper.Name)
	assert.Empty(t, helper.ClassName)

	standalone := res.Callables[2]
	assert.True(t, standalone.IsAsync)
	assert.Empty(t, standalone.ClassName)
	assert.Equal(t, []string{"a", "b"}, paramNames(standalone))
	assert.Equal(t, "int", standalone.Parameters[1].Type)

	assert.Equal(t, []string{"a"}, paramNames(res.Callables[3]))
	assert.Equal(t, []string{"c"}, paramNames(res.Callables[4]))
}

func TestParseDecorators(t *testing.T) {
	src := `@app.router.get("/items/{id}", tags=["items", 3], deprecated=True)
def read_item(id: int):
    """Read one item.

    Returns the stored item.
    """


@staticmethod
@functools.lru_cache
def cached():
    pass
`
	res := parse(t, src)
	require.Len(t, res.Callables, 2)

	read := res.Callables[0]
	assert.Equal(t, []string{"app.router.get"}, read.Decorators)
	require.Len(t, read.DecoratorCalls, 1)
	call := read.DecoratorCalls[0]
	require.Len(t, call.Args, 1)
	assert.Equal(t, "/items/{id}", call.Args[0].Str)
	assert.Len(t, call.Keywords["tags"].Items, 2)
	assert.Equal(t, "items", call.Keywords["tags"].Items[0].Str)
	assert.True(t, call.Keywords["deprecated"].Bool)
	assert.Equal(t, "Read one item.\n\nReturns the stored item.", read.Docstring)
	assert.Equal(t, 2, read.LineNumber)

	assert.Equal(t, []string{"staticmethod", "functools.lru_cache"}, res.Callables[1].Decorators)
}

func TestParseDefinitionsInsideCompoundStatements(t *testing.T) {
	src := `try:
    from pydantic import BaseModel
except ImportError:
    BaseModel = object

if True:
    class Guarded(BaseModel):
        a: int
else:
    def fallback():
        pass
`
	res := parse(t, src)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Guarded", res.Records[0].Name)
	require.Len(t, res.Callables, 1)
	assert.Equal(t, "fallback", res.Callables[0].Name)
}

func TestParseMultiLineSignatures(t *testing.T) {
	compact := `class Order(BaseModel):
    items: Dict[str, List[int]] = Field(default_factory=dict, description='lines')

def place(order: Optional[Order], retries: int = 3) -> Tuple[Order, int]:
    pass
`
	wrapped := `class Order(BaseModel):
    items: Dict[
        str,
        List[int],
    ] = Field(
        default_factory=dict,
        description="lines",  # shown in docs
    )

def place(
    order: Optional[
        Order
    ],
    retries: int = 3,
) -> Tuple[
    Order,
    int,
]:
    pass
`
	want := parse(t, compact)
	got := parse(t, wrapped)
	require.Len(t, got.Records, 1)
	require.Len(t, got.Callables, 1)

	assert.Equal(t, want.Records[0].Fields, got.Records[0].Fields)
	assert.Equal(t, "Dict[str, List[int]]", got.Records[0].Fields[0].Type)
	assert.Equal(t, want.Callables[0].Parameters, got.Callables[0].Parameters)
	assert.Equal(t, "Tuple[Order, int]", got.Callables[0].ReturnType)
}

func TestParseSameNameLastWins(t *testing.T) {
	src := `class A(BaseModel):
    x: int

class A(BaseModel):
    y: str
`
	res := parse(t, src)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "y", res.Records[0].Fields[0].Name)
}

func TestParseSyntaxError(t *testing.T) {
	_, err := New(DefaultOptions()).Parse(context.Background(), []byte("class Broken(BaseModel:\n    x: int\n"), "broken.py", "broken")
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestParseInvalidEncoding(t *testing.T) {
	_, err := New(DefaultOptions()).Parse(context.Background(), []byte{0xff, 0xfe, 'x'}, "bin.py", "bin")
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestParseCustomMarkers(t *testing.T) {
	opts := Options{ModelBaseMarker: "Schema", DataclassDecorators: []string{"attr.s"}}
	src := `class A(Schema):
    a: int

@attr.s
class B:
    b: int

class C(BaseModel):
    c: int
`
	res, err := New(opts).Parse(context.Background(), []byte(src), "m.py", "m")
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "A", res.Records[0].Name)
	assert.Equal(t, "B", res.Records[1].Name)
}

func paramNames(fn models.DeclaredCallable) []string {
	names := make([]string, 0, len(fn.Parameters))
	for _, p := range fn.Parameters {
		names = append(names, p.Name)
	}
	return names
}
