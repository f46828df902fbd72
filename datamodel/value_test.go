package datamodel

import (
	"testing"

	"xdao.co/ipld/cid"
)

func TestEqual(t *testing.T) {
	digest := make([]byte, 32)
	digest[0] = 1
	link := Link(cid.NewV1(cid.DagCBOR, cid.NewMultihash(cid.SHA2_256, digest)))

	equal := []struct{ a, b Value }{
		{Null{}, Null{}},
		{nil, Null{}},
		{Bool(true), Bool(true)},
		{Int(-3), Int(-3)},
		{Float(1.5), Float(1.5)},
		{String("x"), String("x")},
		{Bytes{1, 2}, Bytes{1, 2}},
		{List{Int(1), String("a")}, List{Int(1), String("a")}},
		{Map{"a": Int(1), "b": Null{}}, Map{"b": Null{}, "a": Int(1)}},
		{link, link},
	}
	for _, c := range equal {
		if !Equal(c.a, c.b) {
			t.Fatalf("Equal(%v, %v) = false", c.a, c.b)
		}
	}

	unequal := []struct{ a, b Value }{
		{Null{}, Bool(false)},
		{Int(1), Float(1)},
		{Int(1), Int(2)},
		{String("a"), String("b")},
		{Bytes{1}, Bytes{1, 0}},
		{List{Int(1)}, List{Int(1), Int(1)}},
		{Map{"a": Int(1)}, Map{"a": Int(2)}},
		{Map{"a": Int(1)}, Map{"b": Int(1)}},
	}
	for _, c := range unequal {
		if Equal(c.a, c.b) {
			t.Fatalf("Equal(%v, %v) = true", c.a, c.b)
		}
	}
}

func TestKindStrings(t *testing.T) {
	kinds := map[Kind]string{
		KindNull: "null", KindBool: "bool", KindInt: "int", KindFloat: "float",
		KindString: "string", KindBytes: "bytes", KindList: "list", KindMap: "map", KindLink: "link",
	}
	for k, want := range kinds {
		if k.String() != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", k, k.String(), want)
		}
	}
}
