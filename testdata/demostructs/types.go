package demostructs

import (
	"strings"
	"time"
)

//derive:demo
type Foo struct{}

// Bar has two named fields.
//
//derive:demo
type Bar struct {
	X int32
	Y string
}

//derive:demo
type Moog struct {
	//demo:value = "1 + 2"
	int32
	string
}

// Phantom marks a type parameter without storing it.
type Phantom[T any] [0]T

//derive:demo
type Generic[T comparable, P any] struct {
	X *string
	Y Phantom[P]
	//demo:default
	Z T
	W [0]P //demo:into
}

// Label is a named string.
type Label string

// Names is a named slice.
type Names []string

//derive:demo
type Waldo struct {
	//demo:default
	Count int
	//demo:default
	Name string
	//demo:default
	Enabled bool
	//demo:default
	Parent *Waldo
	//demo:default
	Created time.Time
	//demo:default
	Tags []string
}

//derive:demo
type Conv struct {
	//demo:into
	Label Label
	//demo:into
	Ratio float64
	//demo:into
	Bar Bar
}

//derive:demo
type Crab struct {
	//demo:into_iter = "string"
	Legs []string
	//demo:into_iter = "string"
	Names Names
	//demo:into_iter = "string, int"
	Index map[string]int
}

//derive:demo
type Fred struct {
	//demo:value = "strings.Repeat(\"a\", 3)"
	Greeting string
	//demo:value = `time.Second`
	Delay time.Duration
	Keep  bool
}

// Baz keeps its constructor private.
//
//derive:demo
//demo:visibility = ""
type Baz struct {
	A int
	_ int
	B string
}

//derive:demo
type Thud struct {
	Strings string
	Type    string
	Len     int
}

// Base is embedded by Sponge.
type Base struct {
	ID int
}

//derive:demo
type Sponge struct {
	Base
	*Bar
	Name string
}

// Plain is not a subject type.
type Plain struct {
	V int
}

type status int

type names []string

var defaultPort = 8080

//derive:demo
type Job struct {
	//demo:into
	Status status
	//demo:into_iter = "string"
	Names names
	//demo:value = "defaultPort"
	Port        int
	DefaultPort int
}
