package demobad

// Number is a constraint, not a constructible type.
//
//derive:demo
type Number interface {
	~int | ~float64
}

//derive:demo
type Void int

//derive:demo
type Level int

const (
	Low  Level = iota
	High Level = 10
)

//derive:demo
type Table map[string]int

//derive:demo
type Twice struct {
	//demo:default
	//demo:into
	A int
}

//derive:demo
type Unknown struct {
	//demo:frobnicate
	A int
}

//derive:demo
type Broken struct {
	//demo:value = "1 +"
	A int
}

//derive:demo
type Clash interface {
	isClash()
}

type Odd[U any] struct {
	V U
}

func (Odd[U]) isClash() {}
