package demoenums

// Fizz is an iota enum.
//
//derive:demo
type Fizz int

const (
	ThisISNotADrill Fizz = iota
	BiteMe
	_
)

// Enterprise is a sealed sum type.
//
//derive:demo
type Enterprise interface {
	isEnterprise()
}

type Picard struct{}

type Data struct {
	//demo:default
	Rank int32
	Name string
}

type Borg struct {
	int32
	string
}

func (Picard) isEnterprise() {}
func (Data) isEnterprise()   {}
func (*Borg) isEnterprise()  {}

// Tree is a generic sum type.
//
//derive:demo
type Tree[T any] interface {
	isTree()
}

type Leaf[T any] struct {
	Value T
}

type Node[T any] struct {
	//demo:into_iter = "Tree[T]"
	Children []Tree[T]
}

func (Leaf[T]) isTree() {}
func (Node[T]) isTree() {}

// Upside carries its linter directives onto its constructors.
//
//derive:demo
//nolint:unused
//lint:ignore U1000 kept for the demo
type Upside int

const (
	Down Upside = iota
)
