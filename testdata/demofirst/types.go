package demofirst

import "strings"

//derive:demo
type Bar struct {
	X int
	//demo:value = `strings.ToUpper("y")`
	Y string
}

// greeting calls a constructor that is only generated later.
var greeting = DemoBar(1)
