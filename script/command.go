package script

import (
	"fmt"

	"github.com/vkngwrapper/fitsim/metadata"
)

type Verb int

const (
	VerbAlloc Verb = iota
	VerbDealloc
)

var verbMapping = map[Verb]string{
	VerbAlloc:   "alloc:",
	VerbDealloc: "dealloc",
}

func (v Verb) String() string {
	return verbMapping[v]
}

// Command is one executable line of a script. Size is only meaningful for VerbAlloc.
type Command struct {
	Line int
	Verb Verb
	Size int
}

func (c Command) String() string {
	if c.Verb == VerbAlloc {
		return fmt.Sprintf("%s %d", c.Verb, c.Size)
	}
	return c.Verb.String()
}

// Target is the allocator surface a script drives
type Target interface {
	Allocate(requested int) (metadata.Address, error)
	Deallocate() (metadata.Address, error)
}
