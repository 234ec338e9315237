package access

import "strings"

// Flag is a bitwise-combinable access requirement. Flags combined in one
// declaration are alternatives; separate declarations must all pass.
type Flag uint8

const (
	None     Flag = 0
	Everyone Flag = 1 << 0
	// Self requires the operation to expose the subject it acts on, either as
	// a `userId` argument or through a registered DTO.
	Self  Flag = 1 << 1
	Admin Flag = 1 << 2
)

// Has reports whether every bit of want is set.
func (f Flag) Has(want Flag) bool {
	return want != None && f&want == want
}

func (f Flag) String() string {
	if f == None {
		return "None"
	}
	var parts []string
	for _, named := range []struct {
		flag Flag
		name string
	}{{Everyone, "Everyone"}, {Self, "Self"}, {Admin, "Admin"}} {
		if f.Has(named.flag) {
			parts = append(parts, named.name)
		}
	}
	return strings.Join(parts, "|")
}
