package access

// Arg is one named argument bound to an operation call.
type Arg struct {
	Name  string
	Value any
}

// Args holds the bound arguments of a call in declaration order.
type Args []Arg

// Lookup returns the value of the argument with exactly the given name.
func (a Args) Lookup(name string) (any, bool) {
	for _, arg := range a {
		if arg.Name == name {
			return arg.Value, true
		}
	}
	return nil, false
}

// With returns a copy of a with another argument appended.
func (a Args) With(name string, value any) Args {
	out := make(Args, len(a), len(a)+1)
	copy(out, a)
	return append(out, Arg{Name: name, Value: value})
}
