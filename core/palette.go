package core

// BasicColors is the fixed palette available for color-tagging images. Filter
// and import validation only accept colors from this set.
var BasicColors = []string{
	"Red", "Orange", "Yellow", "Green", "Teal", "Blue",
	"Purple", "Pink", "Brown", "Black", "Gray", "White",
}

var basicColorSet = func() map[string]bool {
	set := make(map[string]bool, len(BasicColors))
	for _, c := range BasicColors {
		set[c] = true
	}
	return set
}()

// IsBasicColor reports whether name is a member of the palette.
func IsBasicColor(name string) bool {
	return basicColorSet[name]
}
