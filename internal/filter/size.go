package filter

// SizeRule matches or excludes responses by body size in bytes.
func SizeRule(match, exclude []uint64) Rule {
	return Rule{
		kind:        KindSize,
		matchSize:   newValueSet(match),
		excludeSize: newValueSet(exclude),
	}
}
