package filter

// StatusRule matches or excludes responses by HTTP status code.
func StatusRule(match, exclude []uint16) Rule {
	return Rule{
		kind:          KindStatus,
		matchStatus:   newValueSet(match),
		excludeStatus: newValueSet(exclude),
	}
}
