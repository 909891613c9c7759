package pointers

func Uint(v uint) *uint { return &v }

// UintValue dereferences p, returning 0 for nil.
func UintValue(p *uint) uint {
	if p == nil {
		return 0
	}
	return *p
}
