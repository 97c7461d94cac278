package textutil

// Ternary returns yes when cond holds, otherwise no. Both arguments are
// evaluated; keep them cheap.
func Ternary[T any](cond bool, yes, no T) T {
	if cond {
		return yes
	}
	return no
}
