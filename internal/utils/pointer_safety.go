package utils

// ValueOr dereferences v, returning fallback when v is nil.
// Upstream JSON marks optional numbers as pointers so an absent field and zero stay distinct.
func ValueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}

func Ptr[T any](v T) *T {
	return &v
}
