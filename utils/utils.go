package utils

// FormatTimePtr formats an optional time with the given layout, returning
// nil when the time is absent.
func FormatTimePtr[T interface{ Format(string) string }](t *T, layout string) *string {
	if t == nil {
		return nil
	}
	s := (*t).Format(layout)
	return &s
}
