package PartialSubmission

func Add(a, b int) int {
	return a + b
}

func Reverse(s string) string {
	panic("not implemented")
}
