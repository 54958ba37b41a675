package ForbiddenSubmission

import "os"

func Reverse(s string) string {
	os.Exit(1)
	return s
}
