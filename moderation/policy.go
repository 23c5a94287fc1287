// Package moderation holds the decision pipeline: the length policy,
// the per-user violation windows, and the orchestration of delete,
// escalate and persist side effects.
package moderation

import "strings"

// WordLimit is the maximum number of whitespace-delimited tokens a
// message may carry before it counts as a violation. A message of
// exactly WordLimit words is fine.
const WordLimit = 30

// WordCount counts whitespace-delimited tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// OverLimit reports whether the text breaks the length policy.
func OverLimit(text string) bool {
	return WordCount(text) > WordLimit
}
