// Package score computes the two similarity signals the grader blends:
// lexical keyword overlap and embedding-based semantic similarity.
package score

import "strings"

// Keyword returns the lexical overlap between a student answer and a teacher
// answer, both already normalized. It is the fraction of the teacher's
// distinct words that also appear in the student's answer, in [0,1]. The
// denominator floors at 1 so an empty teacher answer scores 0 rather than
// dividing by zero.
func Keyword(student, teacher string) float64 {
	studentWords := tokenSet(student)
	teacherWords := tokenSet(teacher)

	shared := 0
	for w := range studentWords {
		if _, ok := teacherWords[w]; ok {
			shared++
		}
	}

	denom := len(teacherWords)
	if denom < 1 {
		denom = 1
	}
	return float64(shared) / float64(denom)
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
