package textproc

import (
	"fmt"
	"regexp"

	"github.com/Gowtham-PL/InstaGrade-AI-Mark-Evaluator/internal/model"
)

// markerRE matches one question delimiter: an optional Q/q prefix, digits, and
// a closing ")", "." or ":". The marker must follow start-of-text or
// whitespace so that decimals inside an answer ("3.14") do not split it.
// The one pattern covers both "Q1)" and bare "2." styles.
var markerRE = regexp.MustCompile(`(^|\s)([Qq]?\s*[0-9]+\s*[).:])`)

var digitsRE = regexp.MustCompile(`[0-9]+`)

// Segment splits raw document text into a question-key-to-answer map.
//
// Each answer span runs from the end of its delimiter to the start of the
// next one (or end of text), and is normalized before storing. When the text
// contains no recognizable delimiter at all the whole document becomes the
// single answer "Q1". Text before the first delimiter is dropped, empty spans
// are dropped, and a repeated question number keeps the later answer.
func Segment(raw string) model.AnswerMap {
	matches := markerRE.FindAllStringSubmatchIndex(raw, -1)

	if len(matches) == 0 {
		return model.AnswerMap{"Q1": Normalize(raw)}
	}

	answers := make(model.AnswerMap, len(matches))
	for i, m := range matches {
		marker := raw[m[4]:m[5]]

		var key string
		if digits := digitsRE.FindString(marker); digits != "" {
			key = "Q" + digits
		} else {
			key = fmt.Sprintf("Q%d", i+1)
		}

		start := m[1]
		end := len(raw)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		answer := Normalize(raw[start:end])
		if answer == "" {
			continue
		}
		answers[key] = answer
	}
	return answers
}
