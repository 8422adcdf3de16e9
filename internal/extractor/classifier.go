package extractor

import "strings"

const (
	questionPrefix = "### "
	optionPrefix   = "- ["
	checkedMarker  = "x"
)

// LineKind is the classification of a single source line.
type LineKind int

const (
	Ignored LineKind = iota
	QuestionStart
	OptionLine
)

func (k LineKind) String() string {
	switch k {
	case QuestionStart:
		return "question"
	case OptionLine:
		return "option"
	default:
		return "ignored"
	}
}

// Line is the result of classifying one line of text.
type Line struct {
	Kind    LineKind
	Text    string
	Correct bool
}

// Classify decides what a line declares. It holds no state.
//
//	### What is S3?      -> QuestionStart("What is S3?")
//	- [x] Object storage -> OptionLine("Object storage", correct)
//	- [ ] Block storage  -> OptionLine("Block storage", not correct)
func Classify(line string) Line {
	switch {
	case strings.HasPrefix(line, questionPrefix):
		return Line{
			Kind: QuestionStart,
			Text: strings.TrimSpace(line[len(questionPrefix):]),
		}
	case strings.HasPrefix(line, optionPrefix):
		rest := line[len(optionPrefix):]
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return Line{Kind: OptionLine, Text: strings.TrimSpace(rest)}
		}
		return Line{
			Kind:    OptionLine,
			Text:    strings.TrimSpace(rest[end+1:]),
			Correct: rest[:end] == checkedMarker,
		}
	default:
		return Line{Kind: Ignored}
	}
}
