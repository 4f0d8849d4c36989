package intent

import "regexp"

// Inputs that mention calculating or grades next to a number are CGPA
// calculations even when no table rule matched.
var calculationHints = []*regexp.Regexp{
	regexp.MustCompile(`calculate.*\d+`),
	regexp.MustCompile(`grades.*\d+`),
}

// Classification is the routing decision for one input.
type Classification struct {
	// Structured is false when the input should go to the conversational fallback.
	Structured bool
	Intent     Name
}

// Classifier decides between structured handling and conversation.
type Classifier struct {
	resolver *Resolver
}

// NewClassifier wraps a resolver.
func NewClassifier(resolver *Resolver) *Classifier {
	return &Classifier{resolver: resolver}
}

// Classify resolves text and applies the calculation heuristic to unknown input.
func (c *Classifier) Classify(text string) Classification {
	name := c.resolver.Resolve(text)
	if name != Unknown {
		return Classification{Structured: true, Intent: name}
	}

	normalized := Normalize(text)
	for _, hint := range calculationHints {
		if hint.MatchString(normalized) {
			return Classification{Structured: true, Intent: CGPACalculation}
		}
	}
	return Classification{Structured: false, Intent: Unknown}
}
