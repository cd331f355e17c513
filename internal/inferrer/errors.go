package inferrer

// MinExamples is the smallest example list Infer accepts.
const MinExamples = 2

// ValidationError reports an unusable example list.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
