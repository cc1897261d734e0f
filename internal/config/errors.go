package config

// Errors accumulates configuration problems so a bad config reports
// everything wrong with it at once.
type Errors struct {
	e []string
}

func (e *Errors) Add(errs ...string) {
	if e.e == nil {
		e.e = make([]string, 0)
	}
	e.e = append(e.e, errs...)
}

func (e *Errors) Append(errs Errors) {
	e.e = append(e.e, errs.e...)
}

func (e *Errors) Ok() bool {
	return len(e.e) == 0
}

func (e Errors) Error() string {
	var output string
	for _, err := range e.e {
		output += err + "\n"
	}
	return output
}
