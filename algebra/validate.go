package algebra

// Validate checks that text parses as exactly one well-formed expression.
// It never touches data: a valid expression can still fail at evaluation
// time, for example by naming a column the frame does not have.
func Validate(text string) error {
	_, err := Parse(text)
	return err
}
