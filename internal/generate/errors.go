package generate

import "fmt"

// ItemError reports a structural problem with the generated content for a
// single vocabulary line. The dispatcher recovers from it by blocklisting
// the line and retrying with a replacement; any other error from generation
// is an infrastructure failure and is surfaced unchanged.
type ItemError struct {
	Item   string
	Reason string
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("generation failed for %q: %s", e.Item, e.Reason)
}
