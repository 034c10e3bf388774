package diagnose

// EventText returns the best available text line of an event:
// payload text first, then the top-level message, otherwise "".
func EventText(e Event) string {
	if e.Text != nil {
		return *e.Text
	}
	if e.Message != nil {
		return *e.Message
	}
	return ""
}

// EventLines extracts the non-empty text lines of events in order
func EventLines(events []Event) []string {
	lines := make([]string, 0, len(events))
	for _, e := range events {
		if text := EventText(e); text != "" {
			lines = append(lines, text)
		}
	}
	return lines
}
