package component

// Dialog is a request for the host to show a line of text.
type Dialog struct {
	Text    string
	Speaker string
	// Source is the graph node that raised the request.
	Source string
}
