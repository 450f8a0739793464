package vo

// Greeting encapsulates the message returned by the root endpoint.
type Greeting struct {
	Message string `json:"message"`
}
