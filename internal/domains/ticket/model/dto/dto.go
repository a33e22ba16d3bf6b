package dto

type TicketResponse struct {
	BookingRef string `json:"booking_ref"`
	Status     string `json:"ticket_status"`
	ObjectKey  string `json:"object_key"`
	URL        string `json:"url,omitempty"`
}

// TicketFile is a stored ticket ready to be streamed to the caller.
type TicketFile struct {
	FileName    string
	ContentType string
	Data        []byte
}
