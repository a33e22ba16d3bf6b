package model

import (
	"path"
	"time"
)

const (
	EntityName = "ticket"
	Directory  = "tickets"
	Extension  = ".pdf"
)

// ObjectKey is where the ticket of ref lives in the bucket.
func ObjectKey(ref string) string {
	return path.Join(Directory, FileName(ref))
}

func FileName(ref string) string {
	return ref + Extension
}

// Data is everything printed on a ticket.
type Data struct {
	Airline       string
	BookingRef    string
	FlightNo      string
	Passengers    []string
	From          string
	To            string
	Date          string
	Start         string
	End           string
	Pax           int
	PaymentStatus string
	GeneratedAt   time.Time
}
