package model

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

const (
	pageWidth  = 595
	pageHeight = 842
	margin     = 40

	fontRegular = "F1"
	fontBold    = "F2"
)

type textLine struct {
	y    int
	size int
	font string
	text string
}

// Render draws the ticket as a single A4 page PDF using the standard Helvetica fonts.
func Render(data Data) []byte {
	var content bytes.Buffer

	for _, line := range layout(data) {
		fmt.Fprintf(&content, "BT /%s %d Tf %d %d Td (%s) Tj ET\n", line.font, line.size, margin, line.y, escape(line.text))
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Resources << /Font << /%s 4 0 R /%s 5 0 R >> >> /Contents 6 0 R >>",
			pageWidth, pageHeight, fontRegular, fontBold),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
	}

	var out bytes.Buffer

	out.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, object := range objects {
		offsets[i] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n%s\nendobj\n", i+1, object)
	}

	xref := out.Len()

	fmt.Fprintf(&out, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)

	for _, offset := range offsets {
		fmt.Fprintf(&out, "%010d 00000 n \n", offset)
	}

	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return out.Bytes()
}

func layout(data Data) []textLine {
	y := pageHeight - 60
	lines := []textLine{}

	add := func(size int, font, text string, gap int) {
		lines = append(lines, textLine{y: y, size: size, font: font, text: text})
		y -= gap
	}

	airline := data.Airline
	if airline == "" {
		airline = "Charter"
	}

	add(18, fontBold, airline+" Ticket", 20)
	add(11, fontRegular, "Booking Reference: "+data.BookingRef, 16)

	if data.FlightNo != "" {
		add(11, fontRegular, "Flight No: "+data.FlightNo, 16)
	}

	y -= 18
	add(12, fontBold, "Passengers", 18)

	if len(data.Passengers) == 0 {
		add(11, fontRegular, "(Not provided)", 16)
	}

	for _, name := range data.Passengers {
		add(11, fontRegular, name, 16)
	}

	y -= 18
	add(12, fontBold, "Trip", 18)
	add(11, fontRegular, "From: "+data.From, 16)
	add(11, fontRegular, "To:   "+data.To, 16)
	add(11, fontRegular, "Date: "+data.Date, 16)
	add(11, fontRegular, fmt.Sprintf("Time: %s - %s", data.Start, data.End), 16)
	add(11, fontRegular, fmt.Sprintf("PAX:  %d", data.Pax), 16)

	y -= 18
	add(12, fontBold, "Payment", 18)
	add(11, fontRegular, "Status: "+data.PaymentStatus, 16)

	y = 40
	add(9, fontRegular, "This ticket is generated automatically after successful payment.", 14)
	add(9, fontRegular, "Generated: "+data.GeneratedAt.UTC().Format(time.RFC3339), 14)

	return lines
}

// escape makes text safe inside a PDF literal string. Characters outside Latin-1 become '?'.
func escape(text string) string {
	var b strings.Builder

	for _, r := range text {
		switch {
		case r == '(' || r == ')' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x20:
			b.WriteByte(' ')
		case r > 0xff:
			b.WriteByte('?')
		case r >= 0x80:
			fmt.Fprintf(&b, "\\%03o", r)
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
