// Package signature implements the HTTP message signature used between the back office and
// the card gateway: an HMAC-SHA256 over a fixed, newline separated list of request headers.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	Algorithm     = "HmacSHA256"
	SignedHeaders = "host date (request-target) digest v-c-merchant-id"
	digestPrefix  = "SHA-256="
)

var (
	ErrMissingSignature = errors.New("missing signature")
	ErrMalformedHeader  = errors.New("malformed signature header")
	ErrDigestMismatch   = errors.New("digest does not match body")
	ErrInvalidSignature = errors.New("invalid signature")
)

type SigningInput struct {
	Method     string
	Path       string
	Host       string
	Date       string
	Digest     string
	MerchantID string
}

// Header is the parsed form of the Signature request header.
type Header struct {
	KeyID     string
	Algorithm string
	Headers   string
	Signature string
}

func (h Header) String() string {
	return fmt.Sprintf(`keyid="%s", algorithm="%s", headers="%s", signature="%s"`, h.KeyID, h.Algorithm, h.Headers, h.Signature)
}

// Digest returns the Digest header value for body.
func Digest(body []byte) string {
	sum := sha256.Sum256(body)

	return digestPrefix + base64.StdEncoding.EncodeToString(sum[:])
}

// SigningString builds the canonical string. Lines are joined by "\n" without a trailing newline.
func SigningString(in SigningInput) string {
	return strings.Join([]string{
		"host: " + in.Host,
		"date: " + in.Date,
		fmt.Sprintf("(request-target): %s %s", strings.ToLower(in.Method), in.Path),
		"digest: " + in.Digest,
		"v-c-merchant-id: " + in.MerchantID,
	}, "\n")
}

// Sign returns the base64 HMAC-SHA256 of the signing string.
func Sign(secret []byte, in SigningInput) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(SigningString(in)))

	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func NewHeader(keyID, sig string) Header {
	return Header{
		KeyID:     keyID,
		Algorithm: Algorithm,
		Headers:   SignedHeaders,
		Signature: sig,
	}
}

// ParseHeader reads `key="value"` pairs separated by commas. Unknown keys are ignored.
func ParseHeader(value string) (Header, error) {
	var header Header

	value = strings.TrimSpace(value)
	if value == "" {
		return header, ErrMissingSignature
	}

	for _, part := range strings.Split(value, ",") {
		key, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return header, ErrMalformedHeader
		}

		val = strings.Trim(val, `"`)

		switch strings.ToLower(key) {
		case "keyid":
			header.KeyID = val
		case "algorithm":
			header.Algorithm = val
		case "headers":
			header.Headers = val
		case "signature":
			header.Signature = val
		}
	}

	if header.Signature == "" {
		return header, ErrMissingSignature
	}

	return header, nil
}

// Verify checks the body digest and then the signature in constant time.
func Verify(secret []byte, in SigningInput, body []byte, signatureHeader string) error {
	header, err := ParseHeader(signatureHeader)
	if err != nil {
		return err
	}

	if header.Algorithm != "" && !strings.EqualFold(header.Algorithm, Algorithm) {
		return fmt.Errorf("%w: unsupported algorithm %s", ErrMalformedHeader, header.Algorithm)
	}

	digest := Digest(body)
	if in.Digest != "" && !hmac.Equal([]byte(in.Digest), []byte(digest)) {
		return ErrDigestMismatch
	}

	in.Digest = digest

	expected := Sign(secret, in)
	if !hmac.Equal([]byte(expected), []byte(header.Signature)) {
		return ErrInvalidSignature
	}

	return nil
}

// DecodeSecret accepts a base64 secret that may contain whitespace or line breaks.
func DecodeSecret(encoded string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}

		return r
	}, encoded)

	secret, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signing secret: %w", err)
	}

	return secret, nil
}
