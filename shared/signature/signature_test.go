package signature_test

import (
	"charter/shared/signature"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signedInput(body []byte) signature.SigningInput {
	return signature.SigningInput{
		Method:     "POST",
		Path:       "/api/v1/webhooks/payment",
		Host:       "api.example.com",
		Date:       "Mon, 01 Jan 2024 10:00:00 GMT",
		Digest:     signature.Digest(body),
		MerchantID: "merchant-1",
	}
}

func TestSigningString(t *testing.T) {
	in := signature.SigningInput{
		Method:     "POST",
		Path:       "/pts/v2/payments",
		Host:       "apitest.example.com",
		Date:       "Mon, 01 Jan 2024 10:00:00 GMT",
		Digest:     "SHA-256=abc",
		MerchantID: "m1",
	}

	want := "host: apitest.example.com\n" +
		"date: Mon, 01 Jan 2024 10:00:00 GMT\n" +
		"(request-target): post /pts/v2/payments\n" +
		"digest: SHA-256=abc\n" +
		"v-c-merchant-id: m1"

	assert.Equal(t, want, signature.SigningString(in))
}

func TestSign(t *testing.T) {
	secret := []byte("secret")
	in := signedInput([]byte(`{}`))

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(signature.SigningString(in)))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	assert.Equal(t, want, signature.Sign(secret, in))
}

func TestVerify(t *testing.T) {
	secret := []byte("webhook-secret")
	body := []byte(`{"booking_ref":"FSB-ABC123","status":"succeeded"}`)
	in := signedInput(body)
	valid := signature.NewHeader("key-1", signature.Sign(secret, in)).String()

	tests := []struct {
		name    string
		secret  []byte
		in      signature.SigningInput
		body    []byte
		header  string
		wantErr error
	}{
		{name: "valid signature", secret: secret, in: in, body: body, header: valid},
		{name: "missing header", secret: secret, in: in, body: body, header: "", wantErr: signature.ErrMissingSignature},
		{name: "wrong secret", secret: []byte("other"), in: in, body: body, header: valid, wantErr: signature.ErrInvalidSignature},
		{name: "tampered body", secret: secret, in: in, body: []byte(`{"booking_ref":"FSB-ABC123","status":"failed"}`), header: valid, wantErr: signature.ErrDigestMismatch},
		{name: "malformed header", secret: secret, in: in, body: body, header: "garbage", wantErr: signature.ErrMalformedHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := signature.Verify(tt.secret, tt.in, tt.body, tt.header)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseHeader(t *testing.T) {
	header, err := signature.ParseHeader(`keyid="k", algorithm="HmacSHA256", headers="host date", signature="c2ln"`)

	assert.NoError(t, err)
	assert.Equal(t, "k", header.KeyID)
	assert.Equal(t, "HmacSHA256", header.Algorithm)
	assert.Equal(t, "host date", header.Headers)
	assert.Equal(t, "c2ln", header.Signature)
}

func TestDecodeSecret(t *testing.T) {
	secret, err := signature.DecodeSecret("c2Vj\ncmV0 ")

	assert.NoError(t, err)
	assert.Equal(t, []byte("secret"), secret)

	_, err = signature.DecodeSecret("%%%")
	assert.Error(t, err)
}
