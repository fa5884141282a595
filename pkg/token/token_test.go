package token

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestSignAndVerify(t *testing.T) {
	s := NewSigner([]byte("geheim"))
	tok, err := NewToken()
	if err != nil {
		t.Fatal(err)
	}
	if id, err := uuid.Parse(tok); err != nil || id.Version() != 7 {
		t.Fatalf("token %q is not a v7 uuid", tok)
	}

	payload := SubmissionPayload{Token: tok, Variant: "rufspiel", Digest: Digest([]byte(`{"a":1}`))}
	sig, err := s.Sign(payload)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Verify(payload, sig); err != nil {
		t.Fatalf("Verify = %v", err)
	}

	tests := []struct {
		name    string
		payload SubmissionPayload
		sig     string
	}{
		{"changed input", SubmissionPayload{Token: tok, Variant: "rufspiel", Digest: Digest([]byte(`{"a":2}`))}, sig},
		{"changed variant", SubmissionPayload{Token: tok, Variant: "solo", Digest: payload.Digest}, sig},
		{"garbage signature", payload, "%%%"},
		{"empty signature", payload, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Verify(tt.payload, tt.sig); !errors.Is(err, ErrInvalidSignature) {
				t.Errorf("Verify = %v, want ErrInvalidSignature", err)
			}
		})
	}
}

func TestRandomSignersDiffer(t *testing.T) {
	a, err := NewRandomSigner()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := NewRandomSigner()
	payload := SubmissionPayload{Token: "x", Variant: "ramsch", Digest: Digest(nil)}
	sig, _ := a.Sign(payload)
	if err := b.Verify(payload, sig); err == nil {
		t.Fatal("signature from another key accepted")
	}
}
