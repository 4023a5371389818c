package password

import (
	"strings"
	"testing"
)

// params chicos para que el test no queme memoria
var testParams = Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func TestHashVerify_RoundTrip(t *testing.T) {
	phc, err := Hash(testParams, "derived-secret")
	if err != nil {
		t.Fatalf("Hash err: %v", err)
	}
	if !strings.HasPrefix(phc, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Fatalf("unexpected PHC prefix: %s", phc)
	}
	if !Verify("derived-secret", phc) {
		t.Fatal("Verify should accept the original input")
	}
	if Verify("other-secret", phc) {
		t.Fatal("Verify should reject a different input")
	}
}

func TestHash_SaltedPerCall(t *testing.T) {
	a, err := Hash(testParams, "x")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Hash(testParams, "x")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("two hashes of the same input must differ (random salt)")
	}
}

func TestHash_EmptyInput(t *testing.T) {
	if _, err := Hash(testParams, ""); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestVerify_MalformedNeverPanics(t *testing.T) {
	malformed := []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=8192,t=1,p=1$onlyonesegment",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdA$ZGs",     // variante equivocada
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdA$ZGs",    // versión equivocada
		"$argon2id$v=19$m=x,t=y,p=z$c2FsdA$ZGs",       // params no numéricos
		"$argon2id$v=19$m=8192,t=1,p=1$!notb64!$ZGs",  // salt inválido
		"$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$!bad!",  // dk inválido
	}
	for _, phc := range malformed {
		if Verify("anything", phc) {
			t.Fatalf("Verify(%q) must be false", phc)
		}
	}
}
