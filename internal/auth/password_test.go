package auth

import "testing"

func TestLegacyDigest(t *testing.T) {
	// digest format inherited from the pre-existing credential store
	got := LegacyDigest("client123")
	want := "186474c1f2c2f735a54c2cf82ee8e87f2a5cd30940e280029363fecedfc5328c"
	if got != want {
		t.Fatalf("digest mismatch: got %s want %s", got, want)
	}
}

func TestLegacyHasherRoundTrip(t *testing.T) {
	h := NewHasher(SchemeLegacy, 0)
	stored, err := h.Hash("pw123")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if stored != LegacyDigest("pw123") {
		t.Fatalf("legacy hasher must produce the legacy digest")
	}
	if !Verify(stored, "pw123") {
		t.Fatalf("expected password to match")
	}
	if Verify(stored, "wrong") {
		t.Fatalf("expected password mismatch")
	}
}

func TestBcryptHasherRoundTrip(t *testing.T) {
	h := NewHasher(SchemeBcrypt, 4)
	stored, err := h.Hash("pw123")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if stored == LegacyDigest("pw123") {
		t.Fatalf("bcrypt hasher must not produce a legacy digest")
	}
	if !Verify(stored, "pw123") {
		t.Fatalf("expected password to match")
	}
	if Verify(stored, "wrong") {
		t.Fatalf("expected password mismatch")
	}
}

func TestVerifyDispatchesOnStoredFormat(t *testing.T) {
	// a mixed store authenticates both formats regardless of configured scheme
	legacy := LegacyDigest("old-secret")
	bcryptHasher := NewHasher(SchemeBcrypt, 4)
	hashed, err := bcryptHasher.Hash("new-secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if !Verify(legacy, "old-secret") || !Verify(hashed, "new-secret") {
		t.Fatalf("both stored formats must verify")
	}
}

func TestUnknownSchemeFallsBackToLegacy(t *testing.T) {
	h := NewHasher("argon2", 0)
	stored, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if stored != LegacyDigest("pw") {
		t.Fatalf("unknown scheme should fall back to legacy")
	}
}
