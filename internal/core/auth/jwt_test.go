package auth

import (
	"testing"
	"time"
)

func TestIssueParseRoundTrip(t *testing.T) {
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "reclamation-api", TTL: time.Hour}

	token, err := j.Issue("u-1", "guichetier", "Insaf")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	c, err := j.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.UID != "u-1" || c.Role != "guichetier" || c.Department != "Insaf" {
		t.Errorf("claims = %+v", c)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "reclamation-api", TTL: time.Hour}
	other := &JWTer{Secret: []byte("other-secret"), Issuer: "reclamation-api", TTL: time.Hour}

	token, err := other.Issue("u-1", "admin", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := j.Parse(token); err == nil {
		t.Fatal("token signed with another secret must not parse")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "reclamation-api", TTL: time.Hour}
	other := &JWTer{Secret: []byte("test-secret"), Issuer: "someone-else", TTL: time.Hour}

	token, err := other.Issue("u-1", "admin", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := j.Parse(token); err == nil {
		t.Fatal("token with another issuer must not parse")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	// expired beyond the 60s leeway
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "reclamation-api", TTL: -5 * time.Minute}
	token, err := j.Issue("u-1", "citizen", "Insaf")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := j.Parse(token); err == nil {
		t.Fatal("expired token must not parse")
	}
}
