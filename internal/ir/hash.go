package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainCase             = "kitty/case/v1"
	DomainSubmissionResult = "kitty/submission-result/v1"
	DomainAddress          = "kitty/address/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// HashDocument hashes the canonical JSON of doc under the given domain.
func HashDocument(domain string, doc any) (string, error) {
	canonical, err := MarshalCanonical(doc)
	if err != nil {
		return "", fmt.Errorf("hash %s: failed to marshal: %w", domain, err)
	}
	return hashWithDomain(domain, canonical), nil
}

// CaseID computes the content-addressed identity of a test case.
// Two catalogs declaring the same case in the same category yield the same ID,
// which lets results from different submissions be joined per case.
func CaseID(category, name, operation string, args []IRValue, expected IRValue) (string, error) {
	argArr := IRArray(args)
	if argArr == nil {
		argArr = IRArray{}
	}
	obj := IRObject{
		"category":  IRString(category),
		"name":      IRString(name),
		"operation": IRString(operation),
		"args":      argArr,
		"expected":  expected,
	}
	id, err := HashDocument(DomainCase, obj)
	if err != nil {
		return "", fmt.Errorf("CaseID: %w", err)
	}
	return id, nil
}

// MustCaseID is like CaseID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustCaseID(category, name, operation string, args []IRValue, expected IRValue) string {
	id, err := CaseID(category, name, operation, args, expected)
	if err != nil {
		panic(err)
	}
	return id
}

// Address derives a stable pseudo-address for a named submission:
// "0x" followed by the first 20 bytes of the domain-separated hash.
func Address(name string) string {
	return "0x" + hashWithDomain(DomainAddress, []byte(name))[:40]
}
