// Package certs generates per-hostname self-signed TLS key/certificate
// pairs for the local reverse proxy.
//
// These certificates exist only to satisfy browser TLS requirements on a
// local-only stack. They are untrusted by default clients and are not a
// substitute for a real PKI.
package certs

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"
)

const (
	// Validity is the fixed certificate lifetime.
	Validity = 365 * 24 * time.Hour

	keyBits = 2048
)

// PairPaths returns the certificate and key file paths for a hostname.
func PairPaths(dir, hostname string) (certPath, keyPath string) {
	return filepath.Join(dir, hostname+".crt"), filepath.Join(dir, hostname+".key")
}

// EnsurePair generates a self-signed key/certificate pair for hostname in
// dir unless a complete pair already exists. An existing pair is never
// overwritten. Returns true if a new pair was written.
func EnsurePair(dir, hostname string) (bool, error) {
	certPath, keyPath := PairPaths(dir, hostname)

	certExists := fileExists(certPath)
	keyExists := fileExists(keyPath)
	if certExists && keyExists {
		return false, nil
	}
	// A half-written pair is useless; regenerate both files together.

	key, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return false, fmt.Errorf("failed to generate key for %s: %w", hostname, err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return false, fmt.Errorf("failed to generate serial for %s: %w", hostname, err)
	}

	now := time.Now()
	template := x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName: hostname,
		},
		DNSNames:              []string{hostname},
		NotBefore:             now,
		NotAfter:              now.Add(Validity),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return false, fmt.Errorf("failed to create certificate for %s: %w", hostname, err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})

	if err := os.WriteFile(keyPath, keyPEM, 0o600); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", keyPath, err)
	}
	if err := os.WriteFile(certPath, certPEM, 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", certPath, err)
	}

	return true, nil
}

// PairExists reports whether both files of the pair are present.
func PairExists(dir, hostname string) bool {
	certPath, keyPath := PairPaths(dir, hostname)
	return fileExists(certPath) && fileExists(keyPath)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
