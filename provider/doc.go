// Package provider maps completion provider identities to endpoints, default
// models and stored credentials. Credentials live encrypted in the
// integrations table; decryption is delegated to an injected function so the
// engine never learns the encryption scheme.
package provider
