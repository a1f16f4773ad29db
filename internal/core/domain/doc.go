// Package domain contains the core business entities of veriscan:
// submitted documents, per-pair similarity reports, and the verdict
// returned for every submission. Domain types carry no dependencies on
// adapters or infrastructure.
package domain
