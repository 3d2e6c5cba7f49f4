// Package domain defines the core boot models for gridboot.
//
// Domain models are plain values without IO dependencies. This package
// contains:
//
//   - NodeIdentity: the persistent private key and UID of a node
//   - LaunchConfig: the resolved parameters for starting the server
//   - BootMode: production or development boot
//   - BootError: coded errors shared by every boot stage
//
// Values here are created once per boot and never mutated after the
// stage that produced them has finished.
package domain
