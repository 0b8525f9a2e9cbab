// Package coordinator is the counterpart of package participant: it deals
// keys, assembles signing packages from round-one commitments, aggregates
// signature shares and verifies the result. It uses the ciphersuite
// participant was built with, including the rerandomized build tag.
package coordinator
