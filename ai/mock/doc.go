// Package mock provides test doubles for the ai package interfaces.
// The doubles use function fields for behavior injection and track call
// counts for assertions.
package mock
