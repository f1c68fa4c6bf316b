// Package programme defines the venue screening records the engine enriches
// and their JSON load/export helpers.
package programme
