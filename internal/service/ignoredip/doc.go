// Package ignoredip manages the list of addresses whose opens and clicks are
// never recorded, typically the operator's own machines.
package ignoredip
