// Package main provides the entry point for the svcping CLI.
//
// svcping checks whether a network service is alive by speaking just
// enough of its protocol to get a valid answer.
//
// Usage:
//
//	svcping ping <host> -P mqtt
//	svcping list
//
// See --help for all available options.
package main

func main() {
	Execute()
}
