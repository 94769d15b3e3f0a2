// Package fakes provides test doubles for the credential backend
// contracts.
//
// Fakes are written by hand rather than generated so tests control
// every failure mode precisely.
//
//	fake := fakes.NewFakeKeychainClient()
//	fake.SetSecret("ccm", "work", []byte("sk-123"))
//	r := credentials.NewResolver(credentials.WithKeychainClient(fake))
package fakes
