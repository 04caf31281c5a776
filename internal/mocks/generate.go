// Package mocks provides gomock-generated mocks for the ports used by the fleet services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	prober := mocks.NewMockProber(ctrl)
//	prober.EXPECT().Probe(gomock.Any(), gomock.Any()).Return(10*time.Millisecond, nil)
package mocks

// Generate mock for Prober interface from internal/ports package.
// This creates MockProber with methods for all Prober interface methods:
// Probe
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=prober_mock.go github.com/HARI5KRISHNAN/darevel-sub005/internal/ports Prober

// Generate mock for TokenAuthority interface from internal/ports package.
// This creates MockTokenAuthority with methods for all TokenAuthority interface methods:
// Authenticate, Refresh
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=token_authority_mock.go github.com/HARI5KRISHNAN/darevel-sub005/internal/ports TokenAuthority
