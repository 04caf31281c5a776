package errors

import (
	"context"
	goerrors "errors"
	"fmt"
	"testing"

	apperrors "github.com/HARI5KRISHNAN/darevel-sub005/internal/errors"
)

type customErr struct{}

func (*customErr) Error() string { return "custom" }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"app error code wins", fmt.Errorf("outer: %w", apperrors.StateMismatch("reused")), "state_mismatch"},
		{"app error with cause", apperrors.ProviderExchange(context.DeadlineExceeded), "provider_exchange"},
		{"pointer type", fmt.Errorf("wrap: %w", &customErr{}), "errors_customerr"},
		{"stdlib", goerrors.New("plain"), "errors_errorstring"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Fatalf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}
