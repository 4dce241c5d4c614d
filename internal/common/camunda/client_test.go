package camunda

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryableConnectionError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("rpc error: code = Unavailable desc = connection refused"), true},
		{errors.New("context deadline exceeded"), true},
		{errors.New("read tcp: connection reset by peer"), true},
		{errors.New("permission denied"), false},
		{errors.New("invalid gateway address"), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRetryableConnectionError(tt.err), "%v", tt.err)
	}
}
