package field

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrNoLauncher, "You need a Field Launcher to use fields!"},
		{fmt.Errorf("cast field: %w", ErrRecharging), "Your Field Launcher is currently recharging!"},
		{ErrOneAtATime, "You may only launch one field at a time!"},
		{ErrNotAvailable, "You do not have that type of field available."},
		{ErrInternal, "Unable to launch a field right now."},
		{errors.New("boom"), "Unable to launch a field right now."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Reason(tt.err), "%v", tt.err)
	}
}
