package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/imamik/memcached-operator/internal/operator/eventsource"
)

func TestExitCode(t *testing.T) {
	terminated := &eventsource.TerminatedError{Selector: "app=memcached", Cause: errors.New("stream broken")}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, exitOK},
		{"generic failure", errors.New("unable to create manager"), exitError},
		{"watch terminated", terminated, exitWatchTerminated},
		{"wrapped watch termination", fmt.Errorf("problem running manager: %w", terminated), exitWatchTerminated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
