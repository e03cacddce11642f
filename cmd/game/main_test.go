package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFinish(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantLogs int
	}{
		{name: "clean run", wantCode: 0, wantLogs: 0},
		{name: "failed run", err: errors.New("boom"), wantCode: 1, wantLogs: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.ErrorLevel)

			code := finish(zap.New(core), tt.err)

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantLogs, logs.FilterMessage("game failed").Len())
		})
	}
}
