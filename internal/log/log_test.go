// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
)

func TestCustomHandler(t *testing.T) {
	var buf bytes.Buffer
	h := NewCustomHandler(&buf)
	h.now = func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC) }

	logger := &log.Logger{Handler: h, Level: log.DebugLevel}
	logger.WithError(errors.New("boom")).WithField("key", "company_1").Warn("preload failed")

	assert.Equal(t, "2025-03-04 05:06:07 W preload failed error=boom key=company_1\n", buf.String())
}

func TestInitLogger(t *testing.T) {
	t.Cleanup(func() { log.SetLevel(log.ErrorLevel) })

	t.Setenv("CATPRELOAD_LOG", "debug")
	InitLogger()
	assert.Equal(t, log.DebugLevel, log.Log.(*log.Logger).Level)

	t.Setenv("CATPRELOAD_LOG", "")
	InitLogger()
	assert.Equal(t, log.ErrorLevel, log.Log.(*log.Logger).Level)

	t.Setenv("CATPRELOAD_LOG", "chatty")
	InitLogger()
	assert.Equal(t, log.ErrorLevel, log.Log.(*log.Logger).Level)
}
