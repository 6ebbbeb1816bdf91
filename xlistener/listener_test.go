// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xlistener

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/go-kit/kit/metrics/generic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewListenError(t *testing.T) {
	defer func() { netListen = net.Listen }()

	var (
		assert        = assert.New(t)
		expectedError = errors.New("expected")
	)

	netListen = func(network, address string) (net.Listener, error) {
		assert.Equal("tcp", network)
		assert.Equal(":http", address)
		return nil, expectedError
	}

	l, err := New(Options{})
	assert.Nil(l)
	assert.Equal(expectedError, err)
}

func TestNewDefault(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	l, err := New(Options{Address: "127.0.0.1:0"})
	require.NoError(err)
	require.NotNil(l)
	defer l.Close()

	assert.NotNil(l.(*listener).logger)
	assert.Nil(l.(*listener).semaphore)
	assert.NotNil(l.(*listener).rejected)
	assert.NotNil(l.(*listener).active)
}

func dial(t *testing.T, l net.Listener) net.Conn {
	c, err := net.Dial(l.Addr().Network(), l.Addr().String())
	require.NoError(t, err)
	return c
}

func TestAcceptUnlimited(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		active   = generic.NewGauge("active")
		rejected = generic.NewCounter("rejected")
	)

	next, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)

	l, err := New(Options{
		Logger:   zaptest.NewLogger(t),
		Next:     next,
		Active:   active,
		Rejected: rejected,
	})

	require.NoError(err)
	defer l.Close()

	client := dial(t, l)
	defer client.Close()

	c, err := l.Accept()
	require.NoError(err)
	assert.Equal(1.0, active.Value())

	assert.NoError(c.Close())
	assert.Equal(0.0, active.Value())

	// idempotent release
	c.Close()
	assert.Equal(0.0, active.Value())
	assert.Equal(0.0, rejected.Value())
}

func TestAcceptMaxConnections(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		active   = generic.NewGauge("active")
		rejected = generic.NewCounter("rejected")
	)

	next, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)

	l, err := New(Options{
		Logger:         zaptest.NewLogger(t),
		Next:           next,
		MaxConnections: 1,
		Active:         active,
		Rejected:       rejected,
	})

	require.NoError(err)
	defer l.Close()

	first := dial(t, l)
	defer first.Close()

	c, err := l.Accept()
	require.NoError(err)
	defer c.Close()
	assert.Equal(1.0, active.Value())

	second := dial(t, l)
	defer second.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		if c, err := l.Accept(); err == nil {
			accepted <- c
		}
	}()

	require.Eventually(
		func() bool { return rejected.Value() == 1.0 },
		5*time.Second,
		10*time.Millisecond,
	)

	select {
	case <-accepted:
		assert.Fail("the second connection should have been rejected")
	default:
	}

	assert.Equal(1.0, active.Value())
}

func TestAcceptClosed(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	l, err := New(Options{Logger: zaptest.NewLogger(t), Address: "127.0.0.1:0"})
	require.NoError(err)
	require.NoError(l.Close())

	c, err := l.Accept()
	assert.Nil(c)
	assert.ErrorIs(err, net.ErrClosed)
}
