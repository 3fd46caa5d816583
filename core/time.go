// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"time"
)

// DefaultEventPollDelay is used when the configured delay is not positive.
const DefaultEventPollDelay = 50 * time.Millisecond

// NewTime creates a new time service
func NewTime(cfg TimeConfiguration) *Time {
	delay := time.Duration(cfg.EventPollDelay) * time.Millisecond
	if delay <= 0 {
		delay = DefaultEventPollDelay
	}

	return &Time{
		eventPollDelay: delay,
		eventTicker:    time.NewTicker(delay),
	}
}

// Time paces the window event loop
type Time struct {
	eventPollDelay time.Duration
	eventTicker    *time.Ticker
}

// EventPollDelay returns the delay between event polls
func (t *Time) EventPollDelay() time.Duration {
	return t.eventPollDelay
}

// EventTicker gets the initialized event ticker for the event loop
func (t *Time) EventTicker() *time.Ticker {
	return t.eventTicker
}

// Stop stops the tickers
func (t *Time) Stop() {
	t.eventTicker.Stop()
}
