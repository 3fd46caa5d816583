// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	log "github.com/sirupsen/logrus"
)

// lifecycle records how to release every handle the pipeline acquires,
// in the order they were acquired. Unwinding releases them in reverse,
// so a failed stage and an orderly shutdown take the same path.
type lifecycle struct {
	log   log.FieldLogger
	steps []releaseStep
}

type releaseStep struct {
	name    string
	release func()
}

// acquired records a release step for a handle that was just created.
func (l *lifecycle) acquired(name string, release func()) {
	l.steps = append(l.steps, releaseStep{name: name, release: release})
}

// held returns the number of outstanding handles.
func (l *lifecycle) held() int {
	return len(l.steps)
}

// unwind releases everything in reverse acquisition order.
// It is safe to call more than once.
func (l *lifecycle) unwind() {
	for len(l.steps) > 0 {
		last := len(l.steps) - 1
		step := l.steps[last]
		l.steps = l.steps[:last]

		l.log.WithField("handle", step.name).Debug("releasing")
		step.release()
	}
}
