// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package httpmock

import "github.com/stretchr/testify/mock"

// testingT is a standin for a real *testing.T, used to test the test code.
// It counts each kind of call rather than failing the enclosing test.
type testingT struct {
	// T is the delegate that receives all log output
	T mock.TestingT

	Logs     int
	Errors   int
	Failures int
}

var _ mock.TestingT = (*testingT)(nil)

func wrapTestingT(next mock.TestingT) *testingT {
	return &testingT{
		T: next,
	}
}

func (t *testingT) Logf(format string, args ...interface{}) {
	t.Logs++
	t.T.Logf("TEST LOGF: "+format, args...)
}

func (t *testingT) Errorf(format string, args ...interface{}) {
	t.Errors++
	t.T.Logf("TEST ERRORF: "+format, args...)
}

func (t *testingT) FailNow() {
	t.Failures++
	t.T.Logf("TEST FAILNOW")
}
