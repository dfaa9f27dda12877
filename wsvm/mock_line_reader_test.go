// Mock of LineReader in the layout mockgen emits for
// github.com/reusee/whitespace/wsvm (interfaces: LineReader).
// The go:generate line in wsvm_suite_test.go replaces it with generated output.

package wsvm

import (
	reflect "reflect"

	gomock "github.com/golang/mock/gomock"
)

// MockLineReader is a mock of LineReader interface.
type MockLineReader struct {
	ctrl     *gomock.Controller
	recorder *MockLineReaderMockRecorder
}

// MockLineReaderMockRecorder is the mock recorder for MockLineReader.
type MockLineReaderMockRecorder struct {
	mock *MockLineReader
}

// NewMockLineReader creates a new mock instance.
func NewMockLineReader(ctrl *gomock.Controller) *MockLineReader {
	mock := &MockLineReader{ctrl: ctrl}
	mock.recorder = &MockLineReaderMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockLineReader) EXPECT() *MockLineReaderMockRecorder {
	return m.recorder
}

// ReadLine mocks base method.
func (m *MockLineReader) ReadLine() (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ReadLine")
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ReadLine indicates an expected call of ReadLine.
func (mr *MockLineReaderMockRecorder) ReadLine() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ReadLine", reflect.TypeOf((*MockLineReader)(nil).ReadLine))
}
