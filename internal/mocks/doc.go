// Package mocks holds testify mocks for the interfaces in model, the gRPC
// handlers and the client controllers. Each NewX constructor registers
// AssertExpectations as a test cleanup.
package mocks
