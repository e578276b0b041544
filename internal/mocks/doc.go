// Package mocks provides centralized testify mocks for the store interfaces
// and the collaborators of the service and API layers.
//
// Store mocks return themselves from WithTx without recording a call, so a
// test only sets expectations on the data methods:
//
//	users := new(mocks.MockUserStore)
//	users.On("GetByEmail", mock.Anything, "a@b.c").Return(user, nil)
package mocks
