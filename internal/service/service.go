// Package service contains the business logic.
//
// It sits between the handler and repository layers. One parameterized
// pipeline serves every form: the handler hands it the raw request, and a
// Form definition decides which checks run, how fields map onto the record
// store, and which notifications follow a successful write.
package service
