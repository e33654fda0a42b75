/*
Package x contains the extensions of the custody application and the
authentication interface they share.

Every extension (cash, escrow, installment, ...) implements its messages,
their handlers and a controller holding the business logic. Extensions never
hard code an authentication scheme, they receive an Authenticator and ask it
which conditions signed the current transaction.
*/
package x
