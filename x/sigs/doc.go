/*
Package sigs provides the authentication middleware that verifies the
ed25519 signatures of a transaction and maintains a nonce per signer for
replay protection.

A signature is created over the sign bytes of the transaction prefixed with
the chain id and the expected nonce of the signer:

	version | len(chainID) | chainID      | nonce             | signBytes
	4bytes  | uint8        | ascii string | int64 (bigendian) | serialized transaction

The result is hashed with sha512 before it is signed.
*/
package sigs
