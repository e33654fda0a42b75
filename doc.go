/*
Package custody defines the interfaces shared by all packages of the custody
application: storage, messages and transactions, handlers and decorators,
addresses and conditions, and the block context.

Every operation is executed by a Handler against a KVStore. The application
wraps every transaction in a cache (KVCacheWrap) and writes it only if the
operation succeeded, so a failed operation leaves the state unchanged.

Values carried by the Context follow one pattern: for every value of type T
there is

	WithXYZ(Context, T) Context
	GetXYZ(Context) T

and WithXYZ panics if the value was already set, so that lower level code
cannot overwrite block information.
*/
package custody
