/*
Package orm stores models in a KVStore.

A ModelBucket keeps all models of one kind under a common prefix, optionally
allocates their keys from a Sequence and maintains secondary indexes. An
index maps an index value (for example the buyer address) to the sorted
list of primary keys of all models producing that value.

Key layout:

	<bucket>:<primary key>            model
	_s.<bucket>:<sequence name>      sequence counter
	_i.<bucket>_<index>:<value>      index references
*/
package orm
