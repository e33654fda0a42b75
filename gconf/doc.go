/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension owns a single configuration object, stored under the "_c:"
prefix followed by the extension name. The configuration is loaded from the
genesis "conf" section and can later be replaced by a message handler of the
owning extension.

Unlike the model buckets, a configuration is not versioned and is not
indexed. Every read returns the latest written value.
*/
package gconf
