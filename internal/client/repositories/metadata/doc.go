// Package metadata is the key/value table of the local client store.
//
// The signup session state and the profile display cache are both kept here
// under their own keys. Values are opaque blobs; GetJSON and SetJSON encode
// structured values on top of them.
package metadata
