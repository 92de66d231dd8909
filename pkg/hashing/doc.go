/*
Package hashing provides the keyed, stateless hash function used to assign
byte keys to partitions.

The hash is pure: equal inputs always produce equal outputs, within and
across processes, which makes it safe to use for stable partition routing.
It is not a cryptographic hash.
*/
package hashing
