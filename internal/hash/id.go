package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Resource hashes a resource path below an endpoint. The two parts are
// separated by a NUL byte so "a/b"+"c" and "a"+"/bc" hash differently.
func Resource(endpoint, path string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(endpoint)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(path)

	return d.Sum64()
}
