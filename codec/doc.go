// Package codec reads and writes the serialized network format:
//
//	{"nodes": ["Pedro", "Pilar"], "matrix": [[0, 10], [0, 0]]}
//	{"nodes": {"0": "Pedro", "1": "Pilar"}, "matrix": [[0, 10], [0, 0]]}
//	[[0, 10], [0, 0]]
//
// The bare array form gets default names "Node<i>". Amounts must be
// non-negative integers; 10.0 is read as 10. Base64 helpers wrap the same
// JSON for copy-and-paste transport.
package codec
