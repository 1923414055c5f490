// Package codec decrypts and inflates container frame payloads.
//
// Every payload in a container is a gzip stream encrypted with AES in CBC
// mode. The key and IV are fixed for the whole file; there is no per-frame
// nonce. Opening a payload reverses the two steps:
//
//	plaintext := AES-CBC-Decrypt(key, iv, payload)
//	data      := gunzip(plaintext)
//
// The plaintext carries PKCS#7 padding after the gzip trailer. It is never
// stripped: the inflater stops at the end of the first gzip member and the
// padding is ignored.
//
// # Failure Isolation
//
// Decode never fails. When either step fails the frame is replaced by a
// placeholder record whose inner message holds the failure text (see
// entry.PlaceholderLine), so one undecodable frame cannot abort the
// pipeline or affect its neighbours. Open exposes the underlying error for
// callers that want it.
package codec
